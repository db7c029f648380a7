package model

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/pkg/errors"
)

func TestPatientRefRequiresExactlyOneIdentifier(t *testing.T) {
	empty := PatientRef{}
	err := empty.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, _, err = empty.Column()
	assert.Error(t, err)
}

func TestPatientRefColumn(t *testing.T) {
	id := uuid.New()

	col, val, err := RefByID(id).Column()
	require.NoError(t, err)
	assert.Equal(t, "patient_id", col)
	assert.Equal(t, id, val)

	col, val, err = RefBySHC("SHC-123").Column()
	require.NoError(t, err)
	assert.Equal(t, "shc_code", col)
	assert.Equal(t, "SHC-123", val)

	col, val, err = RefByQR("QR-9").Column()
	require.NoError(t, err)
	assert.Equal(t, "qr_code", col)
	assert.Equal(t, "QR-9", val)
}

func TestAppendDataLogDropsOldestPastCap(t *testing.T) {
	var logs string
	for i := 1; i <= DataLogCap+1; i++ {
		logs = AppendDataLog(logs, fmt.Sprintf("visit %d", i))
	}

	entries := SplitDataLog(logs)
	require.Len(t, entries, DataLogCap)
	assert.Equal(t, fmt.Sprintf("visit %d", DataLogCap+1), entries[0])
	assert.Equal(t, "visit 2", entries[len(entries)-1])
	assert.NotContains(t, entries, "visit 1")
}

func TestAppendDataLogSkipsBlankSegments(t *testing.T) {
	logs := AppendDataLog(",,older visit,", "newer visit")
	assert.Equal(t, "newer visit,older visit", logs)

	assert.Equal(t, []string{"a", "b"}, SplitDataLog(",a,,b,"))
	assert.Empty(t, SplitDataLog(""))
}

func TestRefByCodesPrefersSHC(t *testing.T) {
	ref := RefByCodes("SHC-1", "QR-1")
	col, _, err := ref.Column()
	require.NoError(t, err)
	assert.Equal(t, "shc_code", col)

	ref = RefByCodes("", "QR-1")
	col, _, err = ref.Column()
	require.NoError(t, err)
	assert.Equal(t, "qr_code", col)
}
