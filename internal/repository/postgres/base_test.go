package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/swasthya/medrec-api/pkg/errors"
)

func TestMapWriteErrorUniqueViolation(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolation, Constraint: "patients_email_key"}
	err := mapWriteError(pqErr, "patient")
	assert.True(t, errors.Is(err, errors.ErrConflict))
	assert.Contains(t, err.Error(), "email")
}

func TestMapWriteErrorCompoundColumn(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolation, Constraint: "patients_phone_no_key"}
	err := mapWriteError(pqErr, "patient")
	assert.Contains(t, err.Error(), "phone_no")
}

func TestMapWriteErrorNoRows(t *testing.T) {
	err := mapWriteError(sql.ErrNoRows, "record")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestMapWriteErrorPassthrough(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := mapWriteError(cause, "patient")
	assert.Equal(t, cause, err)
	assert.Nil(t, mapWriteError(nil, "patient"))
}
