package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"patient", "doctor", "hospital", "extern"} {
		role, err := ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, s, role.String())
		assert.True(t, role.Valid())
	}

	for _, s := range []string{"", "admin", "Patient", "nurse"} {
		_, err := ParseRole(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}
