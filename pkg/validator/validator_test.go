package validator

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
)

func TestRoleTagRejectsUnknownRoles(t *testing.T) {
	require.NoError(t, Register())

	var req model.LoginRequest
	err := binding.JSON.BindBody(
		[]byte(`{"email":"asha@example.com","password":"supersecret","role":"doctor"}`), &req)
	assert.NoError(t, err)

	var bad model.LoginRequest
	err = binding.JSON.BindBody(
		[]byte(`{"email":"asha@example.com","password":"supersecret","role":"admin"}`), &bad)
	assert.Error(t, err)
}

func TestDateOnlyTagChecksFormatAtBinding(t *testing.T) {
	require.NoError(t, Register())

	body := `{"full_name":"Asha Rao","email":"asha@example.com","password":"supersecret",` +
		`"phone_no":"9876543210","date_of_birth":"%s","gender":"female"}`

	var req model.SignupPatientRequest
	err := binding.JSON.BindBody([]byte(fmt.Sprintf(body, "1990-06-15")), &req)
	assert.NoError(t, err)

	var bad model.SignupPatientRequest
	err = binding.JSON.BindBody([]byte(fmt.Sprintf(body, "15/06/1990")), &bad)
	assert.Error(t, err)
}

func TestDateOnlyTagSkipsEmptyOptionalFields(t *testing.T) {
	require.NoError(t, Register())

	var req model.UpdateExternOrganizationRequest
	err := binding.JSON.BindBody([]byte(`{"type":"ngo","name":"Care Trust"}`), &req)
	assert.NoError(t, err)

	var bad model.UpdateExternOrganizationRequest
	err = binding.JSON.BindBody(
		[]byte(`{"type":"ngo","name":"Care Trust","founded_on":"not-a-date"}`), &bad)
	assert.Error(t, err)
}
