package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileInput struct {
	Username  string `validate:"omitempty,username"`
	Email     string `validate:"omitempty,email"`
	FirstName string `validate:"max=5"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(profileInput{Username: "ali_99", Email: "a@b.co"}))

	err = v.Validate(profileInput{Username: "a-b", Email: "nope", FirstName: "toolong"})
	require.Error(t, err)

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Username must be 3-150 letters, digits or underscores", verr.Values()["username"])
	assert.Contains(t, verr.Values(), "email")
	assert.Contains(t, verr.Values(), "first_name")
	assert.Contains(t, verr.Error(), "username")
}

func TestV10ValidationError_Empty(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}
