package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,kioskemail"`
	Phone     string `json:"phone" validate:"phonenumber"`
	SessionID string `json:"session_id" validate:"sessionid"`
}

func TestIsEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+c@sub.domain.io", "x@y.z"}
	invalid := []string{"", "ana", "ana@example", "@example.com", "ana@.", "ana @example.com", "ana@exa mple.com"}

	for _, e := range valid {
		assert.True(t, IsEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsEmail(e), e)
	}
}

func TestIsPhoneNumber(t *testing.T) {
	valid := []string{"", "+14155550100", "7 912 345 67 89", "1", "+1234567890123456"}
	invalid := []string{"abc", "0123", "+0", "+", "12345678901234567", "12-34"}

	for _, p := range valid {
		assert.True(t, IsPhoneNumber(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsPhoneNumber(p), p)
	}
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(form{Name: "", Email: "nope", Phone: "abc", SessionID: "bad id"})
	require.Error(t, err)

	var verr validator.ValidationErrors
	require.True(t, errors.As(err, &verr))

	fields := make(map[string]string, len(verr))
	for _, fe := range verr {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"name":       "required",
		"email":      "kioskemail",
		"phone":      "phonenumber",
		"session_id": "sessionid",
	}, fields)
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(form{Name: "Ana", Email: "ana@example.com"}))
	require.NoError(t, Struct(form{Name: "Ana", Email: "ana@example.com", Phone: "+1 415 555 0100", SessionID: "REG_1_abc"}))
}
