package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_MarshalJSON(t *testing.T) {
	ref := "fp-7"
	registration := Registration{
		SessionID:   "REG_1",
		Name:        "Ana",
		Email:       "ana@example.com",
		Phone:       "+15550100",
		Status:      StatusActive,
		ExternalRef: &ref,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, v := range []interface{}{registration, &registration, []Registration{registration}} {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"timestamp":1735689600000`)
	}

	b, err := json.Marshal(registration)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"session_id":"REG_1",
		"name":"Ana",
		"email":"ana@example.com",
		"phone":"+15550100",
		"status":"active",
		"external_ref":"fp-7",
		"created_at":"2025-01-01T00:00:00Z",
		"timestamp":1735689600000
	}`, string(b))

	var decoded Registration
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, registration.SessionID, decoded.SessionID)
	assert.True(t, registration.CreatedAt.Equal(decoded.CreatedAt))
}

func TestRegistrationStatus(t *testing.T) {
	assert.True(t, StatusPending.CanAttach())
	assert.True(t, StatusWaitingForExternalAttachment.CanAttach())
	assert.False(t, StatusActive.CanAttach())
	assert.False(t, StatusError.CanAttach())
	assert.False(t, RegistrationStatus("done").IsValid())
}
