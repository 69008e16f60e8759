package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePulseMessage(t *testing.T) {
	at, err := time.Parse(time.RFC3339, "2024-06-01T14:03:59Z")
	require.NoError(t, err)

	raw, err := encodePulseMessage(PulseEvent{
		ID:       "2b1c8a6e-9f6c-4d1f-9f7a-0a4a6f1f2b3c",
		At:       at,
		Duration: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"event": "pulse",
		"pulse_id": "2b1c8a6e-9f6c-4d1f-9f7a-0a4a6f1f2b3c",
		"time": "2024-06-01T14:03:59Z",
		"duration_ms": 500
	}`, string(raw))
}

func TestEncodeStatusMessage(t *testing.T) {
	at, err := time.Parse(time.RFC3339, "2024-06-01T08:00:00Z")
	require.NoError(t, err)

	raw, err := encodeStatusMessage("online", "192.168.1.44", at)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"online","address":"192.168.1.44","time":"2024-06-01T08:00:00Z"}`, string(raw))

	raw, err = encodeStatusMessage("offline", "", at)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"offline","time":"2024-06-01T08:00:00Z"}`, string(raw))
}
