package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestWaitForNetworkEnvOverride(t *testing.T) {
	getenv := func(key string) string {
		if key == "NETWORK_IP" {
			return "192.168.1.44"
		}
		return ""
	}
	lookup := func() (string, bool) {
		t.Fatal("must not probe interfaces when the environment says otherwise")
		return "", false
	}

	addr, err := waitForNetwork(context.Background(), time.Second, lookup, getenv)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.44", addr)
}

func TestWaitForNetworkReturnsAddress(t *testing.T) {
	lookup := func() (string, bool) { return "10.0.0.7", true }

	addr, err := waitForNetwork(context.Background(), time.Second, lookup, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", addr)
}

func TestWaitForNetworkTimesOut(t *testing.T) {
	lookup := func() (string, bool) { return "", false }

	_, err := waitForNetwork(context.Background(), -time.Second, lookup, noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no routable address")
}

func TestWaitForNetworkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lookup := func() (string, bool) { return "", false }

	_, err := waitForNetwork(ctx, time.Minute, lookup, noEnv)
	assert.ErrorIs(t, err, context.Canceled)
}
