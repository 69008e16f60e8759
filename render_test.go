package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"gregoryjjb/buzzd/display"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLayout(t *testing.T) {
	fake := &display.Fake{}

	rec := NewRecorder(10)
	rec.now = fixedClock(t, "14:03:59")
	rec.Record(200, "/health")
	rec.Record(404, "/nope")
	rec.Record(200, "/push")

	err := Render(fake, "192.168.1.44", rec.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Clears())

	ops := fake.Ops()
	require.Len(t, ops, 4)

	assert.Equal(t, display.Point{X: 0, Y: 10}, ops[0].Point)
	assert.Equal(t, "IP: 192.168.1.44", ops[0].Text)

	// Log lines start at y=30 and advance 12px per row, oldest first
	assert.Equal(t, display.Point{X: 0, Y: 30}, ops[1].Point)
	assert.Equal(t, "14:03:59 200 /health", ops[1].Text)
	assert.Equal(t, display.Point{X: 0, Y: 42}, ops[2].Point)
	assert.Equal(t, "14:03:59 404 /nope", ops[2].Text)
	assert.Equal(t, display.Point{X: 0, Y: 54}, ops[3].Point)
	assert.Equal(t, "14:03:59 200 /push", ops[3].Text)
}

func TestRenderEmptyLog(t *testing.T) {
	fake := &display.Fake{}

	err := Render(fake, "10.0.0.7", nil)
	require.NoError(t, err)

	ops := fake.Ops()
	require.Len(t, ops, 1)
	assert.Equal(t, "IP: 10.0.0.7", ops[0].Text)
}

func TestRenderPropagatesDrawErrors(t *testing.T) {
	fake := &display.Fake{DrawErr: errors.New("spi bus gone")}

	err := Render(fake, "10.0.0.7", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drawing address")
}

func TestRunDisplayLoopRedraws(t *testing.T) {
	fake := &display.Fake{}
	rec := NewRecorder(10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunDisplayLoop(ctx, fake, "10.0.0.7", rec, 5*time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		return fake.Clears() >= 3
	}, time.Second, time.Millisecond, "expected several frames")

	cancel()
	require.NoError(t, <-done)
}

func TestRunDisplayLoopStopsOnDrawFailure(t *testing.T) {
	fake := &display.Fake{ClearErr: errors.New("panel unplugged")}
	rec := NewRecorder(10)

	err := RunDisplayLoop(context.Background(), fake, "10.0.0.7", rec, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clearing display")
}
