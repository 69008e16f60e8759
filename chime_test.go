package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChimeMissingFile(t *testing.T) {
	fs := NewBuzzdMemFS()

	_, err := NewChime(fs, "/sounds/ding.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening chime")
}

func TestNewChimeBadFile(t *testing.T) {
	fs := NewBuzzdMemFS()
	require.NoError(t, afero.WriteFile(fs, "/sounds/ding.mp3", []byte("not an mp3"), 0o644))

	_, err := NewChime(fs, "/sounds/ding.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding chime")
}
