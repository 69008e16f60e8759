package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// BuzzdFS is an Afero FS with the couple of OS lookups config resolution
// needs, so tests can run against an in-memory filesystem
type BuzzdFS interface {
	afero.Fs
	Abs(string) (string, error)
	HomeDir() (string, error)
}

type buzzdOSFS struct {
	afero.Fs
}

func newBuzzdOSFS() BuzzdFS {
	return &buzzdOSFS{
		afero.NewOsFs(),
	}
}

func (b *buzzdOSFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (b *buzzdOSFS) HomeDir() (string, error) {
	return os.UserHomeDir()
}

type buzzdMemFS struct {
	afero.Fs
}

func NewBuzzdMemFS() BuzzdFS {
	return &buzzdMemFS{
		afero.NewMemMapFs(),
	}
}

func (b *buzzdMemFS) Abs(path string) (string, error) {
	return path, nil
}

func (b *buzzdMemFS) HomeDir() (string, error) {
	return "/", nil
}
