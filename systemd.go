package main

import (
	_ "embed"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed buzzd.service
var buzzdServiceEmbed string

type BuzzdServiceParams struct {
	BinaryPath string
	WorkingDir string
	User       string
}

// SystemdServiceFile prints a unit file for the current binary to stdout,
// ready to be piped into /etc/systemd/system/buzzd.service
func SystemdServiceFile() {
	tmpl := template.New("buzzd.service")
	tmpl, err := tmpl.Parse(buzzdServiceEmbed)
	if err != nil {
		panic(err)
	}

	path, err := os.Executable()
	if err != nil {
		panic(err)
	}

	params := BuzzdServiceParams{
		BinaryPath: path,
		WorkingDir: filepath.Dir(path),
		User:       "pi",
	}

	err = tmpl.Execute(os.Stdout, params)
	if err != nil {
		panic(err)
	}
}
