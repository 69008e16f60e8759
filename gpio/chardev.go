//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const defaultChip = "gpiochip0"

type chardevPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func openChardev(config Config) (Pin, error) {
	name := config.Chip
	if name == "" {
		name = defaultChip
	}

	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}

	line, err := chip.RequestLine(config.Pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("requesting line %d on %s: %w", config.Pin, name, err)
	}

	return &chardevPin{chip: chip, line: line}, nil
}

func (p *chardevPin) Set(engaged bool) error {
	value := 0
	if engaged {
		value = 1
	}
	return p.line.SetValue(value)
}

func (p *chardevPin) Close() error {
	_ = p.line.SetValue(0)
	err := p.line.Close()
	if cerr := p.chip.Close(); err == nil {
		err = cerr
	}
	return err
}
