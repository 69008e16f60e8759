//go:build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

type rpioPin struct {
	pin rpio.Pin
}

func openRPIO(config Config) (Pin, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("opening gpio memory range: %w", err)
	}

	pin := rpio.Pin(config.Pin)
	pin.Output()
	pin.Low()

	return &rpioPin{pin: pin}, nil
}

func (p *rpioPin) Set(engaged bool) error {
	if engaged {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	return nil
}

func (p *rpioPin) Close() error {
	p.pin.Low()
	return rpio.Close()
}
