// Package gpio drives the relay output. The same Pin interface is backed by
// the BCM2835 memory-mapped driver, the kernel gpio character device, a
// Modbus TCP relay board, or a simulation for development machines.
package gpio

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var plog zerolog.Logger

func init() {
	plog = log.With().Str("component", "gpio").Logger()
}

// DefaultPin is the BCM number the relay is wired to on the reference board.
const DefaultPin = 5

const (
	DriverRPIO    = "rpio"
	DriverChardev = "chardev"
	DriverModbus  = "modbus"
	DriverSim     = "sim"
)

// Pin is a single binary output. Set(true) energizes the relay coil,
// Set(false) releases it.
type Pin interface {
	Set(engaged bool) error
	Close() error
}

type Config struct {
	Driver string
	Pin    int

	// chardev only
	Chip string

	// modbus only
	ModbusAddress string
	ModbusUnit    byte
	ModbusCoil    uint16
}

// Open returns the Pin for the configured driver, already initialized to the
// released state.
func Open(config Config) (Pin, error) {
	switch config.Driver {
	case DriverRPIO:
		return openRPIO(config)
	case DriverChardev:
		return openChardev(config)
	case DriverModbus:
		return openModbus(config)
	case DriverSim:
		return openSim(config)
	default:
		return nil, fmt.Errorf("unknown gpio driver %q", config.Driver)
	}
}
