//go:build !linux

package gpio

import "errors"

func openRPIO(config Config) (Pin, error) {
	return nil, errors.New("rpio driver is only available on linux")
}

func openChardev(config Config) (Pin, error) {
	return nil, errors.New("chardev driver is only available on linux")
}
