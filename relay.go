package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gregoryjjb/buzzd/gpio"
)

var rlog zerolog.Logger

func init() {
	rlog = log.With().Str("component", "relay").Logger()
}

// Relay drives the momentary output. The mutex is held for the whole
// pulse, so overlapping requests become back-to-back pulses instead of
// overlapping ones.
type Relay struct {
	mu    sync.Mutex
	pin   gpio.Pin
	sleep func(time.Duration)
}

func NewRelay(pin gpio.Pin) *Relay {
	return &Relay{
		pin:   pin,
		sleep: time.Sleep,
	}
}

// Pulse engages the relay for d, then releases it. The release also
// happens when the engage succeeded but something later failed; a relay
// left energized would hold the button down forever.
func (r *Relay) Pulse(d time.Duration) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rlog.Debug().Dur("duration", d).Msg("Pulsing relay")

	if err := r.pin.Set(true); err != nil {
		return fmt.Errorf("engaging relay: %w", err)
	}
	defer func() {
		if relErr := r.pin.Set(false); relErr != nil && err == nil {
			err = fmt.Errorf("releasing relay: %w", relErr)
		}
	}()

	r.sleep(d)
	return nil
}
