// Package indicator drives the connection-state indicator named in spec
// §4.F: blinking while unconnected, solid while connected. The concrete
// drive mechanism (GPIO, PWM, LED strip) is an implementation detail
// externalized behind this narrow interface.
package indicator

import (
	"context"
	"sync/atomic"
	"time"
)

// Driver is the narrow capability an Indicator needs to actually light
// hardware. A real build wires this to a GPIO pin; tests use a recording
// fake.
type Driver interface {
	Set(on bool)
}

// blinkInterval is the on/off half-period while unconnected.
const blinkInterval = 250 * time.Millisecond

// Indicator drives Driver to blink while unconnected and hold solid while
// connected.
type Indicator struct {
	driver    Driver
	connected atomic.Bool
}

// New wires an Indicator to driver, initially unconnected (blinking).
func New(driver Driver) *Indicator {
	return &Indicator{driver: driver}
}

// SetConnected updates the connection state; Run picks up the change on its
// next tick.
func (i *Indicator) SetConnected(connected bool) {
	i.connected.Store(connected)
}

// Run is the indicator task named in spec §5 ("one for the indicator"): it
// holds the driver solid-on while connected, and blinks it at blinkInterval
// while not.
func (i *Indicator) Run(ctx context.Context) error {
	ticker := time.NewTicker(blinkInterval)
	defer ticker.Stop()
	blinkState := false
	for {
		if i.connected.Load() {
			i.driver.Set(true)
		} else {
			blinkState = !blinkState
			i.driver.Set(blinkState)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
