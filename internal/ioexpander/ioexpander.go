// Package ioexpander declares the polled-input-bank contract the scanner
// depends on (spec.md §4.3) and a small shared pin-bank helper the
// concrete TCA9554/TCA9555 drivers embed.
package ioexpander

import (
	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

// IoExpander is a fixed-width, polled bank of digital inputs bound to a
// set of KeySwitches. Implementations are active-high: a set bit means
// "on" (pressed); wiring switches to ground through pull-ups must invert
// at the driver boundary, not here.
type IoExpander interface {
	// Address is the device's I²C address (0x20 + low 3 bits).
	Address() uint8
	// InitDevice configures the device for polling. Called once at
	// startup and, per spec.md §4.3, may be retried on first use after a
	// failed init without poisoning other devices.
	InitDevice(b bus.Bus) error
	// ReadDevice samples every pin and returns one bool per pin, bit 0
	// first. A non-nil error means the read failed; the scanner skips
	// this device for the current scan and retries next cycle.
	ReadDevice(b bus.Bus) ([]bool, error)
	// Assign binds switch to pin (0-origin).
	Assign(pin int, sw *keyswitch.KeySwitch)
	// Switch returns the switch bound to pin, or that pin's own no-op
	// placeholder switch if the pin was never assigned.
	Switch(pin int) *keyswitch.KeySwitch
	// PinCount is the fixed pin width of the device (8 or 16).
	PinCount() int
}

// PinBank holds the address and fixed-length switch array shared by every
// concrete expander, so TCA9554 and TCA9555 only need to add their
// register layout and wire protocol on top.
type PinBank struct {
	address  uint8
	switches []*keyswitch.KeySwitch
}

// NewPinBank allocates a bank of n pins, each defaulting to its own fresh
// no-op switch, so no placeholder's debouncer sees more than one pin.
func NewPinBank(address uint8, n int) PinBank {
	switches := make([]*keyswitch.KeySwitch, n)
	for i := range switches {
		switches[i] = keyswitch.Nop()
	}
	return PinBank{address: address, switches: switches}
}

func (p *PinBank) Address() uint8 { return p.address }

func (p *PinBank) PinCount() int { return len(p.switches) }

func (p *PinBank) Assign(pin int, sw *keyswitch.KeySwitch) {
	p.switches[pin] = sw
}

func (p *PinBank) Switch(pin int) *keyswitch.KeySwitch {
	return p.switches[pin]
}
