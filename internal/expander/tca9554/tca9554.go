// Package tca9554 implements the IoExpander contract for the TCA9554 /
// PCA9554 8-bit I²C I/O expander. See spec.md §4.3, §6 and the teacher's
// hardware/expander/expander.go register layout.
package tca9554

import (
	"fmt"

	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/ioexpander"
)

const (
	baseAddress = 0x20

	configReg = 0x03 // direction register: 1 = input
	inputReg  = 0x00
)

// TCA9554 is the 8-bit expander variant.
type TCA9554 struct {
	ioexpander.PinBank
}

// New creates a TCA9554 at address 0x20+lowBits (lowBits is the chip's
// three hardware-strapped address pins, 0-7).
func New(lowBits uint8) *TCA9554 {
	return &TCA9554{PinBank: ioexpander.NewPinBank(baseAddress+lowBits, 8)}
}

var _ ioexpander.IoExpander = (*TCA9554)(nil)

func (d *TCA9554) InitDevice(b bus.Bus) error {
	if err := b.Write(d.Address(), []byte{configReg, 0xFF}); err != nil {
		return fmt.Errorf("tca9554 0x%02X: init: %w", d.Address(), err)
	}
	return nil
}

func (d *TCA9554) ReadDevice(b bus.Bus) ([]bool, error) {
	buf := make([]byte, 1)
	if err := b.WriteThenRead(d.Address(), []byte{inputReg}, buf); err != nil {
		return nil, fmt.Errorf("tca9554 0x%02X: read: %w", d.Address(), err)
	}
	result := make([]bool, 8)
	for p := 0; p < 8; p++ {
		result[p] = buf[0]&(1<<uint(p)) != 0
	}
	return result, nil
}
