// Package tca9555 implements the IoExpander contract for the TCA9555 /
// PCA9555 16-bit I²C I/O expander. See spec.md §4.3, §6.
package tca9555

import (
	"fmt"

	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/ioexpander"
)

const (
	baseAddress = 0x20

	configReg0 = 0x06 // direction register, bank 0 (pins 0-7)
	configReg1 = 0x07 // direction register, bank 1 (pins 8-15)
	inputReg   = 0x00
)

// TCA9555 is the 16-bit expander variant.
type TCA9555 struct {
	ioexpander.PinBank
}

// New creates a TCA9555 at address 0x20+lowBits.
func New(lowBits uint8) *TCA9555 {
	return &TCA9555{PinBank: ioexpander.NewPinBank(baseAddress+lowBits, 16)}
}

var _ ioexpander.IoExpander = (*TCA9555)(nil)

func (d *TCA9555) InitDevice(b bus.Bus) error {
	if err := b.Write(d.Address(), []byte{configReg0, 0xFF}); err != nil {
		return fmt.Errorf("tca9555 0x%02X: init bank 0: %w", d.Address(), err)
	}
	if err := b.Write(d.Address(), []byte{configReg1, 0xFF}); err != nil {
		return fmt.Errorf("tca9555 0x%02X: init bank 1: %w", d.Address(), err)
	}
	return nil
}

func (d *TCA9555) ReadDevice(b bus.Bus) ([]bool, error) {
	buf := make([]byte, 2)
	if err := b.WriteThenRead(d.Address(), []byte{inputReg}, buf); err != nil {
		return nil, fmt.Errorf("tca9555 0x%02X: read: %w", d.Address(), err)
	}
	result := make([]bool, 16)
	for i, byteVal := range buf {
		for p := 0; p < 8; p++ {
			result[i*8+p] = byteVal&(1<<uint(p)) != 0
		}
	}
	return result, nil
}
