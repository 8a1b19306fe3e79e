package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/keycode"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

func TestModelessPressRelease(t *testing.T) {
	sink := hidsink.NewRecorder()
	p := NewModeless(sink)
	sw := keyswitch.New([]action.Action{action.K(keycode.A)}, action.NoOp(), 1)

	p.Put(keyswitch.Pressed, sw, 0)
	p.Put(keyswitch.Released, sw, 1)

	assert.Equal(t, []hidsink.Call{
		{Pressed: true, Code: keycode.A},
		{Pressed: false, Code: keycode.A},
	}, sink.Calls)
}

func TestModelessIgnoresNonKeyBindings(t *testing.T) {
	sink := hidsink.NewRecorder()
	p := NewModeless(sink)
	sw := keyswitch.New([]action.Action{action.La(1)}, action.NoOp(), 1)

	p.Put(keyswitch.Pressed, sw, 0)
	assert.Empty(t, sink.Calls, "expected no HID output")
}
