// Package action defines the tagged union of things a key binding can do,
// and the layout-time constructors ("sugar") used to build a keymap.
package action

import (
	"time"

	"github.com/vincent99/makbe-go/internal/keycode"
)

// Kind distinguishes the variant an Action carries. The zero value, NoOp,
// is also the safe default for an unconfigured slot.
type Kind int

const (
	KindNoOp Kind = iota
	KindTrans
	KindKey
	KindMultiKey
	KindLayer
	KindDefaultLayer
	KindHoldTap
)

func (k Kind) String() string {
	switch k {
	case KindNoOp:
		return "NoOp"
	case KindTrans:
		return "Trans"
	case KindKey:
		return "Key"
	case KindMultiKey:
		return "MultiKey"
	case KindLayer:
		return "Layer"
	case KindDefaultLayer:
		return "DefaultLayer"
	case KindHoldTap:
		return "HoldTap"
	default:
		return "Unknown"
	}
}

// DefaultHoldTapTimeout matches the Python original's 200ms hold/tap
// window (makbe/action.py HoldTap.__init__'s timeout=200, there expressed
// in milliseconds; the core fixes nanoseconds throughout per spec.md §9).
const DefaultHoldTapTimeout = 200 * time.Millisecond

// Action is a tagged union: exactly one set of fields is meaningful,
// selected by Kind. Only KindHoldTap uses Hold/Tap/Timeout; only KindKey
// uses Code; only KindMultiKey uses Codes; only KindLayer/KindDefaultLayer
// use LayerNo.
type Action struct {
	Kind    Kind
	Code    keycode.Code
	Codes   []keycode.Code
	LayerNo int
	Hold    *Action
	Tap     *Action
	Timeout time.Duration
}

// NoOp ignores the event and produces no HID output.
func NoOp() Action { return Action{Kind: KindNoOp} }

// Trans defers to the next lower layer's slot for the same switch.
func Trans() Action { return Action{Kind: KindTrans} }

// K (key) presses and releases a single HID code.
func K(code keycode.Code) Action { return Action{Kind: KindKey, Code: code} }

// M (multi-key) presses a fixed set of codes together, in order, and
// releases them in reverse order. The common case is modifier + key,
// where callers place the modifier first.
func M(codes ...keycode.Code) Action {
	cp := append([]keycode.Code(nil), codes...)
	return Action{Kind: KindMultiKey, Codes: cp}
}

// La forces the active layer to n while the binding is in effect.
func La(n int) Action { return Action{Kind: KindLayer, LayerNo: n} }

// D sets the default layer: the floor of Trans-resolution's downward walk.
// A walk from the current layer descends no lower than n; when the current
// layer is not above n, only the current layer's slot is consulted. D does
// not change the current layer, which stays 0 while no momentary layer is
// active. Grounded on makbe/action.py's DefaultLayer,
// which the distilled spec dropped; see SPEC_FULL.md.
func D(n int) Action { return Action{Kind: KindDefaultLayer, LayerNo: n} }

// LT (layer-tap) holds to activate layer n, taps to emit code.
func LT(n int, code keycode.Code) Action {
	hold := La(n)
	tap := K(code)
	return Action{Kind: KindHoldTap, Hold: &hold, Tap: &tap, Timeout: DefaultHoldTapTimeout}
}

// MT (mod-tap) holds to press modifier, taps to emit code.
func MT(modifier, code keycode.Code) Action {
	hold := K(modifier)
	tap := K(code)
	return Action{Kind: KindHoldTap, Hold: &hold, Tap: &tap, Timeout: DefaultHoldTapTimeout}
}

// HoldTap builds a HoldTap with an explicit timeout, for keymaps that need
// something other than DefaultHoldTapTimeout.
func HoldTap(hold, tap Action, timeout time.Duration) Action {
	h, tp := hold, tap
	return Action{Kind: KindHoldTap, Hold: &h, Tap: &tp, Timeout: timeout}
}

// Valid reports whether a is well-formed per spec.md §3: a HoldTap's hold
// and tap branches must themselves be non-HoldTap (no nesting).
func (a Action) Valid() bool {
	if a.Kind != KindHoldTap {
		return true
	}
	if a.Hold == nil || a.Tap == nil {
		return false
	}
	return a.Hold.Kind != KindHoldTap && a.Tap.Kind != KindHoldTap
}

// Sanitize treats a malformed action as NoOp per spec.md §7 ("Malformed
// action ... treat as NoOp; this is a layout-authoring bug, not a runtime
// condition").
func Sanitize(a Action) Action {
	if !a.Valid() {
		return NoOp()
	}
	return a
}
