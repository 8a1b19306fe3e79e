package processor

import (
	"log"

	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/keycode"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

// WaitingState tracks one currently-pressed switch's resolved action and,
// for HoldTap, whether the hold branch has fired yet. See spec.md §3.
type WaitingState struct {
	Action        action.Action
	Switch        *keyswitch.KeySwitch
	PressedAtNS   int64
	HoldActivated bool

	// activatedLayer is set while this WaitingState holds a layer open
	// (either a direct Layer action, or a HoldTap whose hold branch is a
	// Layer and has fired).
	activatedLayer *int
	// pressedCodes holds the codes this WaitingState told the sink to
	// press, in press order, for Key/MultiKey actions and for a fired
	// Key/MultiKey hold branch. Release replays them in reverse order.
	pressedCodes []keycode.Code
}

// Layered is the time-driven state machine described in spec.md §4.7. It
// resolves each key event against the currently active layer, manages
// pending hold/tap decisions, and emits HID key codes and modifier bits.
type Layered struct {
	Sink  hidsink.Sink
	Debug bool

	waiting      []*WaitingState
	activeLayers map[int]map[*WaitingState]bool
	modifierRefs map[keycode.Code]int
	defaultLayer int
}

var _ Processor = (*Layered)(nil)

// NewLayered creates a Layered processor driving sink.
func NewLayered(sink hidsink.Sink) *Layered {
	return &Layered{
		Sink:         sink,
		activeLayers: make(map[int]map[*WaitingState]bool),
		modifierRefs: make(map[keycode.Code]int),
	}
}

// CurrentLayer is the minimum of all currently-active Layer(n) bindings,
// or 0 if none are active (spec.md §3, invariant 2).
func (p *Layered) CurrentLayer() int {
	layer := 0
	first := true
	for n, holders := range p.activeLayers {
		if len(holders) == 0 {
			continue
		}
		if first || n < layer {
			layer = n
			first = false
		}
	}
	return layer
}

// ActiveModifiers returns the modifier codes currently reported to the
// host (spec.md §3, invariant 3).
func (p *Layered) ActiveModifiers() []keycode.Code {
	var out []keycode.Code
	for c, n := range p.modifierRefs {
		if n > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Waiting exposes the in-flight per-switch state, for diagnostics/tests.
func (p *Layered) Waiting() []*WaitingState {
	return append([]*WaitingState(nil), p.waiting...)
}

func (p *Layered) logf(format string, args ...interface{}) {
	if p.Debug {
		log.Printf(format, args...)
	}
}

// resolve walks layer, layer-1, ..., p.defaultLayer looking for the first
// non-Trans binding, returning NoOp if none is found. p.defaultLayer is
// ordinarily 0; a keymap using the DefaultLayer action (SPEC_FULL.md) can
// move the floor of this walk.
func (p *Layered) resolve(sw *keyswitch.KeySwitch, layer int) action.Action {
	floor := p.defaultLayer
	if floor > layer {
		floor = layer
	}
	for l := layer; l >= floor; l-- {
		a := sw.Action(l)
		if a.Kind != action.KindTrans {
			return a
		}
	}
	return action.NoOp()
}

func (p *Layered) Put(kind keyswitch.EventKind, sw *keyswitch.KeySwitch, now int64) {
	switch kind {
	case keyswitch.Pressed:
		p.onPressed(sw, now)
	case keyswitch.Released:
		p.onReleased(sw, now)
	}
}

func (p *Layered) onPressed(sw *keyswitch.KeySwitch, now int64) {
	a := p.resolve(sw, p.CurrentLayer())

	ws := &WaitingState{Action: a, Switch: sw, PressedAtNS: now}

	switch a.Kind {
	case action.KindNoOp, action.KindTrans:
		// No output, nothing to undo on release.
		return

	case action.KindKey:
		ws.pressedCodes = p.pressCode(a.Code)
		p.waiting = append(p.waiting, ws)

	case action.KindMultiKey:
		ws.pressedCodes = p.pressCodes(a.Codes)
		p.waiting = append(p.waiting, ws)

	case action.KindLayer:
		n := a.LayerNo
		ws.activatedLayer = &n
		p.activateLayer(n, ws)
		p.waiting = append(p.waiting, ws)

	case action.KindDefaultLayer:
		p.defaultLayer = a.LayerNo
		// Sticky: no undo on release, so no WaitingState is kept.

	case action.KindHoldTap:
		// No HID output yet; deferred to tick (hold) or release (tap).
		p.waiting = append(p.waiting, ws)

	default:
		p.logf("processor: unknown action kind %v, treating as NoOp", a.Kind)
	}
}

func (p *Layered) onReleased(sw *keyswitch.KeySwitch, now int64) {
	idx := -1
	for i, ws := range p.waiting {
		if ws.Switch == sw {
			idx = i
			break
		}
	}
	if idx == -1 {
		// No matching WaitingState: either a NoOp/Trans/DefaultLayer
		// binding, or a press that was lost to a queue overflow
		// (spec.md §7). Silently ignored either way.
		return
	}
	ws := p.waiting[idx]
	p.waiting = append(p.waiting[:idx], p.waiting[idx+1:]...)

	switch ws.Action.Kind {
	case action.KindKey, action.KindMultiKey:
		p.releaseCodes(ws.pressedCodes)

	case action.KindLayer:
		p.deactivateLayer(*ws.activatedLayer, ws)

	case action.KindHoldTap:
		if ws.HoldActivated {
			p.undoHold(ws)
			return
		}
		// Tap: synthesize a complete press+release of the tap branch.
		p.dispatchTransient(*ws.Action.Tap, now)
	}
}

// Tick advances hold/tap timers. Every WaitingState whose action is a
// not-yet-activated HoldTap and whose timeout has strictly elapsed
// commits its hold branch.
func (p *Layered) Tick(now int64) {
	for _, ws := range p.waiting {
		if ws.Action.Kind != action.KindHoldTap || ws.HoldActivated {
			continue
		}
		if now > ws.PressedAtNS+ws.Action.Timeout.Nanoseconds() {
			p.commitHold(ws)
		}
	}
}

func (p *Layered) commitHold(ws *WaitingState) {
	hold := *ws.Action.Hold
	switch hold.Kind {
	case action.KindLayer:
		n := hold.LayerNo
		ws.activatedLayer = &n
		p.activateLayer(n, ws)
	case action.KindKey:
		ws.pressedCodes = p.pressCode(hold.Code)
	case action.KindMultiKey:
		ws.pressedCodes = p.pressCodes(hold.Codes)
	case action.KindDefaultLayer:
		p.defaultLayer = hold.LayerNo
	case action.KindNoOp, action.KindTrans:
		// Nothing to do.
	default:
		p.logf("processor: malformed HoldTap hold action %v, treating as NoOp", hold.Kind)
	}
	ws.HoldActivated = true
}

func (p *Layered) undoHold(ws *WaitingState) {
	hold := *ws.Action.Hold
	switch hold.Kind {
	case action.KindLayer:
		p.deactivateLayer(*ws.activatedLayer, ws)
	case action.KindKey, action.KindMultiKey:
		p.releaseCodes(ws.pressedCodes)
	}
}

// dispatchTransient presses then immediately releases a (non-HoldTap)
// action, used to synthesize a tap. A Layer tap only ever affects
// resolution of events processed between the press and release calls
// within this function, which is none — it exists for completeness with
// unusual keymaps that bind a bare Layer as a tap branch.
func (p *Layered) dispatchTransient(a action.Action, now int64) {
	switch a.Kind {
	case action.KindKey:
		codes := p.pressCode(a.Code)
		p.releaseCodes(codes)
	case action.KindMultiKey:
		codes := p.pressCodes(a.Codes)
		p.releaseCodes(codes)
	case action.KindLayer:
		ws := &WaitingState{Action: a, PressedAtNS: now}
		n := a.LayerNo
		ws.activatedLayer = &n
		p.activateLayer(n, ws)
		p.deactivateLayer(n, ws)
	case action.KindDefaultLayer:
		p.defaultLayer = a.LayerNo
	}
}

func (p *Layered) pressCode(c keycode.Code) []keycode.Code {
	p.Sink.Press(c)
	if keycode.IsModifier(c) {
		p.modifierRefs[c]++
	}
	return []keycode.Code{c}
}

func (p *Layered) pressCodes(codes []keycode.Code) []keycode.Code {
	for _, c := range codes {
		p.Sink.Press(c)
		if keycode.IsModifier(c) {
			p.modifierRefs[c]++
		}
	}
	return append([]keycode.Code(nil), codes...)
}

func (p *Layered) releaseCodes(codes []keycode.Code) {
	for i := len(codes) - 1; i >= 0; i-- {
		c := codes[i]
		p.Sink.Release(c)
		if keycode.IsModifier(c) {
			p.modifierRefs[c]--
			if p.modifierRefs[c] <= 0 {
				delete(p.modifierRefs, c)
			}
		}
	}
}

func (p *Layered) activateLayer(n int, owner *WaitingState) {
	holders, ok := p.activeLayers[n]
	if !ok {
		holders = make(map[*WaitingState]bool)
		p.activeLayers[n] = holders
	}
	holders[owner] = true
}

func (p *Layered) deactivateLayer(n int, owner *WaitingState) {
	holders, ok := p.activeLayers[n]
	if !ok {
		return
	}
	delete(holders, owner)
	if len(holders) == 0 {
		delete(p.activeLayers, n)
	}
}
