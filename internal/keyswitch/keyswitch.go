// Package keyswitch models one physical key switch: its debouncer and its
// ordered per-layer action table. See spec.md §3, §4.2.
package keyswitch

import (
	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/debounce"
)

// EventKind is the result of feeding one raw sample through a switch's
// debouncer.
type EventKind int

const (
	// NoChange means the debounced state did not flip this tick.
	NoChange EventKind = iota
	Pressed
	Released
)

// KeySwitch is identity-distinct: two KeySwitch values with identical
// fields are still different switches. Always use *KeySwitch so pointer
// equality, not value equality, is what the processor compares against
// (spec.md §9, "identity comparison ... must use arena indices or pointer
// equality, not value equality").
type KeySwitch struct {
	debouncer     *debounce.Debouncer
	actions       []action.Action
	defaultAction action.Action

	// Name is an optional human-readable label (layout position, e.g.
	// "R2C3"); purely diagnostic, never consulted by core logic.
	Name string
}

// New creates a switch with the given per-layer action table, a debounce
// limit in scans, and a default action used for layers beyond the table.
func New(actions []action.Action, defaultAction action.Action, debounceLimit int) *KeySwitch {
	cp := append([]action.Action(nil), actions...)
	return &KeySwitch{
		debouncer:     debounce.New(debounceLimit),
		actions:       cp,
		defaultAction: defaultAction,
	}
}

// Nop returns a fresh switch with no bound actions, safe to use as a
// placeholder for unassigned expander pins (spec.md §3).
func Nop() *KeySwitch {
	return New(nil, action.NoOp(), 0)
}

// Update forwards raw to the debouncer and reports the resulting edge, if
// any.
func (s *KeySwitch) Update(raw bool) EventKind {
	if !s.debouncer.Update(raw) {
		return NoChange
	}
	if s.debouncer.Current() {
		return Pressed
	}
	return Released
}

// Action returns the binding for layer, falling back to the switch's
// default action when layer is beyond the configured table.
func (s *KeySwitch) Action(layer int) action.Action {
	if layer >= 0 && layer < len(s.actions) {
		return action.Sanitize(s.actions[layer])
	}
	return action.Sanitize(s.defaultAction)
}

// Layers reports how many explicit per-layer slots are configured.
func (s *KeySwitch) Layers() int {
	return len(s.actions)
}

// AppendAction adds a new layer slot at the end of the table (spec.md §4.2).
func (s *KeySwitch) AppendAction(a action.Action) {
	s.actions = append(s.actions, a)
}

// ReplaceAction sets the binding for layer, padding any gap with Trans so
// intermediate layers remain pass-through rather than undefined.
func (s *KeySwitch) ReplaceAction(layer int, a action.Action) {
	for layer >= len(s.actions) {
		s.actions = append(s.actions, action.Trans())
	}
	s.actions[layer] = a
}

// RemoveLayers drops layer-time bindings. With all=true the table is
// cleared entirely; otherwise only the highest-numbered layer is dropped.
func (s *KeySwitch) RemoveLayers(all bool) {
	if all || len(s.actions) == 0 {
		s.actions = s.actions[:0]
		return
	}
	s.actions = s.actions[:len(s.actions)-1]
}
