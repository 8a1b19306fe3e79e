package keyswitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/keycode"
)

func TestUpdateEmitsPressedThenReleased(t *testing.T) {
	s := New([]action.Action{action.K(keycode.A)}, action.Trans(), 1)
	assert.Equal(t, NoChange, s.Update(true), "sample 1")
	assert.Equal(t, Pressed, s.Update(true), "sample 2")
	assert.Equal(t, NoChange, s.Update(true), "stable high")
	assert.Equal(t, NoChange, s.Update(false), "falling sample 1")
	assert.Equal(t, Released, s.Update(false), "falling sample 2")
}

func TestActionFallsBackToDefault(t *testing.T) {
	s := New([]action.Action{action.K(keycode.A)}, action.Trans(), 1)

	a := s.Action(0)
	assert.Equal(t, action.KindKey, a.Kind)
	assert.Equal(t, keycode.A, a.Code)

	out := s.Action(5)
	assert.Equal(t, action.KindTrans, out.Kind, "layer beyond the table should fall back to the default action")
}

func TestNopSwitchHasNoActionsAndIsDistinct(t *testing.T) {
	a := Nop()
	b := Nop()
	assert.NotSame(t, a, b, "Nop() should return distinct switches")
	assert.Equal(t, action.KindNoOp, a.Action(0).Kind)
}

func TestAppendAndReplaceAction(t *testing.T) {
	s := New(nil, action.NoOp(), 1)
	s.AppendAction(action.K(keycode.A))
	require.Equal(t, 1, s.Layers())

	s.ReplaceAction(3, action.K(keycode.B))
	require.Equal(t, 4, s.Layers(), "padding should grow the table to the replaced layer")

	assert.Equal(t, action.KindTrans, s.Action(1).Kind, "padded layer should be Trans")

	replaced := s.Action(3)
	assert.Equal(t, action.KindKey, replaced.Kind)
	assert.Equal(t, keycode.B, replaced.Code)
}

func TestRemoveLayers(t *testing.T) {
	s := New([]action.Action{action.K(keycode.A), action.K(keycode.B)}, action.NoOp(), 1)
	s.RemoveLayers(false)
	require.Equal(t, 1, s.Layers(), "popping one layer")

	s.RemoveLayers(true)
	assert.Equal(t, 0, s.Layers(), "clearing all layers")
}
