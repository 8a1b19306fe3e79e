// Package hidsink defines the minimal USB HID keyboard contract the
// processor drives, plus an in-memory sink used by tests and the
// reference firmware binary. See spec.md §4.8.
package hidsink

import "github.com/vincent99/makbe-go/internal/keycode"

// Sink is the thin contract over the USB HID keyboard driver. The
// underlying driver is assumed to maintain the current report and
// transmit it automatically after each mutation; the processor never
// calls a separate "send report" primitive.
type Sink interface {
	Press(code keycode.Code)
	Release(code keycode.Code)
}

// Call records one Press or Release invocation, in order, for assertions
// in tests.
type Call struct {
	Pressed bool
	Code    keycode.Code
}

// Recorder is an in-memory Sink that records every call, optionally
// simulating a disconnected host. Per spec.md §7, a failing sink silently
// drops the HID call but must not corrupt the processor's own bookkeeping.
type Recorder struct {
	Calls      []Call
	Failing    bool
	heldPress  map[keycode.Code]int
}

func NewRecorder() *Recorder {
	return &Recorder{heldPress: make(map[keycode.Code]int)}
}

func (r *Recorder) Press(code keycode.Code) {
	if r.Failing {
		return
	}
	r.Calls = append(r.Calls, Call{Pressed: true, Code: code})
	r.heldPress[code]++
}

func (r *Recorder) Release(code keycode.Code) {
	if r.Failing {
		return
	}
	r.Calls = append(r.Calls, Call{Pressed: false, Code: code})
	r.heldPress[code]--
}

// Held reports how many more times code has been pressed than released —
// used by tests to assert "no phantom held keys" after a sink failure.
func (r *Recorder) Held(code keycode.Code) int {
	return r.heldPress[code]
}

// Reset clears recorded calls without touching Failing or held counts.
func (r *Recorder) Reset() {
	r.Calls = nil
}
