package processor

import (
	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

// Modeless is the diagnostic/simple path: a trivial 1:1 key→HID mapping
// with no layers and no hold/tap. It exists as a correctness baseline for
// the scan pipeline (spec.md §4.6) — if a switch's layer-0 binding isn't a
// plain Key, the press/release is simply dropped, since there is no layer
// or hold/tap machinery here to resolve it.
type Modeless struct {
	Sink hidsink.Sink
}

var _ Processor = (*Modeless)(nil)

func NewModeless(sink hidsink.Sink) *Modeless {
	return &Modeless{Sink: sink}
}

func (p *Modeless) Put(kind keyswitch.EventKind, sw *keyswitch.KeySwitch, now int64) {
	a := sw.Action(0)
	if a.Kind != action.KindKey {
		return
	}
	switch kind {
	case keyswitch.Pressed:
		p.Sink.Press(a.Code)
	case keyswitch.Released:
		p.Sink.Release(a.Code)
	}
}

func (p *Modeless) Tick(now int64) {
	// The modeless processor carries no timers.
}
