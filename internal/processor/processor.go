// Package processor implements the two processor variants spec.md §4.6
// and §4.7 describe: a trivial Modeless diagnostic path and the full
// layered hold/tap state machine.
package processor

import (
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

// Processor is driven by the scanner: Put is called once per drained
// event, Tick once per process cycle regardless of whether new events
// arrived, so hold-timeouts fire even without new input (spec.md §2).
type Processor interface {
	Put(kind keyswitch.EventKind, sw *keyswitch.KeySwitch, now int64)
	Tick(now int64)
}
