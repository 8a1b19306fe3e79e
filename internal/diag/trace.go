package diag

import (
	"encoding/binary"
	"sync"

	"github.com/sigurn/crc16"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/keyswitch"
)

// TraceEntry records one traced event and the HID calls attached to it, for
// after-the-fact debugging of a keymap (cmd/makbe-sim records one entry per
// HID press or release). Checksum covers Sequence, Kind, TimestampNS,
// SwitchName and the HID calls, the same integrity role CRC-16/CCITT
// plays for TPMS packet framing in the teacher's sensor stack.
type TraceEntry struct {
	Sequence    uint64
	Kind        keyswitch.EventKind
	SwitchName  string
	TimestampNS int64
	HIDCalls    []hidsink.Call
	Checksum    uint16
}

var traceTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

func computeChecksum(e TraceEntry) uint16 {
	buf := make([]byte, 0, 32+len(e.HIDCalls)*2)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], e.Sequence)
	buf = append(buf, tmp[:]...)
	buf = append(buf, byte(e.Kind))
	binary.BigEndian.PutUint64(tmp[:], uint64(e.TimestampNS))
	buf = append(buf, tmp[:]...)
	buf = append(buf, e.SwitchName...)
	for _, c := range e.HIDCalls {
		b := byte(c.Code)
		if c.Pressed {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return crc16.Checksum(buf, traceTable)
}

// TraceBuffer is a fixed-capacity ring buffer of TraceEntry, exposed over
// the diagnostics HTTP endpoint. Capacity 0 disables tracing: Record
// becomes a no-op, matching the "trace_capacity 0 disables" contract in
// internal/config.
type TraceBuffer struct {
	mu       sync.Mutex
	entries  []TraceEntry
	capacity int
	next     int
	filled   bool
	sequence uint64
}

// NewTraceBuffer creates a TraceBuffer holding up to capacity entries.
func NewTraceBuffer(capacity int) *TraceBuffer {
	return &TraceBuffer{entries: make([]TraceEntry, capacity), capacity: capacity}
}

// Record appends one entry, computing and stamping its checksum, and
// overwriting the oldest entry once the buffer is full.
func (t *TraceBuffer) Record(kind keyswitch.EventKind, switchName string, timestampNS int64, calls []hidsink.Call) {
	if t.capacity == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e := TraceEntry{
		Sequence:    t.sequence,
		Kind:        kind,
		SwitchName:  switchName,
		TimestampNS: timestampNS,
		HIDCalls:    append([]hidsink.Call(nil), calls...),
	}
	e.Checksum = computeChecksum(e)

	t.entries[t.next] = e
	t.next = (t.next + 1) % t.capacity
	if t.next == 0 {
		t.filled = true
	}
	t.sequence++
}

// Snapshot returns every recorded entry in chronological order.
func (t *TraceBuffer) Snapshot() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.filled {
		return append([]TraceEntry(nil), t.entries[:t.next]...)
	}
	out := make([]TraceEntry, 0, t.capacity)
	out = append(out, t.entries[t.next:]...)
	out = append(out, t.entries[:t.next]...)
	return out
}

// Verify reports whether every entry's stored checksum still matches its
// recomputed value, detecting a corrupted trace.
func Verify(entries []TraceEntry) bool {
	for _, e := range entries {
		want := e.Checksum
		e.Checksum = 0
		if computeChecksum(e) != want {
			return false
		}
	}
	return true
}
