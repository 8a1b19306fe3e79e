// Package debounce implements the per-switch contact-bounce filter used by
// the scan pipeline. See spec.md §4.1.
package debounce

// Debouncer suppresses spurious transitions on a single electrical input.
// The zero value is ready to use: current and candidate both start false,
// so a stable high input takes Limit+1 ticks to register as a press.
type Debouncer struct {
	current   bool
	candidate bool
	count     int
	Limit     int
}

// New returns a Debouncer requiring limit+1 consecutive opposing samples
// to flip. A typical limit is 2-5 scans (~10-25ms at a 5ms scan interval).
func New(limit int) *Debouncer {
	return &Debouncer{Limit: limit}
}

// Current reports the debounced state.
func (d *Debouncer) Current() bool {
	return d.current
}

// Update feeds one raw sample and reports whether Current changed.
func (d *Debouncer) Update(raw bool) bool {
	switch {
	case raw == d.current:
		d.count = 0
		return false
	case raw == d.candidate:
		d.count++
		if d.count > d.Limit {
			d.current = d.candidate
			d.count = 0
			return true
		}
		return false
	default:
		d.candidate = raw
		d.count = 1
		if d.count > d.Limit {
			d.current = d.candidate
			d.count = 0
			return true
		}
		return false
	}
}
