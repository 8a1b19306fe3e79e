// Package scanner implements the periodic sampling loop described in
// spec.md §4.5: it polls every expander, debounces each pin through its
// bound KeySwitch, and feeds the resulting events to a Processor through a
// bounded queue.
package scanner

import (
	"log"
	"time"

	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/eventqueue"
	"github.com/vincent99/makbe-go/internal/ioexpander"
	"github.com/vincent99/makbe-go/internal/keyswitch"
	"github.com/vincent99/makbe-go/internal/processor"
)

const (
	DefaultScanInterval      = 5 * time.Millisecond
	DefaultProcessInterval   = 1 * time.Millisecond
	DefaultMaxEventsPerCycle = 5
)

// Config holds the scanner's construction parameters (spec.md §6).
type Config struct {
	Expanders []ioexpander.IoExpander
	Bus       bus.Bus
	Processor processor.Processor

	// Now returns a monotonic nanosecond timestamp. Defaults to the
	// nanoseconds elapsed since New, read from Go's monotonic clock; tests
	// should inject a synthetic clock so the
	// state machine stays testable (spec.md §5).
	Now func() int64

	Debug             bool
	ScanInterval      time.Duration
	ProcessInterval   time.Duration
	EventQueueSize    int
	MaxEventsPerCycle int
}

// Scanner owns the I²C bus for the lifetime of one scan pass; no other
// component may touch it concurrently (spec.md §5).
type Scanner struct {
	expanders         []ioexpander.IoExpander
	bus               bus.Bus
	processor         processor.Processor
	queue             *eventqueue.Queue
	now               func() int64
	debug             bool
	scanInterval      time.Duration
	processInterval   time.Duration
	maxEventsPerCycle int

	lastScanNS    int64
	lastProcessNS int64
	started       bool
}

// New builds a Scanner and runs InitDevice once per expander. A device
// whose init fails is logged; InitDevice is not called for it again, and
// the scanner still attempts ReadDevice on it every scan.
func New(cfg Config) *Scanner {
	s := &Scanner{
		expanders:         cfg.Expanders,
		bus:               cfg.Bus,
		processor:         cfg.Processor,
		now:               cfg.Now,
		debug:             cfg.Debug,
		scanInterval:      cfg.ScanInterval,
		processInterval:   cfg.ProcessInterval,
		maxEventsPerCycle: cfg.MaxEventsPerCycle,
	}
	if s.now == nil {
		start := time.Now()
		s.now = func() int64 { return int64(time.Since(start)) }
	}
	if s.scanInterval <= 0 {
		s.scanInterval = DefaultScanInterval
	}
	if s.processInterval <= 0 {
		s.processInterval = DefaultProcessInterval
	}
	if s.maxEventsPerCycle <= 0 {
		s.maxEventsPerCycle = DefaultMaxEventsPerCycle
	}
	s.queue = eventqueue.New(cfg.EventQueueSize)

	for _, e := range s.expanders {
		if err := e.InitDevice(s.bus); err != nil {
			log.Printf("scanner: expander 0x%02X init failed, reads will still be attempted each scan: %v", e.Address(), err)
		}
	}
	return s
}

// Update runs one cooperative loop iteration: it scans if the scan
// interval has elapsed, then drains and processes queued events (and
// always ticks the processor) if the process interval has elapsed. It
// returns true if either step did anything, so the caller can yield when
// nothing happened.
//
// spec.md §4.5 ties the process step's drain to "queue non-empty", but
// §2's control-flow guarantee ("a timer tick drives Processor.tick so
// hold-timeouts fire even without new input") only holds if tick runs on
// every elapsed process interval regardless of queue contents — see
// DESIGN.md for this resolution.
func (s *Scanner) Update() bool {
	now := s.now()
	didWork := false

	if !s.started || now-s.lastScanNS >= s.scanInterval.Nanoseconds() {
		s.lastScanNS = now
		s.started = true
		if s.scanOnce(now) {
			didWork = true
		}
	}

	if now-s.lastProcessNS >= s.processInterval.Nanoseconds() {
		s.lastProcessNS = now
		if s.drainAndTick(now) {
			didWork = true
		}
	}

	return didWork
}

func (s *Scanner) scanOnce(now int64) bool {
	didWork := false
	for _, e := range s.expanders {
		bits, err := e.ReadDevice(s.bus)
		if err != nil {
			if s.debug {
				log.Printf("scanner: expander 0x%02X read failed, skipping this scan: %v", e.Address(), err)
			}
			continue
		}
		for i, on := range bits {
			sw := e.Switch(i)
			switch sw.Update(on) {
			case keyswitch.Pressed:
				s.queue.Enqueue(eventqueue.Event{Kind: keyswitch.Pressed, Switch: sw}, now)
				didWork = true
			case keyswitch.Released:
				s.queue.Enqueue(eventqueue.Event{Kind: keyswitch.Released, Switch: sw}, now)
				didWork = true
			}
		}
	}
	return didWork
}

func (s *Scanner) drainAndTick(now int64) bool {
	drained := 0
	for drained < s.maxEventsPerCycle {
		q, ok := s.queue.Dequeue()
		if !ok {
			break
		}
		s.processor.Put(q.Event.Kind, q.Event.Switch, q.Timestamp)
		drained++
	}
	s.processor.Tick(now)
	return drained > 0
}

// QueueSize exposes the event queue's current depth for diagnostics.
func (s *Scanner) QueueSize() int {
	return s.queue.Size()
}
