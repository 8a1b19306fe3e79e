package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/expander/tca9554"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/ioexpander"
	"github.com/vincent99/makbe-go/internal/keycode"
	"github.com/vincent99/makbe-go/internal/keyswitch"
	"github.com/vincent99/makbe-go/internal/processor"
)

type fakeClock struct{ ns int64 }

func (c *fakeClock) now() int64       { return c.ns }
func (c *fakeClock) advance(ns int64) { c.ns += ns }

func newFixture(t *testing.T, pins func() []byte) (*Scanner, *hidsink.Recorder, *fakeClock) {
	t.Helper()
	simBus := bus.NewSimBus()
	simBus.Attach(0x20, &bus.SimDevice{Input: pins})

	exp := tca9554.New(0)
	// debounceLimit 0: a single opposing sample commits, keeping this test
	// about scan/process wiring rather than debounce timing.
	sw := keyswitch.New([]action.Action{action.K(keycode.A)}, action.NoOp(), 0)
	exp.Assign(0, sw)

	sink := hidsink.NewRecorder()
	proc := processor.NewModeless(sink)
	clock := &fakeClock{}

	s := New(Config{
		Expanders:         []ioexpander.IoExpander{exp},
		Bus:               simBus,
		Processor:         proc,
		Now:               clock.now,
		ScanInterval:      time.Millisecond,
		ProcessInterval:   time.Millisecond,
		EventQueueSize:    4,
		MaxEventsPerCycle: 4,
	})
	return s, sink, clock
}

func TestScanCyclePressAndRelease(t *testing.T) {
	pressed := false
	s, sink, clock := newFixture(t, func() []byte {
		if pressed {
			return []byte{0x01}
		}
		return []byte{0x00}
	})

	s.Update() // initial scan, nothing pressed

	pressed = true
	clock.advance(int64(2 * time.Millisecond))
	s.Update() // scans (sees press), then processes it

	want := []hidsink.Call{{Pressed: true, Code: keycode.A}}
	assert.Equal(t, want, sink.Calls)

	pressed = false
	clock.advance(int64(2 * time.Millisecond))
	s.Update()

	want = append(want, hidsink.Call{Pressed: false, Code: keycode.A})
	assert.Equal(t, want, sink.Calls)
}

func TestScanSkipsFailingExpanderWithoutAbortingPass(t *testing.T) {
	simBus := bus.NewSimBus()
	simBus.FailNext[0x20] = true
	simBus.Attach(0x20, &bus.SimDevice{Input: func() []byte { return []byte{0x00} }})

	exp := tca9554.New(0)
	sink := hidsink.NewRecorder()
	proc := processor.NewModeless(sink)
	clock := &fakeClock{}

	s := New(Config{
		Expanders:       []ioexpander.IoExpander{exp},
		Bus:             simBus,
		Processor:       proc,
		Now:             clock.now,
		ScanInterval:    time.Millisecond,
		ProcessInterval: time.Millisecond,
	})

	// InitDevice at construction consumed the one scripted failure via
	// simBus.Write; the first Update's ReadDevice should succeed normally.
	didWork := s.Update()
	assert.False(t, didWork, "no pins are set, expected no events")
}

func TestTickRunsEvenWithAnEmptyQueue(t *testing.T) {
	tickCount := 0
	s, _, clock := newFixture(t, func() []byte { return []byte{0x00} })
	s.processor = countingTicker{&tickCount}

	s.Update()
	before := tickCount
	clock.advance(int64(5 * time.Millisecond))
	s.Update()
	assert.Greater(t, tickCount, before, "Tick should run on every elapsed process interval, even with nothing queued")
}

type countingTicker struct{ n *int }

func (countingTicker) Put(kind keyswitch.EventKind, sw *keyswitch.KeySwitch, now int64) {}
func (c countingTicker) Tick(now int64)                                                 { *c.n++ }

func TestQueueSizeReflectsBacklog(t *testing.T) {
	pressed := false
	s, _, clock := newFixture(t, func() []byte {
		if pressed {
			return []byte{0x01}
		}
		return []byte{0x00}
	})
	// Replace the processor with one that never drains, to observe backlog.
	s.processor = blockingProcessor{}

	pressed = true
	clock.advance(int64(2 * time.Millisecond))
	s.scanOnce(clock.now())
	assert.NotZero(t, s.QueueSize(), "expected the press to have been enqueued")
}

type blockingProcessor struct{}

func (blockingProcessor) Put(kind keyswitch.EventKind, sw *keyswitch.KeySwitch, now int64) {}
func (blockingProcessor) Tick(now int64)                                                   {}
