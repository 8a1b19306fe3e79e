// Command makbe-sim is the reference firmware loop: it wires a simulated
// I²C bus and a simulated HID sink to the real scan/debounce/process
// pipeline, so the core can be exercised end to end without hardware. A
// small HTTP surface lets a developer simulate key presses and watch the
// resulting HID output and layer state over a websocket, mirroring the way
// the teacher repo exposes its hardware layer to a browser.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/vincent99/makbe-go/internal/action"
	"github.com/vincent99/makbe-go/internal/bus"
	"github.com/vincent99/makbe-go/internal/config"
	"github.com/vincent99/makbe-go/internal/diag"
	"github.com/vincent99/makbe-go/internal/expander/tca9554"
	"github.com/vincent99/makbe-go/internal/hidsink"
	"github.com/vincent99/makbe-go/internal/ioexpander"
	"github.com/vincent99/makbe-go/internal/keycode"
	"github.com/vincent99/makbe-go/internal/keyswitch"
	"github.com/vincent99/makbe-go/internal/processor"
	"github.com/vincent99/makbe-go/internal/scanner"
)

// simulatedPins holds the live bit vector a SimDevice reports back on the
// next read; pin bits are set/cleared by the HTTP /press endpoint.
type simulatedPins struct {
	bits uint32
}

func (p *simulatedPins) set(pin int, on bool) {
	for {
		old := atomic.LoadUint32(&p.bits)
		next := old
		if on {
			next |= 1 << uint(pin)
		} else {
			next &^= 1 << uint(pin)
		}
		if atomic.CompareAndSwapUint32(&p.bits, old, next) {
			return
		}
	}
}

func (p *simulatedPins) read() []byte {
	v := atomic.LoadUint32(&p.bits)
	return []byte{byte(v)}
}

// demoKeymap is a small two-layer keymap exercising Key, MultiKey, Layer,
// and HoldTap bindings, laid out on the low 4 pins of one TCA9554.
func demoKeymap() []*keyswitch.KeySwitch {
	return []*keyswitch.KeySwitch{
		keyswitch.New([]action.Action{action.K(keycode.A), action.Trans()}, action.NoOp(), 4),
		keyswitch.New([]action.Action{action.M(keycode.LShift, keycode.B)}, action.NoOp(), 4),
		keyswitch.New([]action.Action{action.LT(1, keycode.Space)}, action.NoOp(), 4),
		keyswitch.New([]action.Action{action.Trans(), action.K(keycode.Z)}, action.NoOp(), 4),
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	pins := &simulatedPins{}
	simBus := bus.NewSimBus()
	simBus.Attach(0x20, &bus.SimDevice{Input: pins.read})

	exp := tca9554.New(0)
	keys := demoKeymap()
	for i, sw := range keys {
		exp.Assign(i, sw)
	}

	sink := hidsink.NewRecorder()
	proc := processor.NewLayered(sink)
	proc.Debug = cfg.Debug

	trace := diag.NewTraceBuffer(cfg.TraceCapacity)
	hub := diag.NewHub()

	tracedSink := &tracingSink{inner: sink, trace: trace}
	proc.Sink = tracedSink

	s := scanner.New(scanner.Config{
		Expanders:         []ioexpander.IoExpander{exp},
		Bus:               simBus,
		Processor:         proc,
		Debug:             cfg.Debug,
		ScanInterval:      cfg.ScanInterval,
		ProcessInterval:   cfg.ProcessInterval,
		EventQueueSize:    cfg.EventQueueSize,
		MaxEventsPerCycle: cfg.MaxEventsPerCycle,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/press", func(w http.ResponseWriter, r *http.Request) {
		pinStr := r.URL.Query().Get("pin")
		stateStr := r.URL.Query().Get("state")
		pin, err := strconv.Atoi(pinStr)
		if err != nil || pin < 0 || pin >= exp.PinCount() {
			http.Error(w, "invalid pin", http.StatusBadRequest)
			return
		}
		on, err := strconv.ParseBool(stateStr)
		if err != nil {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		pins.set(pin, on)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/trace", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(trace.Snapshot())
	})
	handler := corsMiddleware(mux)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatal("makbe-sim: ", err)
	}
	log.Println("makbe-sim: listening on", cfg.Addr)

	go func() {
		if err := http.Serve(ln, handler); err != nil {
			log.Fatal("makbe-sim: ", err)
		}
	}()

	runLoop(context.Background(), s, proc, hub)
}

// runLoop drives the scan/process pipeline on a fixed tick, broadcasting
// state to the diagnostics hub whenever the scanner does any work.
func runLoop(ctx context.Context, s *scanner.Scanner, proc *processor.Layered, hub *diag.Hub) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.Update() {
				mods := make([]string, 0, len(proc.ActiveModifiers()))
				for _, m := range proc.ActiveModifiers() {
					mods = append(mods, m.String())
				}
				hub.Broadcast(diag.StateMsg{
					Type:         "state",
					CurrentLayer: proc.CurrentLayer(),
					Modifiers:    mods,
					QueueDepth:   s.QueueSize(),
					WaitingCount: len(proc.Waiting()),
				})
			}
		}
	}
}

// tracingSink wraps the real HID sink, recording every call to the
// diagnostics trace buffer without changing what the host sees.
type tracingSink struct {
	inner hidsink.Sink
	trace *diag.TraceBuffer
}

func (t *tracingSink) Press(c keycode.Code) {
	t.inner.Press(c)
	t.trace.Record(keyswitch.Pressed, "", time.Now().UnixNano(), []hidsink.Call{{Pressed: true, Code: c}})
}

func (t *tracingSink) Release(c keycode.Code) {
	t.inner.Release(c)
	t.trace.Record(keyswitch.Released, "", time.Now().UnixNano(), []hidsink.Call{{Pressed: false, Code: c}})
}
