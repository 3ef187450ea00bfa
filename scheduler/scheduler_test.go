package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinygo-org/piomatrix/effects"
	"github.com/tinygo-org/piomatrix/matrix"
)

// frame is what the fake driver saw on one Write.
type frame struct {
	active effects.Effect
	state  State
	first  matrix.Color
}

type fakeDriver struct {
	s      *Scheduler
	writes chan frame
	err    error
}

func (d *fakeDriver) Write(buf *matrix.Buffer) error {
	if d.err != nil {
		return d.err
	}
	d.writes <- frame{active: d.s.Active(), state: d.s.State(), first: buf.Get(0, 0)}
	return nil
}

type harness struct {
	sig    *Signal[effects.Effect]
	drv    *fakeDriver
	ticks  chan time.Time
	cancel context.CancelFunc
	done   chan error
}

// startHarness runs a scheduler whose timer only fires on h.ticks. pending
// effects are signalled before the loop starts.
func startHarness(t *testing.T, cfg Config, pending ...effects.Effect) *harness {
	t.Helper()
	h := &harness{
		sig:   NewSignal[effects.Effect](),
		drv:   &fakeDriver{writes: make(chan frame, 16)},
		ticks: make(chan time.Time),
		done:  make(chan error, 1),
	}
	for _, e := range pending {
		h.sig.Signal(e)
	}
	s := New(h.drv, h.sig, cfg)
	s.after = func(time.Duration) <-chan time.Time { return h.ticks }
	h.drv.s = s
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- s.Run(ctx) }()
	t.Cleanup(cancel)
	return h
}

func (h *harness) nextWrite(t *testing.T) frame {
	t.Helper()
	select {
	case f := <-h.drv.writes:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame written")
	}
	return frame{}
}

func (h *harness) noWrite(t *testing.T) {
	t.Helper()
	select {
	case f := <-h.drv.writes:
		t.Fatalf("unexpected frame %+v", f)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSchedulerIdleUntilFirstEffect(t *testing.T) {
	h := startHarness(t, Config{})
	h.noWrite(t)

	wheel := &effects.Wheel{}
	h.sig.Signal(wheel)
	f := h.nextWrite(t)
	if f.active != wheel || f.state != Rendering {
		t.Fatalf("first frame from %v in state %v", f.active, f.state)
	}
	if f.first != effects.WheelColor(0) {
		t.Errorf("first frame pixel %v, want wheel phase 0", f.first)
	}
}

func TestSchedulerOneWritePerTick(t *testing.T) {
	wheel := &effects.Wheel{}
	h := startHarness(t, Config{Initial: wheel})
	h.nextWrite(t)
	const ticks = 5
	for i := 1; i <= ticks; i++ {
		h.ticks <- time.Time{}
		f := h.nextWrite(t)
		if f.active != wheel {
			t.Fatalf("tick %d rendered %v", i, f.active)
		}
		if want := effects.WheelColor(uint8(i)); f.first != want {
			t.Fatalf("tick %d pixel %v, want %v", i, f.first, want)
		}
		h.noWrite(t)
	}
	if wheel.Phase != ticks+1 {
		t.Errorf("effect updated %d times, want %d", wheel.Phase, ticks+1)
	}
}

func TestSchedulerSwitchReplacesEffect(t *testing.T) {
	wheel := &effects.Wheel{}
	h := startHarness(t, Config{Initial: wheel})
	h.nextWrite(t)

	single := &effects.Single{}
	h.sig.Signal(single)
	f := h.nextWrite(t)
	if f.active != single {
		t.Fatalf("after switch rendered %v", f.active)
	}
	h.noWrite(t)
	if wheel.Phase != 1 {
		t.Errorf("old effect kept running: phase %d", wheel.Phase)
	}
}

func TestSchedulerSwitchLatestWins(t *testing.T) {
	first, second := &effects.Wheel{}, &effects.Single{}
	h := startHarness(t, Config{}, first, second)
	f := h.nextWrite(t)
	if f.active != second {
		t.Fatalf("rendered %v, want the second signalled effect", f.active)
	}
	h.noWrite(t)
}

func TestSchedulerDriverErrorIsFatal(t *testing.T) {
	sig := NewSignal[effects.Effect]()
	errHW := errors.New("hw: stuck")
	drv := &fakeDriver{err: errHW}
	s := New(drv, sig, Config{Initial: &effects.Wheel{}})
	drv.s = s
	err := s.Run(context.Background())
	if !errors.Is(err, errHW) {
		t.Fatalf("Run() = %v, want wrapped driver error", err)
	}
	if s.Frames() != 0 {
		t.Errorf("Frames() = %d after failed first write", s.Frames())
	}
}

func TestSchedulerCancel(t *testing.T) {
	h := startHarness(t, Config{Initial: &effects.Pulse{}})
	h.nextWrite(t)
	h.cancel()
	select {
	case err := <-h.done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(&fakeDriver{}, NewSignal[effects.Effect](), Config{})
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
	if s.State() != Idle || s.Active() != nil {
		t.Errorf("new scheduler state %v active %v", s.State(), s.Active())
	}
}
