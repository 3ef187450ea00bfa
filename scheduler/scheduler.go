// Package scheduler runs the render loop: update the active effect, push the
// frame to the driver, then wait for the next tick or an effect switch.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/tinygo-org/piomatrix/effects"
	"github.com/tinygo-org/piomatrix/matrix"
)

// DefaultInterval is the pause between frames.
const DefaultInterval = 10 * time.Millisecond

// Driver pushes a frame to the LEDs. Write returns once the whole buffer
// has been sent and must not keep buf.
type Driver interface {
	Write(buf *matrix.Buffer) error
}

// State of the render loop.
type State uint8

const (
	// Idle means no effect has been activated yet.
	Idle State = iota
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	}
	return "unknown"
}

type Config struct {
	// Interval between the end of a transfer and the next update.
	// Zero means DefaultInterval.
	Interval time.Duration
	// Initial, if set, is rendered right away instead of waiting for the
	// first switch.
	Initial effects.Effect
}

// Scheduler owns the frame buffer and the active effect. Everything but
// Run's switches argument is confined to the goroutine calling Run.
type Scheduler struct {
	driver   Driver
	switches *Signal[effects.Effect]
	interval time.Duration
	after    func(time.Duration) <-chan time.Time

	buf    matrix.Buffer
	active effects.Effect
	state  State
	frames uint64
}

// New returns a scheduler drawing on driver and taking effect switches from switches.
func New(driver Driver, switches *Signal[effects.Effect], cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	s := &Scheduler{
		driver:   driver,
		switches: switches,
		interval: cfg.Interval,
		after:    time.After,
	}
	if cfg.Initial != nil {
		s.activate(cfg.Initial)
	}
	return s
}

// Run renders frames until ctx is done or the driver fails. A driver error
// is returned wrapped with the frame number; there is no retry. Firmware
// passes context.Background so the loop never ends.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.active == nil {
		e, err := s.switches.Wait(ctx)
		if err != nil {
			return err
		}
		s.activate(e)
	}
	for {
		s.active.Update(&s.buf)
		if err := s.driver.Write(&s.buf); err != nil {
			return fmt.Errorf("scheduler: frame %d: %w", s.frames, err)
		}
		s.frames++

		select {
		case <-s.after(s.interval):
		case <-s.switches.Ready():
			if e, ok := s.switches.TryTake(); ok {
				s.activate(e)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// activate replaces the active effect. A nil effect is ignored.
func (s *Scheduler) activate(e effects.Effect) {
	if e == nil {
		return
	}
	s.active = e
	s.state = Rendering
}

// State returns the loop state.
func (s *Scheduler) State() State { return s.state }

// Frames returns the number of frames written so far.
func (s *Scheduler) Frames() uint64 { return s.frames }

// Active returns the effect being rendered, or nil while Idle.
func (s *Scheduler) Active() effects.Effect { return s.active }
