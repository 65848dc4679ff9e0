package match

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/input"
)

// ErrQuit is returned by a FrameSource when the user asked to leave.
var ErrQuit = errors.New("match: quit")

// Step is the input for one frame.
type Step struct {
	DT    float32
	Input input.Intents
}

// FrameSource paces the loop and supplies input. NextFrame blocks until the
// next frame is due.
type FrameSource interface {
	NextFrame(ctx context.Context, s *Session) (Step, error)
}

// Run drives frames from src until the match ends, the frame limit is hit,
// the source quits or ctx is cancelled.
func (s *Session) Run(ctx context.Context, src FrameSource) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.outcome, err
		}
		if s.cfg.MaxFrames > 0 && s.frames >= s.cfg.MaxFrames {
			s.log.Info("frame limit reached", zap.Int("frames", s.frames), zap.Int("score", s.Score()))
			return s.outcome, nil
		}

		step, err := src.NextFrame(ctx, s)
		if errors.Is(err, ErrQuit) {
			s.log.Info("match abandoned", zap.Int("frames", s.frames))
			return s.outcome, nil
		}
		if err != nil {
			return s.outcome, err
		}

		if o := s.Frame(step.DT, step.Input); o != Running {
			return o, nil
		}
	}
}

// Ticker paces frames in real time and reads input from a shared intent
// set.
type Ticker struct {
	ticker *time.Ticker
	last   time.Time
	poll   func() (input.Intents, error)
}

// NewTicker creates a real-time source at fps frames per second. poll is
// called once per frame for the input.
func NewTicker(fps int, poll func() (input.Intents, error)) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{
		ticker: time.NewTicker(time.Second / time.Duration(fps)),
		last:   time.Now(),
		poll:   poll,
	}
}

// NextFrame waits for the next tick.
func (t *Ticker) NextFrame(ctx context.Context, _ *Session) (Step, error) {
	select {
	case <-ctx.Done():
		return Step{}, ctx.Err()
	case now := <-t.ticker.C:
		dt := float32(now.Sub(t.last).Seconds())
		t.last = now
		in, err := t.poll()
		if err != nil {
			return Step{}, err
		}
		return Step{DT: min(dt, MaxStep), Input: in}, nil
	}
}

// Stop releases the ticker.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}

// MaxStep caps the dt of a real-time frame.
const MaxStep = 0.1

// Fixed steps at a constant dt as fast as the loop runs, for headless play
// and tests.
type Fixed struct {
	DT    float32
	Input func(s *Session) input.Intents
}

// NextFrame returns immediately.
func (f Fixed) NextFrame(_ context.Context, s *Session) (Step, error) {
	var in input.Intents
	if f.Input != nil {
		in = f.Input(s)
	}
	return Step{DT: f.DT, Input: in}, nil
}
