package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/totemfall/internal/input"
	"github.com/Faultbox/totemfall/internal/match"
)

// Source is the interactive frame source: it draws the previous frame,
// waits for the next tick and turns pending key events into intents.
type Source struct {
	screen tcell.Screen
	view   *View
	keys   *Keys
	ticker *match.Ticker
	events chan tcell.Event
	done   chan struct{}
	exited chan struct{} // closed when the reader returns
}

// NewSource starts reading events from screen. Events are read on their own
// goroutine and handed to the frame loop over a channel. After Stop events
// are dropped, and the reader exits once the screen is finalized.
func NewSource(screen tcell.Screen, view *View, keys *Keys, fps int) *Source {
	s := &Source{
		screen: screen,
		view:   view,
		keys:   keys,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	s.ticker = match.NewTicker(fps, s.poll)
	go func() {
		defer close(s.exited)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case s.events <- ev:
			case <-s.done:
			}
		}
	}()
	return s
}

// NextFrame draws sess and returns the next step.
func (s *Source) NextFrame(ctx context.Context, sess *match.Session) (match.Step, error) {
	s.view.Draw(sess)
	return s.ticker.NextFrame(ctx, sess)
}

// Stop releases the frame ticker and stops queueing events. It must be
// called once.
func (s *Source) Stop() {
	s.ticker.Stop()
	close(s.done)
}

func (s *Source) poll() (input.Intents, error) {
	for {
		select {
		case ev := <-s.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !s.keys.Handle(ev) {
					return input.Intents{}, match.ErrQuit
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		default:
			return s.keys.Frame(), nil
		}
	}
}
