// Package clock provides the simulation clock and a queue of one-shot
// events that fire on the update thread once their time is reached.
package clock

import (
	"container/heap"
	"time"
)

// Clock advances only when the frame loop says so.
type Clock struct {
	now   time.Duration
	frame uint64

	queue eventQueue
	seq   uint64
}

// New creates a clock at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the elapsed simulation time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Frame returns the number of completed Advance calls.
func (c *Clock) Frame() uint64 {
	return c.frame
}

// Advance moves simulation time forward by dt seconds and runs every event
// that has become due, in time order. Events scheduled by a callback for a
// time already reached run in the same call.
func (c *Clock) Advance(dt float32) int {
	if dt > 0 {
		c.now += time.Duration(float64(dt) * float64(time.Second))
	}
	c.frame++
	return c.RunDue()
}

// RunDue runs all events due at the current time and returns how many ran.
func (c *Clock) RunDue() int {
	ran := 0
	for c.queue.Len() > 0 && c.queue[0].at <= c.now {
		ev := heap.Pop(&c.queue).(*event)
		ev.fn()
		ran++
	}
	return ran
}

// After schedules fn to run once d has elapsed from now.
func (c *Clock) After(d time.Duration, fn func()) {
	c.At(c.now+d, fn)
}

// At schedules fn to run at absolute simulation time at.
func (c *Clock) At(at time.Duration, fn func()) {
	c.seq++
	heap.Push(&c.queue, &event{at: at, seq: c.seq, fn: fn})
}

// Pending returns the number of events not yet fired.
func (c *Clock) Pending() int {
	return c.queue.Len()
}

type event struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// eventQueue is a min-heap on (at, seq) so equal times fire in schedule order.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
