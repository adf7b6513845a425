package animation

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-drift/typedtext/pkg/errors"
)

// ErrLoopStopped is returned by [LoopScheduler.Do] once Run has returned.
var ErrLoopStopped = stderrors.New("animation: loop stopped")

// LoopScheduler is a real-time [Scheduler] that serializes every callback
// onto the goroutine executing Run.
//
// Code that touches a transition driven by a LoopScheduler must itself run
// on the loop, via Post or Do. Panics raised by callbacks or posted work are
// recovered and reported through the errors package; the loop keeps running.
type LoopScheduler struct {
	mu      sync.Mutex
	nextID  Handle
	entries map[Handle]*loopEntry

	work chan func()
	done chan struct{}
}

type loopEntry struct {
	interval time.Duration
	callback func()
	timer    *time.Timer
}

// NewLoopScheduler creates a scheduler. Callbacks do not run until Run is
// called.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		entries: make(map[Handle]*loopEntry),
		work:    make(chan func()),
		done:    make(chan struct{}),
	}
}

// Run executes callbacks and posted work until ctx is cancelled. All live
// registrations are released on return. Run returns ctx.Err() and must be
// called at most once.
func (s *LoopScheduler) Run(ctx context.Context) error {
	defer func() {
		close(s.done)
		s.cancelAll()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.work:
			s.run(fn)
		}
	}
}

func (s *LoopScheduler) run(fn func()) {
	defer errors.Recover("animation.LoopScheduler")
	fn()
}

// Post queues fn to run on the loop and returns without waiting. It reports
// false if the loop has stopped.
func (s *LoopScheduler) Post(fn func()) bool {
	select {
	case s.work <- fn:
		return true
	case <-s.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. Do must not be called
// from the loop goroutine.
func (s *LoopScheduler) Do(fn func()) error {
	finished := make(chan struct{})
	if !s.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrLoopStopped
	}
}

// Done is closed when Run returns.
func (s *LoopScheduler) Done() <-chan struct{} {
	return s.done
}

// ScheduleRepeating registers callback to run on the loop every interval.
func (s *LoopScheduler) ScheduleRepeating(interval time.Duration, callback func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	e := &loopEntry{interval: max(interval, 0), callback: callback}
	s.entries[id] = e
	e.timer = time.AfterFunc(e.interval, func() { s.fire(id) })
	return id
}

// fire runs on the timer goroutine and hands the tick to the loop.
func (s *LoopScheduler) fire(id Handle) {
	s.Post(func() {
		s.mu.Lock()
		e, ok := s.entries[id]
		if ok {
			e.timer.Reset(e.interval)
		}
		s.mu.Unlock()
		if ok && e.callback != nil {
			e.callback()
		}
	})
}

// Cancel releases a registration. A tick already queued for h is dropped.
func (s *LoopScheduler) Cancel(h Handle) {
	if h == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[h]; ok {
		e.timer.Stop()
		delete(s.entries, h)
	}
}

// Active returns the number of live registrations.
func (s *LoopScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *LoopScheduler) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, id)
	}
}

var _ Scheduler = (*LoopScheduler)(nil)
