package animation

import (
	"sync"
	"time"
)

// FrameScheduler is a [Scheduler] running on virtual time.
//
// Time only moves when Advance or Step is called. Due callbacks run on the
// calling goroutine in deadline order, ties broken by registration order.
// Callbacks may schedule or cancel registrations while being run.
//
// A registration with a non-positive interval fires at most once per
// Advance call.
type FrameScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	last    time.Time
	step    uint64
	nextID  Handle
	entries map[Handle]*frameEntry
}

type frameEntry struct {
	id       Handle
	interval time.Duration
	next     time.Duration
	lastStep uint64
	callback func()
}

// NewFrameScheduler creates a scheduler at virtual time zero.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{
		entries: make(map[Handle]*frameEntry),
	}
}

// ScheduleRepeating registers callback to run every interval of virtual time.
func (s *FrameScheduler) ScheduleRepeating(interval time.Duration, callback func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e := &frameEntry{
		id:       s.nextID,
		interval: interval,
		next:     s.now + max(interval, 0),
		callback: callback,
	}
	if interval <= 0 {
		// Registered mid-step: wait for the next one.
		e.lastStep = s.step
	}
	s.entries[e.id] = e
	return e.id
}

// Cancel removes a registration.
func (s *FrameScheduler) Cancel(h Handle) {
	if h == 0 {
		return
	}
	s.mu.Lock()
	delete(s.entries, h)
	s.mu.Unlock()
}

// Advance moves virtual time forward by d, running every callback that
// falls due along the way.
func (s *FrameScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.step++
	end := s.now + max(d, 0)
	for {
		e := s.due(end)
		if e == nil {
			break
		}
		s.now = max(s.now, e.next)
		if e.interval > 0 {
			e.next += e.interval
		} else {
			e.next = s.now
			e.lastStep = s.step
		}
		callback := e.callback
		s.mu.Unlock()
		if callback != nil {
			callback()
		}
		s.mu.Lock()
	}
	s.now = end
	s.mu.Unlock()
}

// due returns the earliest registration due at or before end. Must be
// called with s.mu held.
func (s *FrameScheduler) due(end time.Duration) *frameEntry {
	var best *frameEntry
	for _, e := range s.entries {
		if e.interval <= 0 && e.lastStep == s.step {
			continue
		}
		if e.next > end {
			continue
		}
		if best == nil || e.next < best.next || (e.next == best.next && e.id < best.id) {
			best = e
		}
	}
	return best
}

// Step advances virtual time by the wall time elapsed since the previous
// Step, as read from the package [Clock]. The first call only records the
// starting time. Hosts call Step once per frame.
func (s *FrameScheduler) Step() {
	now := Now()
	s.mu.Lock()
	last := s.last
	s.last = now
	s.mu.Unlock()
	if last.IsZero() {
		return
	}
	s.Advance(now.Sub(last))
}

// RunUntilIdle advances time until no registrations remain or limit of
// virtual time has passed. Returns the virtual time consumed.
func (s *FrameScheduler) RunUntilIdle(limit time.Duration) time.Duration {
	start := s.Elapsed()
	for s.Active() > 0 {
		next, ok := s.nextDeadline()
		if !ok {
			break
		}
		if next-start > limit {
			s.Advance(start + limit - s.Elapsed())
			break
		}
		s.Advance(next - s.Elapsed())
	}
	return s.Elapsed() - start
}

func (s *FrameScheduler) nextDeadline() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		next  time.Duration
		found bool
	)
	for _, e := range s.entries {
		if !found || e.next < next {
			next = e.next
			found = true
		}
	}
	return next, found
}

// Elapsed returns the virtual time since the scheduler was created.
func (s *FrameScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Active returns the number of live registrations.
func (s *FrameScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// HasActive returns true if any registration is live.
func (s *FrameScheduler) HasActive() bool {
	return s.Active() > 0
}

var _ Scheduler = (*FrameScheduler)(nil)
