// Package animation provides the scheduling primitives that drive text
// transitions.
//
// A transition never owns a goroutine or a timer. It registers a single
// repeating callback with a [Scheduler] and relies on the scheduler to call
// it back at roughly the requested interval, always from one goroutine.
//
// Two implementations are provided:
//
//   - [FrameScheduler]: virtual time advanced explicitly with Advance, or once
//     per frame with Step. Deterministic; used by tests and by hosts that
//     already run a frame loop.
//
//   - [LoopScheduler]: real time. Callbacks and posted work all run on the
//     goroutine that calls Run, so the transition needs no locking.
//
// # Basic Usage
//
//	sched := animation.NewFrameScheduler()
//	text := typedtext.New("", sched, typedtext.WithOnUpdate(func(s string) {
//	    fmt.Println(s)
//	}))
//	text.SetTarget("Hello")
//	sched.Advance(time.Second)
package animation

import "time"

// Handle identifies a repeating registration. The zero Handle is never
// returned by a Scheduler and means "no registration".
type Handle uint64

// Scheduler registers repeating callbacks.
type Scheduler interface {
	// ScheduleRepeating arranges for callback to run every interval until
	// the returned handle is cancelled.
	ScheduleRepeating(interval time.Duration, callback func()) Handle
	// Cancel releases a registration. Cancelling the zero Handle or an
	// already cancelled one is a no-op.
	Cancel(h Handle)
}
