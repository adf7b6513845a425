// Package typedtext animates a displayed string toward a target string.
//
// A [Transitioner] holds the string currently on display and the string it
// should end up showing. Setting a new target starts a transition that
// grows or shrinks the displayed string a few characters per tick until it
// matches, reporting every intermediate value to its listeners.
//
// # Timing
//
// By default the configured duration covers the whole transition: moving
// two characters in one second ticks every 500ms. When spreading characters
// evenly would need ticks shorter than [MinInterval], each tick moves
// several characters instead so the tick rate stays bounded while the total
// duration is preserved as closely as possible.
//
// In per-character mode the duration is the delay between characters, so
// the total time grows with the number of characters to move.
//
// A negative duration disables animation: new targets are shown at once.
//
// # Related Text
//
// Transitions only ever append to or truncate the displayed string. When
// the target neither extends nor shortens what is on display, the display
// is first cleared and the target is typed out from scratch.
//
// # Threading
//
// A Transitioner is not safe for concurrent use. Every method, and every
// tick, must run on the goroutine that drives its [animation.Scheduler].
// Listeners may call back into the Transitioner; doing so restarts the
// transition.
package typedtext
