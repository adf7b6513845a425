package typedtext

import (
	"math"
	"time"
)

// MinInterval is the shortest tick interval a non-per-character transition
// will request. Transitions that would need faster ticks move several
// characters per tick instead.
const MinInterval = 16 * time.Millisecond

const minIntervalMs = float64(MinInterval) / float64(time.Millisecond)

// Plan is the timing plan computed when a transition starts.
type Plan struct {
	// TotalDurationMs is the requested duration of the whole transition.
	TotalDurationMs float64
	// CharactersToAnimate is the length difference between current and
	// target when the transition started.
	CharactersToAnimate int
	// IdealIntervalPerCharacter is TotalDurationMs spread evenly over
	// CharactersToAnimate, or 0 when there is nothing to animate.
	IdealIntervalPerCharacter float64
}

// NewPlan computes the timing plan for moving from a text of currentLen
// characters to one of targetLen characters over duration.
func NewPlan(duration time.Duration, currentLen, targetLen int) Plan {
	n := targetLen - currentLen
	if n < 0 {
		n = -n
	}
	p := Plan{
		TotalDurationMs:     float64(duration) / float64(time.Millisecond),
		CharactersToAnimate: n,
	}
	if n > 0 {
		p.IdealIntervalPerCharacter = p.TotalDurationMs / float64(n)
	}
	return p
}

// CharactersPerTick returns how many characters a single tick adds or
// removes. It is 1 unless spreading the plan one character at a time would
// need ticks shorter than MinInterval.
func CharactersPerTick(plan *Plan, perCharacter bool) int {
	if perCharacter || plan == nil {
		return 1
	}
	n := plan.CharactersToAnimate
	if n == 0 || plan.IdealIntervalPerCharacter >= minIntervalMs {
		return 1
	}
	if plan.TotalDurationMs <= 0 {
		// Nothing to spread over: finish in a single tick.
		return n
	}
	perMinInterval := minIntervalMs * float64(n) / plan.TotalDurationMs
	return max(1, int(math.Ceil(perMinInterval)))
}

// TickInterval returns the delay between ticks. In per-character mode the
// configured duration is itself the per-character delay.
func TickInterval(plan *Plan, perCharacter bool, duration time.Duration) time.Duration {
	if perCharacter || plan == nil {
		return duration
	}
	n := plan.CharactersToAnimate
	if n == 0 {
		return fromMillis(plan.TotalDurationMs)
	}
	if plan.IdealIntervalPerCharacter >= minIntervalMs {
		return fromMillis(plan.IdealIntervalPerCharacter)
	}
	ticks := float64(n) / float64(CharactersPerTick(plan, false))
	return fromMillis(math.Max(plan.TotalDurationMs/ticks, minIntervalMs))
}

// Ticks returns how many ticks a plan needs to reach its target, not
// counting the final tick that observes completion.
func Ticks(plan *Plan, perCharacter bool) int {
	if plan == nil || plan.CharactersToAnimate == 0 {
		return 0
	}
	per := CharactersPerTick(plan, perCharacter)
	return (plan.CharactersToAnimate + per - 1) / per
}

func fromMillis(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}
