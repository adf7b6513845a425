package typedtext

import (
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/typedtext/internal/grapheme"
	"github.com/go-drift/typedtext/pkg/animation"
)

// Transitioner animates a displayed string toward a target string.
//
// Always call Dispose when done so the scheduler releases the tick
// registration. See the package documentation for timing rules.
type Transitioner struct {
	scheduler animation.Scheduler
	logger    *zap.Logger

	onUpdate       func(string)
	listeners      []listener
	nextListenerID int

	current         string
	currentClusters []string
	target          string
	targetClusters  []string

	settings Settings

	handle       animation.Handle
	plan         *Plan
	charsPerTick int
}

type listener struct {
	id int
	fn func(string)
}

// New creates a Transitioner showing initial, with no transition running.
// A nil scheduler makes every target change apply immediately.
func New(initial string, scheduler animation.Scheduler, opts ...Option) *Transitioner {
	t := &Transitioner{
		scheduler: scheduler,
		logger:    zap.NewNop(),
		settings:  DefaultSettings(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.current = initial
	t.target = initial
	t.currentClusters = grapheme.Split(initial)
	t.targetClusters = t.currentClusters
	return t
}

// Current returns the string on display.
func (t *Transitioner) Current() string {
	return t.current
}

// String returns the string on display.
func (t *Transitioner) String() string {
	return t.current
}

// Target returns the string the transition is heading toward.
func (t *Transitioner) Target() string {
	return t.target
}

// SetTarget sets the string to transition to and (re)starts the transition.
// Setting the current target again does nothing. If the new target is not
// related to the displayed string, the display is cleared first.
func (t *Transitioner) SetTarget(value string) {
	if value == t.target {
		return
	}
	t.target = value
	t.targetClusters = grapheme.Split(value)

	if !t.related() {
		t.setCurrent(nil)
	}
	t.start()
}

// related reports whether the shorter of current and target is a prefix of
// the longer. Equal-length texts are related only when identical.
func (t *Transitioner) related() bool {
	if len(t.currentClusters) < len(t.targetClusters) {
		return grapheme.HasPrefix(t.targetClusters, t.currentClusters)
	}
	return grapheme.HasPrefix(t.currentClusters, t.targetClusters)
}

// AnimationDuration returns the configured duration.
func (t *Transitioner) AnimationDuration() time.Duration {
	return t.settings.AnimationDuration
}

// SetAnimationDuration sets the duration. A running transition is
// restarted from the displayed string with the new timing.
func (t *Transitioner) SetAnimationDuration(d time.Duration) {
	t.settings.AnimationDuration = d
	t.restartIfAnimating()
}

// AnimatePerCharacter reports whether the duration applies per character.
func (t *Transitioner) AnimatePerCharacter() bool {
	return t.settings.AnimatePerCharacter
}

// SetAnimatePerCharacter sets per-character mode. A running transition is
// restarted from the displayed string with the new timing.
func (t *Transitioner) SetAnimatePerCharacter(perCharacter bool) {
	t.settings.AnimatePerCharacter = perCharacter
	t.restartIfAnimating()
}

// Settings returns the current animation configuration.
func (t *Transitioner) Settings() Settings {
	return t.settings
}

// Apply replaces the animation configuration, restarting a running
// transition at most once.
func (t *Transitioner) Apply(s Settings) {
	t.settings = s
	t.restartIfAnimating()
}

func (t *Transitioner) restartIfAnimating() {
	if t.IsAnimating() {
		t.start()
	}
}

// IsAnimatable reports whether target changes are animated, that is whether
// the duration is not negative.
func (t *Transitioner) IsAnimatable() bool {
	return t.settings.AnimationDuration >= 0
}

// IsAnimating reports whether a tick registration is live.
func (t *Transitioner) IsAnimating() bool {
	return t.handle != 0
}

// Plan returns the timing plan of the running transition.
func (t *Transitioner) Plan() (Plan, bool) {
	if t.plan == nil {
		return Plan{}, false
	}
	return *t.plan, true
}

// Skip finishes the running transition immediately, showing the target.
func (t *Transitioner) Skip() {
	if !t.IsAnimating() && t.current == t.target {
		return
	}
	t.stop()
	t.logger.Debug("transition skipped", zap.Int("chars", len(t.targetClusters)))
	t.setCurrent(t.targetClusters)
}

// AddListener adds a callback that fires whenever the displayed string
// changes. Returns an unsubscribe function.
func (t *Transitioner) AddListener(fn func(string)) func() {
	id := t.nextListenerID
	t.nextListenerID++
	t.listeners = append(t.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispose stops any running transition and drops all listeners.
func (t *Transitioner) Dispose() {
	t.stop()
	t.onUpdate = nil
	t.listeners = nil
}

func (t *Transitioner) start() {
	t.stop()

	if t.current == t.target {
		return
	}

	if !t.IsAnimatable() || t.scheduler == nil {
		t.setCurrent(t.targetClusters)
		return
	}

	plan := NewPlan(t.settings.AnimationDuration, len(t.currentClusters), len(t.targetClusters))
	interval := TickInterval(&plan, t.settings.AnimatePerCharacter, t.settings.AnimationDuration)
	t.plan = &plan
	t.charsPerTick = CharactersPerTick(&plan, t.settings.AnimatePerCharacter)
	t.handle = t.scheduler.ScheduleRepeating(interval, t.tick)

	t.logger.Debug("transition started",
		zap.Int("chars", plan.CharactersToAnimate),
		zap.Int("per_tick", t.charsPerTick),
		zap.Duration("interval", interval),
		zap.Bool("per_character", t.settings.AnimatePerCharacter),
	)
}

func (t *Transitioner) stop() {
	if t.handle == 0 {
		return
	}
	t.scheduler.Cancel(t.handle)
	t.handle = 0
	t.plan = nil
	t.charsPerTick = 0
}

func (t *Transitioner) tick() {
	currentLen := len(t.currentClusters)
	targetLen := len(t.targetClusters)

	if currentLen == targetLen {
		t.stop()
		t.logger.Debug("transition finished", zap.Int("chars", targetLen))
		return
	}

	step := max(t.charsPerTick, 1)
	if currentLen < targetLen {
		t.setCurrent(t.targetClusters[:min(currentLen+step, targetLen)])
	} else {
		t.setCurrent(t.currentClusters[:max(currentLen-step, targetLen)])
	}
}

// setCurrent replaces the displayed clusters and notifies listeners if the
// displayed string changed.
func (t *Transitioner) setCurrent(clusters []string) {
	value := grapheme.Join(clusters)
	if value == t.current {
		return
	}
	t.current = value
	t.currentClusters = clusters
	t.notify(value)
}

func (t *Transitioner) notify(value string) {
	if t.onUpdate != nil {
		t.onUpdate(value)
	}
	if len(t.listeners) == 0 {
		return
	}
	listeners := make([]listener, len(t.listeners))
	copy(listeners, t.listeners)
	for _, l := range listeners {
		l.fn(value)
	}
}
