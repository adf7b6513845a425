package typedtext

import (
	"time"

	"go.uber.org/zap"
)

// DefaultAnimationDuration is the duration used when none is configured.
const DefaultAnimationDuration = time.Second

// Settings groups the animation configuration of a Transitioner.
type Settings struct {
	// AnimationDuration is the duration of a full transition, or of each
	// character in per-character mode. Negative disables animation.
	AnimationDuration time.Duration
	// AnimatePerCharacter applies AnimationDuration to every character.
	AnimatePerCharacter bool
}

// DefaultSettings returns the settings of a freshly created Transitioner.
func DefaultSettings() Settings {
	return Settings{AnimationDuration: DefaultAnimationDuration}
}

// Option configures a Transitioner.
type Option func(*Transitioner)

// WithOnUpdate sets the primary update callback. It is called before any
// listener added with AddListener.
func WithOnUpdate(fn func(string)) Option {
	return func(t *Transitioner) {
		t.onUpdate = fn
	}
}

// WithAnimationDuration sets the initial animation duration.
func WithAnimationDuration(d time.Duration) Option {
	return func(t *Transitioner) {
		t.settings.AnimationDuration = d
	}
}

// WithAnimatePerCharacter sets the initial per-character mode.
func WithAnimatePerCharacter(perCharacter bool) Option {
	return func(t *Transitioner) {
		t.settings.AnimatePerCharacter = perCharacter
	}
}

// WithSettings sets the initial animation configuration.
func WithSettings(s Settings) Option {
	return func(t *Transitioner) {
		t.settings = s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transitioner) {
		if logger != nil {
			t.logger = logger
		}
	}
}
