package typedtext

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-drift/typedtext/pkg/animation"
)

// recorder collects every value a Transitioner reports, with the virtual
// time it was reported at.
type recorder struct {
	sched  *animation.FrameScheduler
	values []string
	times  []time.Duration
}

func (r *recorder) record(v string) {
	r.values = append(r.values, v)
	r.times = append(r.times, r.sched.Elapsed())
}

func newRecorded(initial string, opts ...Option) (*Transitioner, *animation.FrameScheduler, *recorder) {
	sched := animation.NewFrameScheduler()
	rec := &recorder{sched: sched}
	opts = append([]Option{WithOnUpdate(rec.record)}, opts...)
	return New(initial, sched, opts...), sched, rec
}

func TestNewStartsIdle(t *testing.T) {
	tr, sched, rec := newRecorded("Hello")

	assert.Equal(t, "Hello", tr.Current())
	assert.Equal(t, "Hello", tr.Target())
	assert.Equal(t, "Hello", tr.String())
	assert.Equal(t, DefaultAnimationDuration, tr.AnimationDuration())
	assert.False(t, tr.AnimatePerCharacter())
	assert.True(t, tr.IsAnimatable())
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
	assert.Empty(t, rec.values)
}

func TestTypesOutOverDuration(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("Hi")
	require.True(t, tr.IsAnimating())

	plan, ok := tr.Plan()
	require.True(t, ok)
	assert.Equal(t, Plan{TotalDurationMs: 1000, CharactersToAnimate: 2, IdealIntervalPerCharacter: 500}, plan)

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, "H", tr.Current())
	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, "Hi", tr.Current())

	// The registration is released on the tick after the target is reached.
	assert.True(t, tr.IsAnimating())
	sched.Advance(500 * time.Millisecond)
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())

	assert.Equal(t, []string{"H", "Hi"}, rec.values)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, rec.times)
	_, ok = tr.Plan()
	assert.False(t, ok)
}

func TestPerCharacterMode(t *testing.T) {
	tr, sched, rec := newRecorded("",
		WithAnimationDuration(200*time.Millisecond),
		WithAnimatePerCharacter(true),
	)

	tr.SetTarget("Hello, world")
	sched.RunUntilIdle(time.Minute)

	require.Len(t, rec.values, 12)
	for i, v := range rec.values {
		assert.Len(t, v, i+1, "one character per tick")
		assert.Equal(t, time.Duration(i+1)*200*time.Millisecond, rec.times[i])
	}
}

func TestUnrelatedTargetClearsFirst(t *testing.T) {
	tr, sched, rec := newRecorded("Hello")

	tr.SetTarget("World")
	assert.Equal(t, "", tr.Current(), "display cleared before typing")
	sched.RunUntilIdle(time.Minute)

	want := []string{"", "W", "Wo", "Wor", "Worl", "World"}
	if diff := cmp.Diff(want, rec.values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualLengthDifferentTextIsUnrelated(t *testing.T) {
	tr, sched, rec := newRecorded("abc")

	tr.SetTarget("abd")
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, []string{"", "a", "ab", "abd"}, rec.values)
}

func TestRelatedTargetNeverClears(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"extend", "Hello", "Hello!!", []string{"Hello!", "Hello!!"}},
		{"truncate", "Hello world", "Hello", []string{"Hello worl", "Hello wor", "Hello wo", "Hello w", "Hello ", "Hello"}},
		{"from empty", "", "ab", []string{"a", "ab"}},
		{"to empty", "ab", "", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, sched, rec := newRecorded(tt.from)
			tr.SetTarget(tt.to)
			sched.RunUntilIdle(time.Minute)
			assert.Equal(t, tt.want, rec.values)
			assert.Equal(t, tt.to, tr.Current())
		})
	}
}

func TestSetSameTargetIsNoop(t *testing.T) {
	tr, sched, rec := newRecorded("Hello")

	tr.SetTarget("Hello")
	assert.Empty(t, rec.values)
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())

	tr.SetTarget("Hello there")
	sched.Advance(100 * time.Millisecond)
	plan, _ := tr.Plan()
	handleCount := sched.Active()

	tr.SetTarget("Hello there")
	after, _ := tr.Plan()
	assert.Equal(t, plan, after, "no restart")
	assert.Equal(t, handleCount, sched.Active())
}

func TestNegativeDurationJumps(t *testing.T) {
	tr, sched, rec := newRecorded("", WithAnimationDuration(-time.Second))

	assert.False(t, tr.IsAnimatable())
	tr.SetTarget("Hello")

	assert.Equal(t, "Hello", tr.Current())
	assert.Equal(t, []string{"Hello"}, rec.values)
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
}

func TestNilSchedulerJumps(t *testing.T) {
	var got []string
	tr := New("a", nil, WithOnUpdate(func(s string) { got = append(got, s) }))

	tr.SetTarget("abc")
	assert.Equal(t, "abc", tr.Current())
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, []string{"abc"}, got)

	tr.Skip()
	tr.Dispose()
}

func TestMinimumIntervalBatches(t *testing.T) {
	tr, sched, rec := newRecorded("", WithAnimationDuration(time.Second))

	tr.SetTarget(strings.Repeat("x", 1000))
	plan, ok := tr.Plan()
	require.True(t, ok)
	assert.Equal(t, 16, CharactersPerTick(&plan, false))

	sched.RunUntilIdle(time.Minute)

	require.Len(t, rec.values, 63)
	for i := 1; i < len(rec.times); i++ {
		assert.GreaterOrEqual(t, rec.times[i]-rec.times[i-1], MinInterval)
	}
	finished := rec.times[len(rec.times)-1]
	assert.InDelta(t, float64(time.Second), float64(finished), float64(MinInterval))
	assert.Equal(t, strings.Repeat("x", 1000), tr.Current())
}

func TestVeryShortDurationLongTarget(t *testing.T) {
	tr, sched, rec := newRecorded("", WithAnimationDuration(10*time.Millisecond))

	tr.SetTarget(strings.Repeat("y", 1000))
	sched.RunUntilIdle(time.Minute)

	// Everything lands on the first tick, which is never sooner than MinInterval.
	require.Len(t, rec.values, 1)
	assert.Equal(t, MinInterval, rec.times[0])
}

func TestZeroDuration(t *testing.T) {
	tr, sched, rec := newRecorded("", WithAnimationDuration(0))

	assert.True(t, tr.IsAnimatable())
	tr.SetTarget("abc")
	assert.True(t, tr.IsAnimating())
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, []string{"abc"}, rec.values)
	assert.Equal(t, []time.Duration{MinInterval}, rec.times)
}

func TestDurationChangeRestartsFromCurrent(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("abcdefghij")
	sched.Advance(300 * time.Millisecond)
	require.Equal(t, "abc", tr.Current())

	tr.SetAnimationDuration(1400 * time.Millisecond)
	plan, ok := tr.Plan()
	require.True(t, ok)
	assert.Equal(t, 7, plan.CharactersToAnimate)
	assert.InDelta(t, 200.0, plan.IdealIntervalPerCharacter, 1e-9)
	assert.Equal(t, 1, sched.Active())

	sched.Advance(200 * time.Millisecond)
	assert.Equal(t, "abcd", tr.Current())
	sched.RunUntilIdle(time.Minute)
	assert.Equal(t, "abcdefghij", tr.Current())
	assert.Len(t, rec.values, 10)
}

func TestConfigChangeWhileIdleDoesNotStart(t *testing.T) {
	tr, sched, rec := newRecorded("done")

	tr.SetAnimationDuration(2 * time.Second)
	tr.SetAnimatePerCharacter(true)

	assert.Equal(t, 2*time.Second, tr.AnimationDuration())
	assert.True(t, tr.AnimatePerCharacter())
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
	assert.Empty(t, rec.values)
}

func TestPerCharacterToggleMidFlight(t *testing.T) {
	tr, sched, _ := newRecorded("", WithAnimationDuration(100*time.Millisecond))

	tr.SetTarget(strings.Repeat("z", 20))
	sched.Advance(50 * time.Millisecond)
	startLen := len(tr.Current())

	tr.SetAnimatePerCharacter(true)
	start := sched.Elapsed()
	sched.RunUntilIdle(time.Minute)

	// Remaining characters now take the full duration each.
	remaining := 20 - startLen
	want := time.Duration(remaining+1) * 100 * time.Millisecond
	assert.Equal(t, want, sched.Elapsed()-start)
}

func TestNegativeDurationMidFlightJumps(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("abcd")
	sched.Advance(250 * time.Millisecond)
	require.Equal(t, "a", tr.Current())

	tr.SetAnimationDuration(-1)
	assert.Equal(t, "abcd", tr.Current())
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
	assert.Equal(t, []string{"a", "abcd"}, rec.values)
}

func TestApplyRestartsOnce(t *testing.T) {
	tr, sched, _ := newRecorded("")

	tr.SetTarget("abcdef")
	sched.Advance(200 * time.Millisecond)
	require.Equal(t, "a", tr.Current())

	tr.Apply(Settings{AnimationDuration: 50 * time.Millisecond, AnimatePerCharacter: true})
	assert.Equal(t, Settings{AnimationDuration: 50 * time.Millisecond, AnimatePerCharacter: true}, tr.Settings())
	assert.Equal(t, 1, sched.Active())

	sched.Advance(50 * time.Millisecond)
	assert.Equal(t, "ab", tr.Current())
}

func TestReentrantSetTargetFromListener(t *testing.T) {
	sched := animation.NewFrameScheduler()
	var got []string
	var tr *Transitioner
	tr = New("", sched, WithOnUpdate(func(v string) {
		got = append(got, v)
		if v == "He" {
			tr.SetTarget("Help me")
			assert.Equal(t, 1, sched.Active(), "old registration released first")
		}
	}))

	tr.SetTarget("Hello")
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, []string{"H", "He", "Hel", "Help", "Help ", "Help m", "Help me"}, got)
	assert.Equal(t, 0, sched.Active())
}

func TestReentrantUnrelatedTargetFromListener(t *testing.T) {
	sched := animation.NewFrameScheduler()
	var got []string
	var tr *Transitioner
	tr = New("", sched, WithOnUpdate(func(v string) {
		got = append(got, v)
		if v == "ab" {
			tr.SetTarget("xy")
		}
	}))

	tr.SetTarget("abc")
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, []string{"a", "ab", "", "x", "xy"}, got)
	assert.Equal(t, "xy", tr.Current())
}

func TestSkip(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("Hello")
	sched.Advance(200 * time.Millisecond)
	tr.Skip()

	assert.Equal(t, "Hello", tr.Current())
	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
	assert.Equal(t, []string{"H", "Hello"}, rec.values)

	tr.Skip()
	assert.Len(t, rec.values, 2)
}

func TestDisposeStopsAnimation(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("Hello")
	sched.Advance(200 * time.Millisecond)
	tr.Dispose()

	assert.False(t, tr.IsAnimating())
	assert.Equal(t, 0, sched.Active())
	sched.Advance(time.Minute)
	assert.Equal(t, []string{"H"}, rec.values)
}

func TestListeners(t *testing.T) {
	tr, sched, rec := newRecorded("")

	var order []string
	tr.AddListener(func(v string) { order = append(order, "first:"+v) })
	remove := tr.AddListener(func(v string) { order = append(order, "second:"+v) })
	tr.AddListener(func(v string) { order = append(order, "third:"+v) })

	tr.SetTarget("a")
	sched.RunUntilIdle(time.Minute)
	assert.Equal(t, []string{"first:a", "second:a", "third:a"}, order)
	assert.Equal(t, []string{"a"}, rec.values, "primary callback fires too")

	remove()
	remove()
	order = nil
	tr.SetTarget("ab")
	sched.RunUntilIdle(time.Minute)
	assert.Equal(t, []string{"first:ab", "third:ab"}, order)
}

func TestListenerRemovingItselfDuringNotify(t *testing.T) {
	tr, sched, _ := newRecorded("")

	calls := 0
	var remove func()
	remove = tr.AddListener(func(string) {
		calls++
		remove()
	})
	other := 0
	tr.AddListener(func(string) { other++ })

	tr.SetTarget("abc")
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, other)
}

func TestGraphemeClustersMoveTogether(t *testing.T) {
	tr, sched, rec := newRecorded("")

	tr.SetTarget("é👍🏽!")
	sched.RunUntilIdle(time.Minute)

	assert.Equal(t, []string{"é", "é👍🏽", "é👍🏽!"}, rec.values)
}

func TestCombiningMarkMakesTextUnrelated(t *testing.T) {
	tr, sched, rec := newRecorded("cafe")

	// Byte-wise "cafe" prefixes the target, but its last character does not.
	tr.SetTarget("cafe\u0301")
	sched.RunUntilIdle(time.Minute)

	require.NotEmpty(t, rec.values)
	assert.Equal(t, "", rec.values[0])
	assert.Equal(t, "cafe\u0301", tr.Current())
}

func TestConvergence(t *testing.T) {
	pairs := []struct{ from, to string }{
		{"", "Hello, world"},
		{"Hello, world", ""},
		{"Hello", "Hello, world"},
		{"Hello, world", "Hello"},
		{strings.Repeat("a", 10), strings.Repeat("a", 3000)},
		{strings.Repeat("b", 3000), "b"},
	}
	durations := []time.Duration{0, time.Millisecond, 50 * time.Millisecond, time.Second, 10 * time.Second}

	for _, p := range pairs {
		for _, d := range durations {
			for _, perChar := range []bool{false, true} {
				tr, sched, rec := newRecorded(p.from,
					WithAnimationDuration(d),
					WithAnimatePerCharacter(perChar),
				)
				tr.SetTarget(p.to)
				sched.RunUntilIdle(24 * time.Hour)

				assert.Equal(t, p.to, tr.Current(), "from=%d to=%d d=%v per=%v", len(p.from), len(p.to), d, perChar)
				assert.False(t, tr.IsAnimating())
				lo, hi := min(len(p.from), len(p.to)), max(len(p.from), len(p.to))
				for _, v := range rec.values {
					assert.True(t, len(v) >= lo && len(v) <= hi, "length %d outside [%d, %d]", len(v), lo, hi)
				}
			}
		}
	}
}

func TestLogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr, sched, _ := newRecorded("", WithLogger(zap.New(core)))

	tr.SetTarget("ab")
	sched.RunUntilIdle(time.Minute)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "transition started", entries[0].Message)
	assert.Equal(t, int64(2), entries[0].ContextMap()["chars"])
	assert.Equal(t, "transition finished", entries[1].Message)
}
