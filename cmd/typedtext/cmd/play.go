package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/typedtext/internal/config"
	"github.com/go-drift/typedtext/pkg/animation"
	"github.com/go-drift/typedtext/pkg/typedtext"
)

var (
	playFlags settingsFlags
	playHold  time.Duration
)

func init() {
	playCmd := &cobra.Command{
		Use:   "play [text...]",
		Short: "Type each argument out in turn",
		Long: `Play types each argument out on a single terminal line, holding each
one before moving to the next. Without arguments the script from the
configuration file is played.

Example:
  typedtext play --duration 500ms "Hello" "Hello, world" "Goodbye"`,
		RunE: runPlay,
	}
	playFlags.register(playCmd)
	playCmd.Flags().DurationVar(&playHold, "hold", config.DefaultHold, "how long each text stays before the next")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings := playFlags.resolve(cmd, cfg)

	lines := cfg.Lines()
	if len(args) > 0 {
		lines = make([]config.Line, len(args))
		for i, a := range args {
			lines[i] = config.Line{Text: a, Hold: playHold}
		}
	} else if cmd.Flags().Changed("hold") {
		for i := range lines {
			lines[i].Hold = playHold
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("nothing to play: pass text arguments or add a script to %s", config.FileName)
	}

	logger.Debug("playing script",
		zap.Int("lines", len(lines)),
		zap.Duration("duration", settings.AnimationDuration),
		zap.Bool("per_character", settings.AnimatePerCharacter),
	)
	return play(cmd.Context(), cmd.OutOrStdout(), settings, lines)
}

// play runs lines through a transitioner on a LoopScheduler until the
// script ends or ctx is cancelled.
func play(ctx context.Context, w io.Writer, settings typedtext.Settings, lines []config.Line) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := animation.NewLoopScheduler()
	r := &lineRenderer{w: w}
	p := &player{sched: sched, lines: lines, done: cancel}
	p.text = typedtext.New("", sched,
		typedtext.WithSettings(settings),
		typedtext.WithLogger(logger),
		typedtext.WithOnUpdate(r.render),
	)
	p.text.AddListener(func(string) { p.settle() })

	go sched.Post(p.start)
	err := sched.Run(ctx)
	p.text.Dispose()
	fmt.Fprintln(w)

	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// player walks a script: it sets each line as the target and, once the
// display has caught up, holds it before moving on. It runs entirely on
// the scheduler loop.
type player struct {
	sched *animation.LoopScheduler
	text  *typedtext.Transitioner
	lines []config.Line
	index int
	hold  animation.Handle
	done  func()
}

func (p *player) start() {
	p.show(0)
}

func (p *player) show(i int) {
	if i >= len(p.lines) {
		p.done()
		return
	}
	p.index = i
	p.text.SetTarget(p.lines[i].Text)
	p.settle()
}

// settle starts the hold timer once the display matches the target.
func (p *player) settle() {
	if p.hold != 0 || p.text.Current() != p.text.Target() {
		return
	}
	p.hold = p.sched.ScheduleRepeating(p.lines[p.index].Hold, func() {
		p.sched.Cancel(p.hold)
		p.hold = 0
		p.show(p.index + 1)
	})
}

// lineRenderer redraws a single terminal line in place.
type lineRenderer struct {
	w     io.Writer
	width int
}

func (r *lineRenderer) render(s string) {
	width := runewidth.StringWidth(s)
	if pad := r.width - width; pad > 0 {
		// Blank out what the previous, wider text left behind.
		fmt.Fprintf(r.w, "\r%s%s\r%s", s, strings.Repeat(" ", pad), s)
	} else {
		fmt.Fprintf(r.w, "\r%s", s)
	}
	r.width = width
}
