package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/typedtext/internal/grapheme"
	"github.com/go-drift/typedtext/pkg/typedtext"
)

var (
	planFlags settingsFlags
	planFrom  string
	planTo    string
)

func init() {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the timing plan for a transition",
		Long: `Plan prints how a transition from --from to --to would be timed:
characters moved, characters per tick, tick interval, and tick count.

Example:
  typedtext plan --to "$(printf 'x%.0s' {1..1000})" --duration 1s`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}
	planFlags.register(planCmd)
	planCmd.Flags().StringVar(&planFrom, "from", "", "text currently displayed")
	planCmd.Flags().StringVar(&planTo, "to", "", "target text")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s := planFlags.resolve(cmd, cfg)
	out := cmd.OutOrStdout()

	if s.AnimationDuration < 0 {
		fmt.Fprintln(out, "animation disabled: the target is shown immediately")
		return nil
	}

	from, to := planFrom, planTo
	// Unrelated text is cleared before typing starts.
	if !related(from, to) {
		fmt.Fprintf(out, "%-14s %s\n", "reset", "display cleared first")
		from = ""
	}

	plan := typedtext.NewPlan(s.AnimationDuration, grapheme.Count(from), grapheme.Count(to))
	perTick := typedtext.CharactersPerTick(&plan, s.AnimatePerCharacter)
	interval := typedtext.TickInterval(&plan, s.AnimatePerCharacter, s.AnimationDuration)
	ticks := typedtext.Ticks(&plan, s.AnimatePerCharacter)

	fmt.Fprintf(out, "%-14s %d\n", "characters", plan.CharactersToAnimate)
	fmt.Fprintf(out, "%-14s %s\n", "duration", s.AnimationDuration)
	fmt.Fprintf(out, "%-14s %t\n", "per character", s.AnimatePerCharacter)
	fmt.Fprintf(out, "%-14s %d\n", "per tick", perTick)
	fmt.Fprintf(out, "%-14s %s\n", "interval", interval)
	fmt.Fprintf(out, "%-14s %d\n", "ticks", ticks)
	fmt.Fprintf(out, "%-14s %s\n", "total", time.Duration(ticks)*interval)
	return nil
}

func related(from, to string) bool {
	a, b := grapheme.Split(from), grapheme.Split(to)
	if len(a) < len(b) {
		return grapheme.HasPrefix(b, a)
	}
	return grapheme.HasPrefix(a, b)
}
