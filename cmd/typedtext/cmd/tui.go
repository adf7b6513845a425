package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/typedtext/internal/tui"
)

var (
	tuiFlags   settingsFlags
	tuiInitial string
)

func init() {
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive transition playground",
		Long: `Tui opens an interactive playground. Type a new target and press enter
to watch the display transition to it.

Keys:
  enter    set target
  tab      cycle duration (250ms, 1s, 3s, instant)
  ctrl+p   toggle per-character mode
  ctrl+s   skip to the target
  esc      quit`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
	tuiFlags.register(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiInitial, "initial", "", "text displayed at start")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the screen; only log to a file.
	l := zap.NewNop()
	if logFile != "" {
		l = logger
	}

	return tui.Run(cmd.Context(), tui.Options{
		Initial:  tuiInitial,
		Settings: tuiFlags.resolve(cmd, cfg),
		Logger:   l,
	})
}
