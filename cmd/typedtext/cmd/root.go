// Package cmd implements the typedtext CLI commands.
//
// The root command owns logging and configuration; subcommands (play, tui,
// plan, version) register themselves in init.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/typedtext/internal/config"
	"github.com/go-drift/typedtext/pkg/errors"
	"github.com/go-drift/typedtext/pkg/typedtext"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	verbose    bool
	logFile    string
	configPath string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "typedtext",
	Short: "Animate text toward a target, a few characters at a time",
	Long: `typedtext types text out in the terminal.

Each new target grows or shrinks the displayed text toward it over a fixed
duration. Unrelated text is cleared first and typed from scratch.

Settings are read from typedtext.yaml in the current directory (or --config)
and can be overridden with flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			cfg.OutputPaths = []string{logFile}
			cfg.ErrorOutputPaths = []string{logFile}
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		errors.SetHandler(errors.NewLogHandler(logger, verbose))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./"+config.FileName+")")
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads --config, or typedtext.yaml from the working directory
// when present.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadOptional(".")
}

// settingsFlags are the transition flags shared by play, tui and plan.
type settingsFlags struct {
	duration     time.Duration
	perCharacter bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVarP(&f.duration, "duration", "d", typedtext.DefaultAnimationDuration,
		"transition duration, or per-character delay with --per-char; negative disables animation")
	cmd.Flags().BoolVar(&f.perCharacter, "per-char", false, "apply the duration to each character")
}

// resolve layers explicitly set flags over the configuration file.
func (f *settingsFlags) resolve(cmd *cobra.Command, cfg *config.Config) typedtext.Settings {
	s := cfg.Settings()
	if cmd.Flags().Changed("duration") {
		s.AnimationDuration = f.duration
	}
	if cmd.Flags().Changed("per-char") {
		s.AnimatePerCharacter = f.perCharacter
	}
	return s
}
