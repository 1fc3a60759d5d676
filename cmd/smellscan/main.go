package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ludo-technologies/smellscan/internal/version"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version

	verbose bool
	logger  = zap.NewNop()
)

// ExitError carries a process exit code out of a command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smellscan",
		Short: "smellscan - Java code smell detector",
		Long: `smellscan detects code smells in Java sources and grades the code base.

It runs lexical, structural and syntax tree detectors over every file,
writes a canonical text report that can be validated later, and computes
a letter grade from the issue density.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(checkCmd())
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(highlightCmd())
	cmd.AddCommand(detectorsCmd())
	cmd.AddCommand(initCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// newLogger builds the console logger used by every command. Logs go to
// stderr so stdout only ever carries the report.
func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			full, _ := cmd.Flags().GetBool("full")
			if full {
				fmt.Fprintf(cmd.OutOrStdout(), "smellscan %s\n", version.Get())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "smellscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().Bool("full", false, "Show detailed version information")
	return cmd
}
