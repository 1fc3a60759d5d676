package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/service"
)

func checkCmd() *cobra.Command {
	opts := &runOptions{}
	var minGrade string
	var maxCritical int

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Quality gate for CI/CD pipelines",
		Long: `Analyze Java files and fail when the result misses the quality gate.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (bad configuration, unreadable output, ...)

Examples:
  # Gate on the grade from the configuration (default C)
  smellscan check src/

  # Require a B and no critical issues
  smellscan check --min-grade B --max-critical 0 src/

  # JSON output for machine parsing
  smellscan check --format json src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, minGrade, maxCritical, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&minGrade, "min-grade", "",
		"Weakest accepted letter grade (default: grading.min_grade from config)")
	cmd.Flags().IntVar(&maxCritical, "max-critical", -1,
		"Maximum number of Critical issues (negative disables the rule)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *runOptions, minGrade string, maxCritical int, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: app.ExitCheckError, Message: "no paths specified"}
	}

	run, err := prepareRun(opts, args, true)
	if err != nil {
		return &ExitError{Code: app.ExitCheckError, Message: err.Error()}
	}
	defer run.progress.Close()

	req := domain.CheckRequest{
		MinGrade:    run.cfg.Grading.MinGrade,
		MaxCritical: run.cfg.Grading.MaxCritical,
	}
	if cmd.Flags().Changed("min-grade") {
		req.MinGrade = minGrade
	}
	if cmd.Flags().Changed("max-critical") {
		req.MaxCritical = maxCritical
	}

	// The check result replaces the report on stdout
	settings := run.settings
	settings.OutputWriter = nil
	settings.BannerWriter = nil

	result, err := app.NewCheckUseCase(run.useCase).Execute(cmd.Context(), settings, req, args)
	if err != nil {
		return &ExitError{Code: app.ExitCheckError, Message: err.Error()}
	}

	if err := service.NewOutputFormatter().WriteCheck(result, settings.OutputFormat, cmd.OutOrStdout()); err != nil {
		return &ExitError{Code: app.ExitCheckError, Message: err.Error()}
	}
	if !result.Passed {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}
