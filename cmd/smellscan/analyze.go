package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/detector"
	"github.com/ludo-technologies/smellscan/service"
)

// runOptions are the flags shared by analyze and check
type runOptions struct {
	configPath string
	format     string
	selected   []string
	disabled   []string
	noProgress bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file (default: discovered from the target upwards)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "",
		"Output format: text, json, yaml (default: from config)")
	cmd.Flags().StringSliceVarP(&o.selected, "select", "s", nil,
		"Run only these detectors (comma-separated)")
	cmd.Flags().StringSliceVarP(&o.disabled, "disable", "d", nil,
		"Disable these detectors (comma-separated)")
	cmd.Flags().BoolVar(&o.noProgress, "no-progress", false,
		"Disable the progress bar")
}

// analysisRun is a configured analysis ready to execute
type analysisRun struct {
	cfg      *config.Config
	useCase  *app.AnalyzeUseCase
	settings app.AnalyzeConfig
	progress domain.ProgressManager
}

// prepareRun loads the configuration for the first path and wires the
// services of one analysis run
func prepareRun(opts *runOptions, paths []string, showProgress bool) (*analysisRun, error) {
	loader := service.NewConfigurationLoader(logger)

	var cfg *config.Config
	if opts.configPath != "" {
		loaded, err := loader.LoadConfig(opts.configPath, paths[0])
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = loader.LoadDefaultConfig(paths[0])
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := detector.DefaultRegistry()
	detectors := loader.DetectorConfig(cfg, service.DetectorSelection{
		Select:  opts.selected,
		Disable: opts.disabled,
	}, registry.Names())

	progress := service.NewProgressManager(showProgress && !opts.noProgress)
	executor := service.NewParallelExecutorWithProgress(&cfg.Performance, progress)

	useCase, err := app.NewAnalyzeUseCaseBuilder().
		WithService(service.NewAnalysisService(registry, nil, executor, logger)).
		WithFormatter(service.NewOutputFormatter()).
		WithFileHelper(app.NewFileHelper(app.WithGitignore(cfg.Analysis.RespectGitignore))).
		Build()
	if err != nil {
		progress.Close()
		return nil, err
	}

	settings := app.DefaultAnalyzeConfig()
	settings.Detectors = detectors
	settings.IncludePatterns = cfg.Analysis.IncludePatterns
	settings.ExcludePatterns = cfg.Analysis.ExcludePatterns
	settings.Concurrency = cfg.Performance.MaxGoroutines
	settings.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	settings.ShowGrade = cfg.Output.ShowGrade

	return &analysisRun{cfg: cfg, useCase: useCase, settings: settings, progress: progress}, nil
}

func analyzeCmd() *cobra.Command {
	opts := &runOptions{}
	var outputPath string

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze Java files for code smells",
		Long: `Analyze Java files for code smells and print the canonical report.

The text report can be saved with --output and checked later with
'smellscan validate'. The grade summary goes to stderr unless the report
is written to a file.

Examples:
  smellscan analyze src/
  smellscan analyze --select magic-number,long-method src/
  smellscan analyze --disable long-identifier --format json src/
  smellscan analyze --output report.txt .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, outputPath, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *runOptions, outputPath string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	run, err := prepareRun(opts, args, true)
	if err != nil {
		return err
	}
	defer run.progress.Close()

	var out io.Writer = cmd.OutOrStdout()
	banner := cmd.ErrOrStderr()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return domain.NewOutputError("failed to create output file", err)
		}
		defer file.Close()
		out = file
		banner = cmd.OutOrStdout()
	}
	run.settings.OutputWriter = out
	run.settings.BannerWriter = banner

	result, err := run.useCase.Execute(cmd.Context(), run.settings, args)
	if err != nil {
		return err
	}

	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report with %d issues saved to %s\n", result.TotalIssues(), outputPath)
	}
	return nil
}
