package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/smellscan/domain"
)

// AnalyzeConfig holds configuration for the analyze use case
type AnalyzeConfig struct {
	// Detectors is the per-detector configuration of the run
	Detectors domain.DetectorConfig

	// File options
	IncludePatterns []string
	ExcludePatterns []string

	// Performance options
	Concurrency int
	Timeout     time.Duration

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer

	// BannerWriter receives the grade summary when ShowGrade is set.
	// It is kept apart from OutputWriter so a saved text report stays canonical.
	ShowGrade    bool
	BannerWriter io.Writer
}

// DefaultAnalyzeConfig returns default configuration
func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		Detectors:    domain.DetectorConfig{},
		OutputFormat: domain.OutputFormatText,
		ShowGrade:    true,
	}
}

// AnalyzeUseCase collects Java files, runs the analysis and writes the result
type AnalyzeUseCase struct {
	service    domain.AnalysisService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase(service domain.AnalysisService, formatter domain.OutputFormatter) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute analyzes the Java files found under paths. A path that cannot be
// read contributes no files; with no files at all the result is empty and
// graded N/A.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, config AnalyzeConfig, paths []string) (*domain.AnalysisResult, error) {
	if len(paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths specified", nil)
	}

	files, err := uc.fileHelper.CollectSourceFiles(paths, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, domain.NewFileNotFoundError(paths[0], err)
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	req := domain.AnalyzeRequest{
		Files:           files,
		IncludePatterns: config.IncludePatterns,
		ExcludePatterns: config.ExcludePatterns,
		Detectors:       config.Detectors,
		Concurrency:     config.Concurrency,
	}
	// Reported paths are relative to a single root; with several roots they stay as given
	if len(paths) == 1 {
		req.Root = paths[0]
	}

	result, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("analysis failed", err)
	}

	if err := uc.writeOutput(result, config); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *AnalyzeUseCase) writeOutput(result *domain.AnalysisResult, config AnalyzeConfig) error {
	if uc.formatter == nil {
		return nil
	}
	if config.OutputWriter != nil {
		if err := uc.formatter.Write(result, config.OutputFormat, config.OutputWriter); err != nil {
			return err
		}
	}
	textOutput := config.OutputFormat == domain.OutputFormatText || config.OutputFormat == ""
	if config.ShowGrade && textOutput && config.BannerWriter != nil {
		return uc.formatter.WriteGradeBanner(result, config.BannerWriter)
	}
	return nil
}

// AnalyzeUseCaseBuilder builds an AnalyzeUseCase
type AnalyzeUseCaseBuilder struct {
	service    domain.AnalysisService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewAnalyzeUseCaseBuilder creates a new builder
func NewAnalyzeUseCaseBuilder() *AnalyzeUseCaseBuilder {
	return &AnalyzeUseCaseBuilder{}
}

// WithService sets the analysis service
func (b *AnalyzeUseCaseBuilder) WithService(service domain.AnalysisService) *AnalyzeUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *AnalyzeUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *AnalyzeUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *AnalyzeUseCaseBuilder) WithFileHelper(fh *FileHelper) *AnalyzeUseCaseBuilder {
	b.fileHelper = fh
	return b
}

// Build creates the AnalyzeUseCase
func (b *AnalyzeUseCaseBuilder) Build() (*AnalyzeUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("analysis service is required")
	}

	uc := &AnalyzeUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
