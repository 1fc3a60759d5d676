package domain

import (
	"context"
	"io"
	"sort"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// DetectorSettings holds the per-detector part of a DetectorConfig
type DetectorSettings struct {
	// Enabled is nil when the detector is not mentioned; nil means enabled
	Enabled *bool `json:"enabled,omitempty" mapstructure:"enabled" yaml:"enabled,omitempty"`

	// Thresholds are named numeric parameters consumed verbatim by the detector
	Thresholds map[string]float64 `json:"thresholds,omitempty" mapstructure:"thresholds" yaml:"thresholds,omitempty"`
}

// DetectorConfig maps detector names to their settings.
// It is supplied once per analysis run and never mutated during the run.
type DetectorConfig map[string]DetectorSettings

// IsEnabled reports whether the named detector should run.
// Unknown or unlisted detector names default to enabled.
func (c DetectorConfig) IsEnabled(name string) bool {
	s, ok := c[name]
	if !ok || s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Thresholds returns the thresholds configured for the named detector (may be nil)
func (c DetectorConfig) Thresholds(name string) map[string]float64 {
	return c[name].Thresholds
}

// BoolPtr returns a pointer to the given bool value
func BoolPtr(b bool) *bool {
	return &b
}

// AnalyzeRequest describes one analysis run
type AnalyzeRequest struct {
	// Root is the project path; reported file paths are relative to it
	Root string

	// Files to analyze. When empty the files are collected from Root.
	Files []string

	// IncludePatterns and ExcludePatterns are handed to the file collector
	IncludePatterns []string
	ExcludePatterns []string

	// Detectors holds the detector configuration for this run
	Detectors DetectorConfig

	// Concurrency bounds the number of files analyzed at once (<= 0 means default)
	Concurrency int
}

// AnalysisResult is the aggregate outcome of an analysis run.
// It is built by the orchestrator and treated as immutable afterwards.
type AnalysisResult struct {
	RunID string `json:"run_id" yaml:"run_id"`
	Root  string `json:"root" yaml:"root"`

	Issues []Issue `json:"issues" yaml:"issues"`

	TotalFiles     int `json:"total_files" yaml:"total_files"`
	ProcessedFiles int `json:"processed_files" yaml:"processed_files"`

	SeverityCounts map[Severity]int     `json:"severity_counts" yaml:"severity_counts"`
	DetectorCounts map[DetectorKind]int `json:"detector_counts" yaml:"detector_counts"`

	TotalLOC        int `json:"total_loc" yaml:"total_loc"`
	TotalClasses    int `json:"total_classes" yaml:"total_classes"`
	TotalMethods    int `json:"total_methods" yaml:"total_methods"`
	ComplexityProxy int `json:"complexity_proxy" yaml:"complexity_proxy"`

	Grade GradeResult `json:"grade" yaml:"grade"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
}

// NewAnalysisResult returns an empty result with initialised count maps
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Issues:         []Issue{},
		SeverityCounts: make(map[Severity]int),
		DetectorCounts: make(map[DetectorKind]int),
	}
}

// AddIssue appends an issue and updates the severity and detector counts
func (r *AnalysisResult) AddIssue(issue Issue) {
	if r.SeverityCounts == nil {
		r.SeverityCounts = make(map[Severity]int)
	}
	if r.DetectorCounts == nil {
		r.DetectorCounts = make(map[DetectorKind]int)
	}
	r.Issues = append(r.Issues, issue)
	r.SeverityCounts[ClassifySeverity(issue.Severity)]++
	r.DetectorCounts[issue.Kind]++
}

// TotalIssues returns the number of issues in the result
func (r *AnalysisResult) TotalIssues() int {
	return len(r.Issues)
}

// FileCounts groups issue counts per file and severity
func (r *AnalysisResult) FileCounts() map[string]FileCount {
	counts := make(map[string]FileCount)
	for _, issue := range r.Issues {
		fc := counts[issue.File]
		if fc.BySeverity == nil {
			fc.BySeverity = make(map[Severity]int)
		}
		fc.Total++
		fc.BySeverity[ClassifySeverity(issue.Severity)]++
		counts[issue.File] = fc
	}
	return counts
}

// SortedFiles returns the files that carry issues, in path order
func (r *AnalysisResult) SortedFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, issue := range r.Issues {
		if !seen[issue.File] {
			seen[issue.File] = true
			files = append(files, issue.File)
		}
	}
	sort.Strings(files)
	return files
}

// FileCount holds the issue counts of one file
type FileCount struct {
	Total      int              `json:"total" yaml:"total"`
	BySeverity map[Severity]int `json:"by_severity" yaml:"by_severity"`
}

// AnalysisService defines the orchestrator contract
type AnalysisService interface {
	// Analyze runs the enabled detectors over every file of the request
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
}

// FileCollector discovers analyzable files under a root path
type FileCollector interface {
	CollectSourceFiles(paths []string, includePatterns, excludePatterns []string) ([]string, error)
}

// OutputFormatter writes an analysis result in one of the output formats
type OutputFormatter interface {
	// Write writes the result in the given format
	Write(result *AnalysisResult, format OutputFormat, writer io.Writer) error

	// WriteGradeBanner writes a human readable grade summary
	WriteGradeBanner(result *AnalysisResult, writer io.Writer) error
}
