package domain

// CheckResult represents the result of a quality gate run
type CheckResult struct {
	Passed      bool             `json:"passed" yaml:"passed"`
	ExitCode    int              `json:"exit_code" yaml:"exit_code"`
	Violations  []CheckViolation `json:"violations" yaml:"violations"`
	Summary     CheckSummary     `json:"summary" yaml:"summary"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Rule      string `json:"rule" yaml:"rule"`                               // min-grade, max-critical
	Message   string `json:"message" yaml:"message"`                         // Human-readable description
	Actual    string `json:"actual" yaml:"actual"`                           // Actual value
	Threshold string `json:"threshold,omitempty" yaml:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed int     `json:"files_analyzed" yaml:"files_analyzed"`
	TotalIssues   int     `json:"total_issues" yaml:"total_issues"`
	Critical      int     `json:"critical" yaml:"critical"`
	Grade         string  `json:"grade" yaml:"grade"`
	Score         float64 `json:"score" yaml:"score"`
}

// CheckRequest holds the quality gate thresholds
type CheckRequest struct {
	MinGrade string

	// MaxCritical is the number of Critical issues tolerated; negative disables the rule
	MaxCritical int
}
