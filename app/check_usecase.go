package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ludo-technologies/smellscan/domain"
)

// Check rules
const (
	RuleMinGrade    = "min-grade"
	RuleMaxCritical = "max-critical"
)

// Check exit codes
const (
	ExitCheckPassed   = 0
	ExitCheckViolated = 1
	ExitCheckError    = 2
)

// CheckUseCase runs an analysis and evaluates it against quality gate thresholds
type CheckUseCase struct {
	analyze *AnalyzeUseCase
}

// NewCheckUseCase creates a check use case on top of an analyze use case
func NewCheckUseCase(analyze *AnalyzeUseCase) *CheckUseCase {
	return &CheckUseCase{analyze: analyze}
}

// Execute analyzes paths and evaluates the result. The analyze configuration
// should not carry an output writer; the check result is the output.
func (uc *CheckUseCase) Execute(ctx context.Context, config AnalyzeConfig, req domain.CheckRequest, paths []string) (*domain.CheckResult, error) {
	if req.MinGrade != "" && !domain.IsValidGrade(req.MinGrade) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid minimum grade %q", req.MinGrade), nil)
	}

	start := time.Now()
	result, err := uc.analyze.Execute(ctx, config, paths)
	if err != nil {
		return nil, err
	}

	check := EvaluateCheck(result, req)
	check.Duration = time.Since(start).Milliseconds()
	return check, nil
}

// EvaluateCheck applies the min-grade and max-critical rules to an analysis result
func EvaluateCheck(result *domain.AnalysisResult, req domain.CheckRequest) *domain.CheckResult {
	critical := result.SeverityCounts[domain.SeverityCritical]

	check := &domain.CheckResult{
		Passed:     true,
		ExitCode:   ExitCheckPassed,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilesAnalyzed: result.TotalFiles,
			TotalIssues:   result.TotalIssues(),
			Critical:      critical,
			Grade:         result.Grade.Letter,
			Score:         result.Grade.NumericScore,
		},
		Duration:    result.DurationMs,
		GeneratedAt: result.GeneratedAt,
		Version:     result.Version,
	}

	if req.MinGrade != "" && !result.Grade.MeetsGrade(req.MinGrade) {
		check.Violations = append(check.Violations, domain.CheckViolation{
			Rule:      RuleMinGrade,
			Message:   fmt.Sprintf("grade %s is below the minimum %s", result.Grade.Letter, req.MinGrade),
			Actual:    result.Grade.Letter,
			Threshold: req.MinGrade,
		})
	}

	if req.MaxCritical >= 0 && critical > req.MaxCritical {
		check.Violations = append(check.Violations, domain.CheckViolation{
			Rule:      RuleMaxCritical,
			Message:   fmt.Sprintf("%d critical issues found, at most %d allowed", critical, req.MaxCritical),
			Actual:    strconv.Itoa(critical),
			Threshold: strconv.Itoa(req.MaxCritical),
		})
	}

	if len(check.Violations) > 0 {
		check.Passed = false
		check.ExitCode = ExitCheckViolated
	}
	return check
}
