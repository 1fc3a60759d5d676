package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/reporter"
)

func sampleResult() *domain.AnalysisResult {
	result := domain.NewAnalysisResult()
	result.TotalFiles = 2
	result.ProcessedFiles = 2
	result.TotalLOC = 400
	result.AddIssue(domain.Issue{
		Kind:       domain.KindMagicNumber,
		File:       "src/A.java",
		Line:       12,
		Severity:   domain.SeverityLow,
		Message:    "Magic number 42 found",
		Suggestion: "Replace with a named constant",
	})
	result.AddIssue(domain.Issue{
		Kind:     domain.KindResourceLeak,
		File:     "src/B.java",
		Line:     3,
		Severity: domain.SeverityHigh,
		Message:  "Resource 'in' acquired in 'read' is never closed",
	})
	result.Grade = domain.CalculateGrade(result.SeverityCounts, result.TotalLOC)
	return result
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]interface{}{"name": "test", "value": 42}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test", decoded["name"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, map[string]int{"value": 42}))
	assert.Equal(t, "value: 42\n", buf.String())
}

func TestOutputFormatter_WriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleResult(), domain.OutputFormatText, &buf))

	assert.Equal(t, reporter.Render(sampleResult()), buf.String())
	assert.True(t, reporter.Validate(buf.String()).IsValid)
}

func TestOutputFormatter_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleResult(), domain.OutputFormatJSON, &buf))

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Issues, 2)
	assert.Equal(t, 1, decoded.SeverityCounts[domain.SeverityHigh])
	assert.Equal(t, sampleResult().Grade.Letter, decoded.Grade.Letter)
}

func TestOutputFormatter_WriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().Write(sampleResult(), domain.OutputFormatYAML, &buf))

	var decoded domain.AnalysisResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Issues, 2)
	assert.Equal(t, domain.KindResourceLeak, decoded.Issues[1].Kind)
	assert.Equal(t, 400, decoded.TotalLOC)
}

func TestOutputFormatter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleResult(), domain.OutputFormat("html"), &buf)

	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, domainErr.Code)
}

func TestOutputFormatter_WriteGradeBanner(t *testing.T) {
	result := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().WriteGradeBanner(result, &buf))

	out := buf.String()
	assert.Contains(t, out, "Grade: "+result.Grade.Letter)
	assert.Contains(t, out, "2 issues in 2 files, 400 lines of code")
	assert.Contains(t, out, result.Grade.Recommendation)
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
}

func TestOutputFormatter_WriteGradeBannerNotApplicable(t *testing.T) {
	result := domain.NewAnalysisResult()
	result.Grade = domain.CalculateGrade(result.SeverityCounts, 0)

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().WriteGradeBanner(result, &buf))
	assert.Contains(t, buf.String(), "Grade: N/A")
}

func TestOutputFormatter_WriteValidation(t *testing.T) {
	formatter := NewOutputFormatter()

	var valid bytes.Buffer
	require.NoError(t, formatter.WriteValidation(reporter.Validate(reporter.Render(sampleResult())), domain.OutputFormatText, &valid))
	assert.Equal(t, "Report is valid: 2 issues in 2 files\n", valid.String())

	broken := strings.Replace(reporter.Render(sampleResult()), "High: 1", "High: 3", 1)
	var invalid bytes.Buffer
	require.NoError(t, formatter.WriteValidation(reporter.Validate(broken), domain.OutputFormatText, &invalid))
	assert.True(t, strings.HasPrefix(invalid.String(), "Report is invalid"))
	assert.Contains(t, invalid.String(), "severity count mismatch for High: declared 3, found 1 issues")

	var asJSON bytes.Buffer
	require.NoError(t, formatter.WriteValidation(reporter.Validate(broken), domain.OutputFormatJSON, &asJSON))
	var decoded domain.ValidationResult
	require.NoError(t, json.Unmarshal(asJSON.Bytes(), &decoded))
	assert.False(t, decoded.IsValid)
	assert.NotEmpty(t, decoded.Errors)
}

func TestOutputFormatter_WriteHighlight(t *testing.T) {
	highlights := domain.HighlightMap{
		"src/A.java": {domain.KindMagicNumber: {3, 12}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().WriteHighlight(highlights, domain.OutputFormatText, &buf))

	var decoded map[string]map[string][]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []int{3, 12}, decoded["src/A.java"]["MagicNumber"])
}

func TestOutputFormatter_WriteCheck(t *testing.T) {
	result := &domain.CheckResult{
		Passed: false,
		Violations: []domain.CheckViolation{
			{Rule: "min-grade", Message: "grade D is below B"},
		},
		Summary: domain.CheckSummary{Grade: "D", Score: 64, TotalIssues: 9, FilesAnalyzed: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, NewOutputFormatter().WriteCheck(result, domain.OutputFormatText, &buf))
	assert.Contains(t, buf.String(), "Check failed:")
	assert.Contains(t, buf.String(), "[min-grade] grade D is below B")
}
