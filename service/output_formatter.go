package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/reporter"
)

// OutputFormatterImpl writes analysis, validation and check results
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes an analysis result. The text format is the canonical report
// and carries nothing else, so a saved text report always validates.
func (f *OutputFormatterImpl) Write(result *domain.AnalysisResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return reporter.WriteReport(writer, result)
	case domain.OutputFormatJSON:
		return wrapOutput(WriteJSON(writer, result))
	case domain.OutputFormatYAML:
		return wrapOutput(WriteYAML(writer, result))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// gradeColors maps the first letter of a grade to an ANSI 256 color
var gradeColors = map[byte]string{
	'A': "42",
	'B': "78",
	'C': "220",
	'D': "208",
	'F': "196",
}

// WriteGradeBanner writes the grade summary box. Colors are only emitted
// when the writer is a terminal that supports them.
func (f *OutputFormatterImpl) WriteGradeBanner(result *domain.AnalysisResult, writer io.Writer) error {
	grade := result.Grade
	color := "245"
	if grade.Letter != "" && grade.Letter != domain.GradeNotApplicable {
		if c, ok := gradeColors[grade.Letter[0]]; ok {
			color = c
		}
	}

	renderer := lipgloss.NewRenderer(writer)
	letter := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	box := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Grade: %s (%.1f/100)\n", letter.Render(grade.Letter), grade.NumericScore)
	fmt.Fprintf(&sb, "%d issues in %d files, %d lines of code (%.2f issues/KLOC)\n",
		result.TotalIssues(), result.TotalFiles, result.TotalLOC, grade.IssueDensity)
	fmt.Fprintf(&sb, "%d classes, %d methods, %d branches\n",
		result.TotalClasses, result.TotalMethods, result.ComplexityProxy)
	sb.WriteString(grade.Recommendation)

	_, err := fmt.Fprintln(writer, box.Render(sb.String()))
	return wrapOutput(err)
}

// WriteValidation writes the outcome of validating a report
func (f *OutputFormatterImpl) WriteValidation(result domain.ValidationResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return wrapOutput(WriteJSON(writer, result))
	case domain.OutputFormatYAML:
		return wrapOutput(WriteYAML(writer, result))
	case domain.OutputFormatText, "":
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	var sb strings.Builder
	if result.IsValid {
		fmt.Fprintf(&sb, "Report is valid: %d issues in %d files\n",
			len(result.ExtractedData.Issues), len(result.ExtractedData.FileCounts))
	} else {
		fmt.Fprintf(&sb, "Report is invalid (%d errors):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
	}
	_, err := io.WriteString(writer, sb.String())
	return wrapOutput(err)
}

// WriteHighlight writes a highlight map as JSON or YAML
func (f *OutputFormatterImpl) WriteHighlight(highlights domain.HighlightMap, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatYAML:
		return wrapOutput(WriteYAML(writer, highlights))
	case domain.OutputFormatJSON, domain.OutputFormatText, "":
		return wrapOutput(WriteJSON(writer, highlights))
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteCheck writes the outcome of a quality gate run
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return wrapOutput(WriteJSON(writer, result))
	case domain.OutputFormatYAML:
		return wrapOutput(WriteYAML(writer, result))
	case domain.OutputFormatText, "":
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	var sb strings.Builder
	s := result.Summary
	fmt.Fprintf(&sb, "Grade %s (%.1f), %d issues, %d critical, %d files\n",
		s.Grade, s.Score, s.TotalIssues, s.Critical, s.FilesAnalyzed)
	if result.Passed {
		sb.WriteString("Check passed\n")
	} else {
		sb.WriteString("Check failed:\n")
		for _, v := range result.Violations {
			fmt.Fprintf(&sb, "  - [%s] %s\n", v.Rule, v.Message)
		}
	}
	_, err := io.WriteString(writer, sb.String())
	return wrapOutput(err)
}

func wrapOutput(err error) error {
	if err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}
