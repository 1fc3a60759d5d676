package detector

import (
	"fmt"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// LongMethodDetector flags methods and constructors spanning too many lines
type LongMethodDetector struct{}

// NewLongMethodDetector creates the long-method detector
func NewLongMethodDetector() *LongMethodDetector {
	return &LongMethodDetector{}
}

func (d *LongMethodDetector) Name() string              { return "long-method" }
func (d *LongMethodDetector) Kind() domain.DetectorKind { return domain.KindLongMethod }
func (d *LongMethodDetector) Family() Family            { return FamilyTree }

func (d *LongMethodDetector) Defaults() Thresholds {
	return Thresholds{"max_lines": 50}
}

func (d *LongMethodDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxLines := settings.Int("max_lines")
	if maxLines <= 0 {
		return nil, nil
	}

	var issues []domain.Issue
	for _, callable := range callables(src.Tree) {
		lines := callable.Location.EndLine - callable.Location.StartLine + 1
		if lines <= maxLines {
			continue
		}
		issues = append(issues, newIssue(d.Kind(), src, callable.Location.StartLine, escalate(lines, maxLines),
			fmt.Sprintf("Method '%s' is %s long (max %d)", callable.Name, plural(lines, "line"), maxLines),
			"Extract cohesive blocks into well-named helper methods",
			fmt.Sprintf("spans lines %d-%d", callable.Location.StartLine, callable.Location.EndLine)))
	}

	return sortByLine(issues), nil
}
