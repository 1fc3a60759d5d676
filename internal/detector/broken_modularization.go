package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

var publicFieldPattern = regexp.MustCompile(
	`^\s*public\s+(?:(?:static|final|transient|volatile)\s+)*[\w.$<>\[\],? ]+?\s+[\w$]+\s*(?:=[^;]*)?;`)

// BrokenModularizationDetector flags files that import too much or expose
// too many public fields
type BrokenModularizationDetector struct{}

// NewBrokenModularizationDetector creates the broken-modularization detector
func NewBrokenModularizationDetector() *BrokenModularizationDetector {
	return &BrokenModularizationDetector{}
}

func (d *BrokenModularizationDetector) Name() string { return "broken-modularization" }
func (d *BrokenModularizationDetector) Kind() domain.DetectorKind {
	return domain.KindBrokenModularization
}
func (d *BrokenModularizationDetector) Family() Family { return FamilyStructural }

func (d *BrokenModularizationDetector) Defaults() Thresholds {
	return Thresholds{"max_imports": 10, "max_public_fields": 5}
}

// Detect reports at most one coupling issue and one encapsulation issue per file
func (d *BrokenModularizationDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxImports := settings.Int("max_imports")
	maxFields := settings.Int("max_public_fields")

	imports, firstImport := 0, 0
	fields, firstField := 0, 0
	for i, code := range src.CodeLines() {
		trimmed := strings.TrimSpace(code)
		switch {
		case strings.HasPrefix(trimmed, "import "):
			imports++
			if firstImport == 0 {
				firstImport = i + 1
			}
		case publicFieldPattern.MatchString(code):
			fields++
			if firstField == 0 {
				firstField = i + 1
			}
		}
	}

	var issues []domain.Issue
	if maxImports > 0 && imports > maxImports {
		issues = append(issues, newIssue(d.Kind(), src, firstImport, escalate(imports, maxImports),
			fmt.Sprintf("High coupling: %s (max %d)", plural(imports, "import"), maxImports),
			"Split the file so each part depends on fewer packages",
			fmt.Sprintf("%d import declarations", imports)))
	}
	if maxFields > 0 && fields > maxFields {
		issues = append(issues, newIssue(d.Kind(), src, firstField, escalate(fields, maxFields),
			fmt.Sprintf("Low encapsulation: %s (max %d)", plural(fields, "public field"), maxFields),
			"Make fields private and expose behaviour through methods",
			fmt.Sprintf("%d public field declarations", fields)))
	}

	return sortByLine(issues), nil
}

// escalate returns High when count is more than twice the limit, Medium otherwise
func escalate(count, limit int) domain.Severity {
	if count > 2*limit {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}
