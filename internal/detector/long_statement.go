package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
	"github.com/mattn/go-runewidth"
)

var chainCallPattern = regexp.MustCompile(`\.\s*[A-Za-z_$][\w$]*\s*\(`)

const operatorChars = "+-*/%<>=!"

// LongStatementDetector flags lines that are too wide, carry too many operators
// or chain too many method calls
type LongStatementDetector struct{}

// NewLongStatementDetector creates the long-statement detector
func NewLongStatementDetector() *LongStatementDetector {
	return &LongStatementDetector{}
}

func (d *LongStatementDetector) Name() string              { return "long-statement" }
func (d *LongStatementDetector) Kind() domain.DetectorKind { return domain.KindLongStatement }
func (d *LongStatementDetector) Family() Family            { return FamilyLexical }

func (d *LongStatementDetector) Defaults() Thresholds {
	return Thresholds{"max_line_length": 120, "max_operators": 5, "max_chain_length": 3}
}

// Detect reports at most one issue per line
func (d *LongStatementDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxWidth := settings.Int("max_line_length")
	maxOps := settings.Int("max_operators")
	maxChain := settings.Int("max_chain_length")

	codeLines := src.CodeLines()
	var issues []domain.Issue

	for i, raw := range src.Lines {
		code := codeLines[i]
		trimmed := strings.TrimSpace(code)
		if strings.TrimSpace(raw) == "" {
			continue
		}

		var exceeded []string
		if width := runewidth.StringWidth(strings.TrimRight(raw, " \t")); maxWidth > 0 && width > maxWidth {
			exceeded = append(exceeded, fmt.Sprintf("width %d > %d", width, maxWidth))
		}
		if trimmed != "" && !isDirectiveLine(trimmed) {
			if ops := countOperatorChars(code); maxOps > 0 && ops > maxOps {
				exceeded = append(exceeded, fmt.Sprintf("%d operators > %d", ops, maxOps))
			}
			if chain := len(chainCallPattern.FindAllStringIndex(code, -1)); maxChain > 0 && chain > maxChain {
				exceeded = append(exceeded, fmt.Sprintf("%d chained calls > %d", chain, maxChain))
			}
		}
		if len(exceeded) == 0 {
			continue
		}

		severity := domain.SeverityLow
		if len(exceeded) >= 2 {
			severity = domain.SeverityMedium
		}

		issues = append(issues, newIssue(d.Kind(), src, i+1, severity,
			"Statement is too long: "+strings.Join(exceeded, ", "),
			"Split the statement and name intermediate results",
			strings.Join(exceeded, "; ")))
	}

	return issues, nil
}

func countOperatorChars(code string) int {
	n := 0
	for _, r := range code {
		if strings.ContainsRune(operatorChars, r) {
			n++
		}
	}
	return n
}
