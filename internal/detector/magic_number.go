package detector

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

var (
	numericLiteralPattern = regexp.MustCompile(
		`\b(0[xX][0-9a-fA-F_]+[lL]?|0[bB][01_]+[lL]?|\d[\d_]*(?:\.\d[\d_]*)?(?:[eE][+-]?\d+)?[lLfFdD]?)`)
	annotationArgsPattern = regexp.MustCompile(`@[\w.]+\s*\([^)]*\)`)
	staticPattern         = regexp.MustCompile(`\bstatic\b`)
	finalPattern          = regexp.MustCompile(`\bfinal\b`)
	conditionLinePattern  = regexp.MustCompile(`\b(if|while|for)\s*\(`)
)

// MagicNumberDetector flags numeric literals that should be named constants
type MagicNumberDetector struct{}

// NewMagicNumberDetector creates the magic-number detector
func NewMagicNumberDetector() *MagicNumberDetector {
	return &MagicNumberDetector{}
}

func (d *MagicNumberDetector) Name() string              { return "magic-number" }
func (d *MagicNumberDetector) Kind() domain.DetectorKind { return domain.KindMagicNumber }
func (d *MagicNumberDetector) Family() Family            { return FamilyLexical }

// Defaults returns the default thresholds. 0, 1 and -1 are always allowed;
// threshold additionally allows whole numbers up to that magnitude.
func (d *MagicNumberDetector) Defaults() Thresholds {
	return Thresholds{"threshold": 1}
}

// Detect reports one issue per offending literal
func (d *MagicNumberDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	threshold := math.Abs(settings.Float("threshold"))
	var issues []domain.Issue

	for i, code := range src.CodeLines() {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" || isDirectiveLine(trimmed) || strings.HasPrefix(trimmed, "@") {
			continue
		}
		if staticPattern.MatchString(code) && finalPattern.MatchString(code) {
			continue
		}

		code = annotationArgsPattern.ReplaceAllStringFunc(code, func(m string) string {
			return strings.Repeat(" ", len(m))
		})

		severity := domain.SeverityLow
		if conditionLinePattern.MatchString(code) {
			severity = domain.SeverityMedium
		}

		for _, loc := range numericLiteralPattern.FindAllStringIndex(code, -1) {
			if loc[0] > 0 && isIdentifierByte(code[loc[0]-1]) {
				continue
			}
			literal := code[loc[0]:loc[1]]
			value, ok := literalValue(literal)
			if !ok || isAllowedNumber(value, threshold) {
				continue
			}
			issues = append(issues, newIssue(d.Kind(), src, i+1, severity,
				fmt.Sprintf("Magic number %s found", literal),
				fmt.Sprintf("Replace %s with a named constant that explains its meaning", literal),
				fmt.Sprintf("numeric literal %s is not 0, 1 or a whole number within %g", literal, threshold)))
		}
	}

	return issues, nil
}

// isAllowedNumber exempts 0 and ±1, and whole numbers within threshold.
// Fractions such as 0.5 are always reported.
func isAllowedNumber(value, threshold float64) bool {
	abs := math.Abs(value)
	if abs == 0 || abs == 1 {
		return true
	}
	return abs == math.Trunc(abs) && abs <= threshold
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// literalValue parses a Java numeric literal
func literalValue(literal string) (float64, bool) {
	s := strings.ReplaceAll(literal, "_", "")
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "0x"):
		v, err := strconv.ParseUint(strings.TrimSuffix(lower[2:], "l"), 16, 64)
		return float64(v), err == nil
	case strings.HasPrefix(lower, "0b"):
		v, err := strconv.ParseUint(strings.TrimSuffix(lower[2:], "l"), 2, 64)
		return float64(v), err == nil
	}

	lower = strings.TrimRight(lower, "lfd")
	v, err := strconv.ParseFloat(lower, 64)
	return v, err == nil
}
