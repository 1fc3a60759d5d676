package detector

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

var identifierPattern = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

// LongIdentifierDetector flags identifiers that are too long or made of too many words
type LongIdentifierDetector struct{}

// NewLongIdentifierDetector creates the long-identifier detector
func NewLongIdentifierDetector() *LongIdentifierDetector {
	return &LongIdentifierDetector{}
}

func (d *LongIdentifierDetector) Name() string              { return "long-identifier" }
func (d *LongIdentifierDetector) Kind() domain.DetectorKind { return domain.KindLongIdentifier }
func (d *LongIdentifierDetector) Family() Family            { return FamilyLexical }

func (d *LongIdentifierDetector) Defaults() Thresholds {
	return Thresholds{"max_length": 32, "max_words": 5}
}

// Detect reports each offending identifier once, at its first occurrence
func (d *LongIdentifierDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxLength := settings.Int("max_length")
	maxWords := settings.Int("max_words")

	seen := make(map[string]bool)
	var issues []domain.Issue

	for i, code := range src.CodeLines() {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" || isDirectiveLine(trimmed) {
			continue
		}

		for _, loc := range identifierPattern.FindAllStringIndex(code, -1) {
			if loc[0] > 0 && code[loc[0]-1] >= '0' && code[loc[0]-1] <= '9' {
				continue
			}
			ident := code[loc[0]:loc[1]]
			if seen[ident] {
				continue
			}

			length := len(ident)
			words := len(SplitWords(ident))
			tooLong := maxLength > 0 && length > maxLength
			tooWordy := maxWords > 0 && words > maxWords
			if !tooLong && !tooWordy {
				continue
			}
			seen[ident] = true

			severity := domain.SeverityLow
			if maxLength > 0 && length > 2*maxLength {
				severity = domain.SeverityMedium
			}

			issues = append(issues, newIssue(d.Kind(), src, i+1, severity,
				fmt.Sprintf("Identifier '%s' is too long (%s, %s)", ident, plural(length, "character"), plural(words, "word")),
				"Choose a shorter name that still conveys intent",
				fmt.Sprintf("limits: %d characters, %d words", maxLength, maxWords)))
		}
	}

	return issues, nil
}

// SplitWords splits an identifier into its camelCase and underscore-delimited words
func SplitWords(ident string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(ident, func(r rune) bool { return r == '_' || r == '$' }) {
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			boundary := false
			switch {
			case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				boundary = true
			case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// "HTTPServer" splits before "Server"
				boundary = true
			}
			if boundary {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}
