package detector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// signaturePattern matches a method or constructor header: an optional
// modifier list, a return type (or the constructor name's modifier), the
// name and a parameter list that may span lines
var signaturePattern = regexp.MustCompile(
	`(?m)^[ \t]*((?:@[\w.]+[ \t]+)*(?:(?:public|protected|private|static|final|abstract|synchronized|native|default|strictfp)\s+)*)` +
		`(?:<[^()]*?>\s+)?([\w.$]+(?:<[^()]*?>)?(?:\[\])*)\s+([\w$]+)\s*\(([^()]*)\)\s*(?:throws\s+[\w.,\s]+?)?\s*[{;]`)

var parameterAnnotationPattern = regexp.MustCompile(`@[\w.]+(?:\([^)]*\))?\s*`)

var notReturnTypes = map[string]bool{
	"return": true, "new": true, "else": true, "throw": true, "case": true,
	"if": true, "for": true, "while": true, "switch": true, "catch": true, "do": true,
	"yield": true, "assert": true, "package": true, "import": true,
}

// LongParameterListDetector flags method signatures with too many parameters
type LongParameterListDetector struct{}

// NewLongParameterListDetector creates the long-parameter-list detector
func NewLongParameterListDetector() *LongParameterListDetector {
	return &LongParameterListDetector{}
}

func (d *LongParameterListDetector) Name() string              { return "long-parameter-list" }
func (d *LongParameterListDetector) Kind() domain.DetectorKind { return domain.KindLongParameterList }
func (d *LongParameterListDetector) Family() Family            { return FamilyLexical }

func (d *LongParameterListDetector) Defaults() Thresholds {
	return Thresholds{"max_parameters": 4, "max_parameter_types": 3}
}

// Detect matches method signatures in the comment-free text of the file
func (d *LongParameterListDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxParams := settings.Int("max_parameters")
	maxTypes := settings.Int("max_parameter_types")

	text := strings.Join(src.CodeLines(), "\n")
	var issues []domain.Issue

	for _, m := range signaturePattern.FindAllStringSubmatchIndex(text, -1) {
		returnType := text[m[4]:m[5]]
		name := text[m[6]:m[7]]
		if notReturnTypes[returnType] || notReturnTypes[name] {
			continue
		}

		params := parseParameterTypes(text[m[8]:m[9]])
		count := len(params)
		distinct := make(map[string]bool)
		for _, p := range params {
			distinct[p] = true
		}

		tooMany := maxParams > 0 && count > maxParams
		tooVaried := maxTypes > 0 && len(distinct) > maxTypes
		if !tooMany && !tooVaried {
			continue
		}

		severity := domain.SeverityMedium
		if maxParams > 0 && count > 2*maxParams {
			severity = domain.SeverityHigh
		}

		var message string
		if tooMany {
			message = fmt.Sprintf("Method '%s' has %s (max %d)", name, plural(count, "parameter"), maxParams)
		} else {
			message = fmt.Sprintf("Method '%s' uses %d distinct parameter types (max %d)", name, len(distinct), maxTypes)
		}

		// report at the line holding the method name
		line := strings.Count(text[:m[6]], "\n") + 1
		issues = append(issues, newIssue(d.Kind(), src, line, severity, message,
			"Group related parameters into a parameter object or split the method",
			fmt.Sprintf("%d parameters, %d distinct types", count, len(distinct))))
	}

	return sortByLine(issues), nil
}

// parseParameterTypes returns the declared type of each parameter in a parameter list
func parseParameterTypes(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}

	var types []string
	for _, param := range splitTopLevel(list) {
		param = parameterAnnotationPattern.ReplaceAllString(param, "")
		param = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(param), "final "))
		fields := strings.Fields(param)
		if len(fields) < 2 {
			continue
		}
		types = append(types, strings.Join(fields[:len(fields)-1], " "))
	}
	return types
}
