// Package detector implements the heuristic code-quality detectors.
//
// A detector is a pure function of one parsed file and its own immutable
// settings. Detectors are registered in an explicit ordered Registry; the
// order of the registry is the order issues of a file appear in a report.
package detector

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// Family groups detectors by technique
type Family string

const (
	// FamilyLexical detectors work on raw source lines
	FamilyLexical Family = "lexical"
	// FamilyStructural detectors work on line-level structural counts
	FamilyStructural Family = "structural"
	// FamilyTree detectors walk the shallow syntax tree
	FamilyTree Family = "tree"
)

// Thresholds are named numeric detector parameters
type Thresholds map[string]float64

// Detector is a single code-quality heuristic
type Detector interface {
	// Name is the configuration key of the detector, e.g. "magic-number"
	Name() string

	// Kind is the issue kind printed in reports
	Kind() domain.DetectorKind

	Family() Family

	// Defaults returns the documented default thresholds
	Defaults() Thresholds

	// Detect returns the issues found in src, ordered by line
	Detect(src *parser.Source, settings Settings) ([]domain.Issue, error)
}

// Settings is the immutable threshold set a detector runs with
type Settings struct {
	values map[string]float64
}

// NewSettings merges overrides over defaults. Keys unknown to the defaults are kept.
func NewSettings(defaults Thresholds, overrides map[string]float64) Settings {
	values := make(map[string]float64, len(defaults)+len(overrides))
	for k, v := range defaults {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}
	return Settings{values: values}
}

// DefaultSettings returns the default settings of d
func DefaultSettings(d Detector) Settings {
	return NewSettings(d.Defaults(), nil)
}

// Float returns the named threshold, or 0 when it is not set
func (s Settings) Float(name string) float64 {
	return s.values[name]
}

// Int returns the named threshold truncated to an int
func (s Settings) Int(name string) int {
	return int(s.values[name])
}

// Bool reports whether the named threshold is set to a non-zero value
func (s Settings) Bool(name string) bool {
	return s.values[name] != 0
}

// Values returns a copy of all thresholds
func (s Settings) Values() Thresholds {
	out := make(Thresholds, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Configured pairs a detector with the settings it runs with in one analysis run
type Configured struct {
	Detector Detector
	Settings Settings
}

// Registry is an ordered list of detectors
type Registry struct {
	detectors []Detector
}

// NewRegistry creates a registry with the given detectors, in order
func NewRegistry(detectors ...Detector) *Registry {
	return &Registry{detectors: detectors}
}

// DefaultRegistry returns every built-in detector in report order
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewMagicNumberDetector(),
		NewLongIdentifierDetector(),
		NewLongParameterListDetector(),
		NewLongStatementDetector(),
		NewBrokenModularizationDetector(),
		NewDeficientEncapsulationDetector(),
		NewUnnecessaryAbstractionDetector(),
		NewMissingDefaultDetector(),
		NewUnusedVariableDetector(),
		NewResourceLeakDetector(),
		NewListenerLeakDetector(),
		NewThreadLeakDetector(),
		NewLongMethodDetector(),
		NewComplexConditionalDetector(),
		NewDeepNestingDetector(),
	)
}

// All returns the registered detectors in order
func (r *Registry) All() []Detector {
	out := make([]Detector, len(r.detectors))
	copy(out, r.detectors)
	return out
}

// Names returns the detector names in order
func (r *Registry) Names() []string {
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.Name()
	}
	return names
}

// Lookup finds a detector by name
func (r *Registry) Lookup(name string) (Detector, bool) {
	for _, d := range r.detectors {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Configure returns the enabled detectors with their settings for one run.
// Names absent from cfg are enabled with default thresholds.
func (r *Registry) Configure(cfg domain.DetectorConfig) []Configured {
	var out []Configured
	for _, d := range r.detectors {
		if !cfg.IsEnabled(d.Name()) {
			continue
		}
		out = append(out, Configured{
			Detector: d,
			Settings: NewSettings(d.Defaults(), cfg.Thresholds(d.Name())),
		})
	}
	return out
}

// Helpers shared by detectors

func newIssue(kind domain.DetectorKind, src *parser.Source, line int, severity domain.Severity, message, suggestion, reason string) domain.Issue {
	if line < 0 {
		line = 0
	}
	return domain.Issue{
		Kind:           kind,
		File:           src.Path,
		Line:           line,
		Severity:       severity,
		Message:        message,
		Suggestion:     suggestion,
		DetailedReason: reason,
	}
}

// sortByLine orders issues by line, keeping discovery order for equal lines
func sortByLine(issues []domain.Issue) []domain.Issue {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
	return issues
}

// callables returns every method and constructor with a body
func callables(tree *parser.Node) []*parser.Node {
	return tree.Find(func(n *parser.Node) bool {
		return n.IsCallable() && n.HasBody
	})
}

// walkScope walks the body of a callable without entering nested callables
// or type declarations
func walkScope(callable *parser.Node, visit func(*parser.Node)) {
	for _, stmt := range callable.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.IsCallable() || n.IsTypeDeclaration() {
				return false
			}
			visit(n)
			return true
		})
	}
}

// isDirectiveLine reports whether a trimmed line is a package or import declaration
func isDirectiveLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "package ") || strings.HasPrefix(trimmed, "import ")
}

// simpleTypeName strips generic arguments, array brackets and the package qualifier
func simpleTypeName(typ string) string {
	if i := strings.Index(typ, "<"); i >= 0 {
		typ = typ[:i]
	}
	typ = strings.TrimSuffix(strings.TrimSpace(typ), "...")
	typ = strings.TrimRight(typ, "[] ")
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return strings.TrimSpace(typ)
}

// splitTopLevel splits s on commas outside of brackets
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '<', '{':
			depth++
		case ')', ']', '>', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
