package domain

import "strings"

// Severity classifies an issue
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityError    Severity = "Error"
)

// Severities lists every severity in report order
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityError,
}

// Severity glyphs used in the detailed issue section of a report.
// This table is the only place the glyph bijection is defined.
const (
	GlyphCritical = "🔴"
	GlyphHigh     = "🟡"
	GlyphMedium   = "🟠"
	GlyphLow      = "⚠️"
	GlyphError    = "❌"

	// IssueMarker prefixes every detailed issue line
	IssueMarker = "🚨"
)

var severityGlyphs = map[Severity]string{
	SeverityCritical: GlyphCritical,
	SeverityHigh:     GlyphHigh,
	SeverityMedium:   GlyphMedium,
	SeverityLow:      GlyphLow,
	SeverityError:    GlyphError,
}

// Glyph returns the report glyph for the severity
func (s Severity) Glyph() string {
	if g, ok := severityGlyphs[s]; ok {
		return g
	}
	return GlyphError
}

// Rank returns the ordinal of the severity, 0 being the most severe
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i
		}
	}
	return len(Severities)
}

// IsValid reports whether s is one of the known severities
func (s Severity) IsValid() bool {
	_, ok := severityGlyphs[s]
	return ok
}

// SeverityFromGlyph maps a report glyph back to its severity.
// The warning sign is accepted with or without the emoji variation selector.
func SeverityFromGlyph(glyph string) (Severity, bool) {
	glyph = strings.TrimSpace(glyph)
	for sev, g := range severityGlyphs {
		if g == glyph {
			return sev, true
		}
	}
	if strings.TrimSuffix(GlyphLow, "\uFE0F") == glyph {
		return SeverityLow, true
	}
	return "", false
}

// ParseSeverity maps a severity name (case-insensitive) to a Severity
func ParseSeverity(name string) (Severity, bool) {
	name = strings.TrimSpace(name)
	for _, sev := range Severities {
		if strings.EqualFold(string(sev), name) {
			return sev, true
		}
	}
	return "", false
}

// ClassifySeverity returns the severity an issue is counted under.
// Anything that does not carry a recognised leading severity marker is counted as Error.
func ClassifySeverity(s Severity) Severity {
	for _, sev := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		if strings.HasPrefix(strings.ToLower(string(s)), strings.ToLower(string(sev))) {
			return sev
		}
	}
	return SeverityError
}

// DetectorKind identifies the detector that produced an issue
type DetectorKind string

const (
	KindMagicNumber            DetectorKind = "MagicNumber"
	KindLongIdentifier         DetectorKind = "LongIdentifier"
	KindLongParameterList      DetectorKind = "LongParameterList"
	KindLongStatement          DetectorKind = "LongStatement"
	KindMissingDefault         DetectorKind = "MissingDefault"
	KindBrokenModularization   DetectorKind = "BrokenModularization"
	KindDeficientEncapsulation DetectorKind = "DeficientEncapsulation"
	KindUnnecessaryAbstraction DetectorKind = "UnnecessaryAbstraction"
	KindUnusedVariable         DetectorKind = "UnusedVariable"
	KindResourceLeak           DetectorKind = "ResourceLeak"
	KindListenerLeak           DetectorKind = "ListenerLeak"
	KindThreadLeak             DetectorKind = "ThreadLeak"
	KindLongMethod             DetectorKind = "LongMethod"
	KindComplexConditional     DetectorKind = "ComplexConditional"
	KindDeepNesting            DetectorKind = "DeepNesting"

	// Synthetic kinds produced by the orchestrator
	KindParseError    DetectorKind = "ParseError"
	KindDetectorError DetectorKind = "DetectorError"
)

// Issue is a single code-quality finding. Issues are values and are never
// modified after a detector returns them.
type Issue struct {
	Kind           DetectorKind `json:"kind" yaml:"kind"`
	File           string       `json:"file" yaml:"file"`
	Line           int          `json:"line" yaml:"line"`
	Severity       Severity     `json:"severity" yaml:"severity"`
	Message        string       `json:"message" yaml:"message"`
	Suggestion     string       `json:"suggestion" yaml:"suggestion"`
	DetailedReason string       `json:"detailed_reason,omitempty" yaml:"detailed_reason,omitempty"`
}

// NewParseErrorIssue builds the issue emitted when a file cannot be parsed
func NewParseErrorIssue(file string, err error) Issue {
	return Issue{
		Kind:           KindParseError,
		File:           file,
		Line:           0,
		Severity:       SeverityError,
		Message:        "File could not be parsed",
		Suggestion:     "Fix the syntax errors so the file can be analyzed",
		DetailedReason: errorText(err),
	}
}

// NewDetectorErrorIssue builds the issue emitted when a detector fails on a file
func NewDetectorErrorIssue(file, detector string, err error) Issue {
	return Issue{
		Kind:           KindDetectorError,
		File:           file,
		Line:           0,
		Severity:       SeverityError,
		Message:        "Detector " + detector + " failed: " + errorText(err),
		Suggestion:     "Report the failure; other detectors still ran on this file",
		DetailedReason: errorText(err),
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
