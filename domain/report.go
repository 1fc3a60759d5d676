package domain

// Report section headers, in the order they appear in a rendered report
const (
	SectionSeverity = "SEVERITY BREAKDOWN"
	SectionType     = "ISSUE TYPE BREAKDOWN"
	SectionFile     = "FILE-WISE BREAKDOWN"
	SectionDetailed = "DETAILED ISSUES"
)

// ReportSections lists the mandatory report sections in order
var ReportSections = []string{SectionSeverity, SectionType, SectionFile, SectionDetailed}

// ParsedIssue is an issue reconstructed from a detailed-issue report line
type ParsedIssue struct {
	Severity   Severity     `json:"severity" yaml:"severity"`
	Kind       DetectorKind `json:"kind" yaml:"kind"`
	File       string       `json:"file" yaml:"file"`
	Line       int          `json:"line" yaml:"line"`
	Message    string       `json:"message" yaml:"message"`
	Suggestion string       `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	// SourceLine is the 1-based report line the issue was read from
	SourceLine int `json:"source_line" yaml:"source_line"`
}

// ParsedReport is the structured view of a report text
type ParsedReport struct {
	SeverityCounts map[Severity]int     `json:"severity_counts" yaml:"severity_counts"`
	TypeCounts     map[DetectorKind]int `json:"type_counts" yaml:"type_counts"`
	FileCounts     map[string]FileCount `json:"file_counts" yaml:"file_counts"`
	Issues         []ParsedIssue        `json:"issues" yaml:"issues"`

	// Sections lists the section headers found, in order of appearance
	Sections []string `json:"sections" yaml:"sections"`

	// Errors holds grammar violations met while parsing
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewParsedReport returns an empty report with initialised maps
func NewParsedReport() *ParsedReport {
	return &ParsedReport{
		SeverityCounts: make(map[Severity]int),
		TypeCounts:     make(map[DetectorKind]int),
		FileCounts:     make(map[string]FileCount),
		Issues:         []ParsedIssue{},
		Sections:       []string{},
	}
}

// HasSection reports whether the named section header was seen
func (r *ParsedReport) HasSection(name string) bool {
	for _, s := range r.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// ValidationResult is the outcome of validating a report text
type ValidationResult struct {
	IsValid       bool          `json:"is_valid" yaml:"is_valid"`
	Errors        []string      `json:"errors" yaml:"errors"`
	ExtractedData *ParsedReport `json:"extracted_data" yaml:"extracted_data"`
}

// HighlightMap groups issue lines by file and detector kind.
// Line lists are sorted and contain no duplicates.
type HighlightMap map[string]map[DetectorKind][]int
