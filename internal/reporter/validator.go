package reporter

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/smellscan/domain"
)

// Validate parses a text report and checks that its declared counts agree
// with its detailed issues. Every mismatch is collected; the report is valid
// only when there are none.
func Validate(text string) domain.ValidationResult {
	report := Parse(text)
	return ValidateReport(report)
}

// ValidateReport checks an already parsed report
func ValidateReport(report *domain.ParsedReport) domain.ValidationResult {
	v := &validator{errors: append([]string{}, report.Errors...)}

	for _, section := range domain.ReportSections {
		if !report.HasSection(section) {
			v.add("missing section %q", section)
		}
	}

	for _, issue := range report.Issues {
		v.checkIssue(issue)
	}

	derived := deriveCounts(report.Issues)
	v.compareSeverities(report.SeverityCounts, derived.severities)
	v.compareTypes(report.TypeCounts, derived.types)
	v.compareFiles(report.FileCounts, derived.files)

	return domain.ValidationResult{
		IsValid:       len(v.errors) == 0,
		Errors:        v.errors,
		ExtractedData: report,
	}
}

type validator struct {
	errors []string
}

func (v *validator) add(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) checkIssue(issue domain.ParsedIssue) {
	where := fmt.Sprintf("issue at report line %d", issue.SourceLine)
	if !issue.Severity.IsValid() {
		v.add("%s: missing or unknown severity", where)
	}
	if issue.Kind == "" {
		v.add("%s: missing issue type", where)
	}
	if issue.File == "" {
		v.add("%s: missing file", where)
	}
	if issue.Line < 0 {
		v.add("%s: invalid line number %d", where, issue.Line)
	}
	if issue.Message == "" {
		v.add("%s: missing message", where)
	}
}

type derivedCounts struct {
	severities map[domain.Severity]int
	types      map[domain.DetectorKind]int
	files      map[string]domain.FileCount
}

// deriveCounts recomputes every breakdown from the detailed issues
func deriveCounts(issues []domain.ParsedIssue) derivedCounts {
	d := derivedCounts{
		severities: make(map[domain.Severity]int),
		types:      make(map[domain.DetectorKind]int),
		files:      make(map[string]domain.FileCount),
	}
	for _, issue := range issues {
		sev := domain.ClassifySeverity(issue.Severity)
		d.severities[sev]++
		d.types[issue.Kind]++

		fc := d.files[issue.File]
		if fc.BySeverity == nil {
			fc.BySeverity = make(map[domain.Severity]int)
		}
		fc.Total++
		fc.BySeverity[sev]++
		d.files[issue.File] = fc
	}
	return d
}

func (v *validator) compareSeverities(declared, derived map[domain.Severity]int) {
	for _, sev := range domain.Severities {
		if declared[sev] != derived[sev] {
			v.add("severity count mismatch for %s: declared %d, found %d issues", sev, declared[sev], derived[sev])
		}
	}
}

func (v *validator) compareTypes(declared, derived map[domain.DetectorKind]int) {
	kinds := make(map[domain.DetectorKind]bool)
	for k := range declared {
		kinds[k] = true
	}
	for k := range derived {
		kinds[k] = true
	}

	sorted := make([]string, 0, len(kinds))
	for k := range kinds {
		sorted = append(sorted, string(k))
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		k := domain.DetectorKind(name)
		if declared[k] != derived[k] {
			v.add("issue type count mismatch for %s: declared %d, found %d issues", k, declared[k], derived[k])
		}
	}
}

func (v *validator) compareFiles(declared, derived map[string]domain.FileCount) {
	files := make(map[string]bool)
	for f := range declared {
		files[f] = true
	}
	for f := range derived {
		files[f] = true
	}
	sorted := make([]string, 0, len(files))
	for f := range files {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	for _, file := range sorted {
		decl, found := declared[file], derived[file]

		sum := 0
		for _, n := range decl.BySeverity {
			sum += n
		}
		if sum != decl.Total {
			v.add("file %s: total %d does not match its severity lines (%d)", file, decl.Total, sum)
		}

		if decl.Total != found.Total {
			v.add("file count mismatch for %s: declared %d, found %d issues", file, decl.Total, found.Total)
		}
		for _, sev := range domain.Severities {
			if decl.BySeverity[sev] != found.BySeverity[sev] {
				v.add("file %s: %s count mismatch: declared %d, found %d issues",
					file, sev, decl.BySeverity[sev], found.BySeverity[sev])
			}
		}
	}
}
