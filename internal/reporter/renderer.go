// Package reporter renders analysis results as the canonical text report and
// reads such reports back.
//
// The text grammar is line oriented. Four sections appear in a fixed order,
// separated by one blank line:
//
//	SEVERITY BREAKDOWN
//	Critical: 1
//	...
//
//	ISSUE TYPE BREAKDOWN
//	MagicNumber: 3
//
//	FILE-WISE BREAKDOWN
//	File: src/A.java (Total: 3)
//	  Low: 3
//
//	DETAILED ISSUES
//	🚨 ⚠️ [MagicNumber] src/A.java:7 - Magic number 42 found | Suggestions: ...
//
// Parse(Render(r)) reproduces the counts of r exactly.
package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

// Render returns the canonical text report of a result
func Render(result *domain.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(domain.SectionSeverity + "\n")
	for _, sev := range domain.Severities {
		fmt.Fprintf(&b, "%s: %d\n", sev, result.SeverityCounts[sev])
	}
	b.WriteString("\n")

	b.WriteString(domain.SectionType + "\n")
	for _, kc := range sortedKindCounts(result.DetectorCounts) {
		fmt.Fprintf(&b, "%s: %d\n", kc.kind, kc.count)
	}
	b.WriteString("\n")

	b.WriteString(domain.SectionFile + "\n")
	fileCounts := result.FileCounts()
	for _, file := range result.SortedFiles() {
		fc := fileCounts[file]
		fmt.Fprintf(&b, "File: %s (Total: %d)\n", file, fc.Total)
		for _, sev := range domain.Severities {
			if n := fc.BySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", sev, n)
			}
		}
	}
	b.WriteString("\n")

	b.WriteString(domain.SectionDetailed + "\n")
	for _, issue := range result.Issues {
		b.WriteString(renderIssue(issue))
		b.WriteString("\n")
	}

	return b.String()
}

// WriteReport writes the canonical text report to w
func WriteReport(w io.Writer, result *domain.AnalysisResult) error {
	if _, err := io.WriteString(w, Render(result)); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func renderIssue(issue domain.Issue) string {
	sev := domain.ClassifySeverity(issue.Severity)
	line := fmt.Sprintf("%s %s [%s] %s:%d - %s",
		domain.IssueMarker, sev.Glyph(), issue.Kind, issue.File, issue.Line, flatten(issue.Message))
	suggestion := strings.ReplaceAll(flatten(issue.Suggestion), suggestionMarker, " / Suggestions:")
	switch {
	case suggestion != "":
		line += suggestionSeparator + suggestion
	case strings.Contains(flatten(issue.Message), suggestionMarker):
		// an empty trailing separator keeps the message intact on parse
		line += suggestionMarker
	}
	return line
}

const (
	suggestionMarker    = " | Suggestions:"
	suggestionSeparator = suggestionMarker + " "
)

// flatten collapses all whitespace runs, line breaks included, into single spaces
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type kindCount struct {
	kind  domain.DetectorKind
	count int
}

// sortedKindCounts orders kinds by count descending, then by name
func sortedKindCounts(counts map[domain.DetectorKind]int) []kindCount {
	out := make([]kindCount, 0, len(counts))
	for kind, n := range counts {
		if n > 0 {
			out = append(out, kindCount{kind: kind, count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].kind < out[j].kind
	})
	return out
}
