package reporter

import (
	"sort"

	"github.com/ludo-technologies/smellscan/domain"
)

// HighlightMap groups the issue lines of a parsed report by file and issue type
func HighlightMap(report *domain.ParsedReport) domain.HighlightMap {
	highlights := make(domain.HighlightMap)
	seen := make(map[string]map[domain.DetectorKind]map[int]bool)

	for _, issue := range report.Issues {
		if issue.File == "" || issue.Line < 0 {
			continue
		}
		if highlights[issue.File] == nil {
			highlights[issue.File] = make(map[domain.DetectorKind][]int)
			seen[issue.File] = make(map[domain.DetectorKind]map[int]bool)
		}
		if seen[issue.File][issue.Kind] == nil {
			seen[issue.File][issue.Kind] = make(map[int]bool)
		}
		if seen[issue.File][issue.Kind][issue.Line] {
			continue
		}
		seen[issue.File][issue.Kind][issue.Line] = true
		highlights[issue.File][issue.Kind] = append(highlights[issue.File][issue.Kind], issue.Line)
	}

	for _, byKind := range highlights {
		for _, lines := range byKind {
			sort.Ints(lines)
		}
	}
	return highlights
}
