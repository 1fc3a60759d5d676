package domain

import (
	"fmt"
	"math"
	"strings"
)

// Severity weights used by the grading model
const (
	WeightCritical = 10.0
	WeightHigh     = 5.0
	WeightMedium   = 2.0
	WeightLow      = 0.5
)

// GradeNotApplicable is the letter assigned when no lines of code were analyzed
const GradeNotApplicable = "N/A"

// gradeScale maps the minimum numeric score to a letter, best first
var gradeScale = []struct {
	Letter   string
	MinScore float64
}{
	{"A+", 97},
	{"A", 93},
	{"A-", 90},
	{"B+", 87},
	{"B", 83},
	{"B-", 80},
	{"C+", 77},
	{"C", 73},
	{"C-", 70},
	{"D+", 67},
	{"D", 63},
	{"D-", 60},
	{"F", 0},
}

// GradeResult summarizes the quality of an analysis run
type GradeResult struct {
	Letter          string  `json:"letter" yaml:"letter"`
	NumericScore    float64 `json:"numeric_score" yaml:"numeric_score"`
	IssueDensity    float64 `json:"issue_density" yaml:"issue_density"`
	WeightedDensity float64 `json:"weighted_density" yaml:"weighted_density"`
	WeightedIssues  float64 `json:"weighted_issues" yaml:"weighted_issues"`
	TotalIssues     int     `json:"total_issues" yaml:"total_issues"`
	Recommendation  string  `json:"recommendation" yaml:"recommendation"`
}

// CalculateGrade derives the grade from severity counts and the analyzed line count.
// The result depends on nothing else.
func CalculateGrade(counts map[Severity]int, totalLOC int) GradeResult {
	if totalLOC <= 0 {
		return GradeResult{
			Letter:         GradeNotApplicable,
			Recommendation: "No analyzable lines of code were found.",
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return GradeResult{
			Letter:         "A+",
			NumericScore:   100,
			Recommendation: recommendationFor("A+", counts),
		}
	}

	kloc := float64(totalLOC) / 1000.0
	weighted := WeightCritical*float64(counts[SeverityCritical]) +
		WeightHigh*float64(counts[SeverityHigh]) +
		WeightMedium*float64(counts[SeverityMedium]) +
		WeightLow*float64(counts[SeverityLow])
	density := weighted / kloc

	score := bandScore(density)

	critical := counts[SeverityCritical]
	if float64(critical)/kloc > 1 {
		score -= 10
	} else if critical > 0 {
		score -= 5
	}

	if density > 20 {
		score -= 15
	} else if density > 15 {
		score -= 10
	}

	if critical > 0 && density > 5 && score > 79 {
		score = 79
	}

	score = math.Max(0, math.Min(100, score))
	letter := LetterForScore(score)

	return GradeResult{
		Letter:          letter,
		NumericScore:    score,
		IssueDensity:    float64(total) / kloc,
		WeightedDensity: density,
		WeightedIssues:  weighted,
		TotalIssues:     total,
		Recommendation:  recommendationFor(letter, counts),
	}
}

// bandScore maps a density onto the 0-100 base score through linear bands
func bandScore(d float64) float64 {
	switch {
	case d < 0.5:
		return 100 - d/0.5*10
	case d < 2:
		return 90 - (d-0.5)/1.5*10
	case d < 5:
		return 80 - (d-2)/3*10
	case d < 10:
		return 70 - (d-5)/5*10
	default:
		return math.Max(0, 60-(d-10))
	}
}

// LetterForScore maps a numeric score onto the 13-point letter scale
func LetterForScore(score float64) string {
	for _, g := range gradeScale {
		if score >= g.MinScore {
			return g.Letter
		}
	}
	return "F"
}

// GradeRank returns the position of a letter on the scale (0 is best).
// Unknown letters rank below F.
func GradeRank(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, g := range gradeScale {
		if g.Letter == letter {
			return i
		}
	}
	return len(gradeScale)
}

// IsValidGrade reports whether letter is on the grade scale
func IsValidGrade(letter string) bool {
	return GradeRank(letter) < len(gradeScale)
}

// MeetsGrade reports whether the grade is at least as good as minLetter.
// N/A never fails a threshold.
func (g GradeResult) MeetsGrade(minLetter string) bool {
	if g.Letter == GradeNotApplicable {
		return true
	}
	return GradeRank(g.Letter) <= GradeRank(minLetter)
}

func recommendationFor(letter string, counts map[Severity]int) string {
	dominant := dominantSeverity(counts)
	switch letter[0] {
	case 'A':
		if dominant == "" {
			return "Excellent code quality. No issues were found."
		}
		return fmt.Sprintf("Excellent code quality. Address the remaining %s issues when convenient.", dominant)
	case 'B':
		return fmt.Sprintf("Good code quality. Focus on the %s issues to reach an A.", dominant)
	case 'C':
		return fmt.Sprintf("Fair code quality. Plan a refactoring pass starting with the %s issues.", dominant)
	case 'D':
		return fmt.Sprintf("Poor code quality. The %s issues need prompt attention.", dominant)
	default:
		return fmt.Sprintf("Failing code quality. Resolve the %s issues before adding new features.", dominant)
	}
}

// dominantSeverity returns the severity with the largest weighted contribution
func dominantSeverity(counts map[Severity]int) Severity {
	weights := map[Severity]float64{
		SeverityCritical: WeightCritical,
		SeverityHigh:     WeightHigh,
		SeverityMedium:   WeightMedium,
		SeverityLow:      WeightLow,
	}
	var best Severity
	bestScore := 0.0
	for _, sev := range Severities {
		score := weights[sev] * float64(counts[sev])
		if sev == SeverityError {
			score = float64(counts[sev]) * 0.1
		}
		if score > bestScore {
			best, bestScore = sev, score
		}
	}
	return best
}
