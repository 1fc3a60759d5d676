package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGrade_NoCode(t *testing.T) {
	for _, loc := range []int{0, -5} {
		g := CalculateGrade(map[Severity]int{SeverityHigh: 3}, loc)
		assert.Equal(t, GradeNotApplicable, g.Letter)
		assert.Zero(t, g.NumericScore)
	}
}

func TestCalculateGrade_ZeroIssues(t *testing.T) {
	g := CalculateGrade(map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}, 2500)

	assert.Equal(t, "A+", g.Letter)
	assert.Equal(t, 100.0, g.NumericScore)
	assert.Zero(t, g.IssueDensity)
	assert.Zero(t, g.TotalIssues)
}

func TestCalculateGrade_DensityBands(t *testing.T) {
	tests := []struct {
		name     string
		lows     int
		minScore float64
		maxScore float64
	}{
		{"one low issue", 1, 90, 100},
		{"three low issues", 3, 80, 90},
		{"six low issues", 6, 70, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CalculateGrade(map[Severity]int{SeverityLow: tt.lows}, 1000)
			assert.GreaterOrEqual(t, g.NumericScore, tt.minScore)
			assert.Less(t, g.NumericScore, tt.maxScore)
			assert.InDelta(t, float64(tt.lows), g.IssueDensity, 1e-9)
		})
	}
}

func TestCalculateGrade_Monotonic(t *testing.T) {
	base := map[Severity]int{
		SeverityCritical: 1,
		SeverityHigh:     2,
		SeverityMedium:   3,
		SeverityLow:      4,
	}
	const loc = 1800

	for _, sev := range Severities {
		prev := CalculateGrade(copyCounts(base), loc).NumericScore
		counts := copyCounts(base)
		for i := 0; i < 60; i++ {
			counts[sev]++
			score := CalculateGrade(counts, loc).NumericScore
			require.LessOrEqualf(t, score, prev, "adding %s issue #%d raised the score", sev, i+1)
			prev = score
		}
	}

	// from a clean run, any single issue must not raise the score
	for _, sev := range Severities {
		g := CalculateGrade(map[Severity]int{sev: 1}, loc)
		assert.LessOrEqual(t, g.NumericScore, 100.0)
	}
}

func TestCalculateGrade_Penalties(t *testing.T) {
	// one critical in 1000 LOC: density 10, band gives 60, -5 for a critical
	g := CalculateGrade(map[Severity]int{SeverityCritical: 1}, 1000)
	assert.InDelta(t, 55.0, g.NumericScore, 1e-9)
	assert.Equal(t, "F", g.Letter)

	// critical issues with a high density cannot exceed the cap
	g = CalculateGrade(map[Severity]int{SeverityCritical: 1}, 100000)
	assert.LessOrEqual(t, g.NumericScore, 100.0)
	assert.Equal(t, 1, g.TotalIssues)

	g = CalculateGrade(map[Severity]int{SeverityHigh: 100}, 1000)
	assert.Zero(t, g.NumericScore, "score must clamp at zero")
	assert.Equal(t, "F", g.Letter)
}

func TestCalculateGrade_CriticalCap(t *testing.T) {
	// a critical with weighted density above 5 never reaches a B
	g := CalculateGrade(map[Severity]int{SeverityCritical: 1}, 1500)
	assert.LessOrEqual(t, g.NumericScore, 79.0)
}

func TestLetterForScore(t *testing.T) {
	tests := map[float64]string{
		100:  "A+",
		97:   "A+",
		96.9: "A",
		90:   "A-",
		87.5: "B+",
		83:   "B",
		80:   "B-",
		77:   "C+",
		73:   "C",
		70:   "C-",
		67:   "D+",
		63:   "D",
		60:   "D-",
		59.9: "F",
		0:    "F",
	}
	for score, want := range tests {
		assert.Equalf(t, want, LetterForScore(score), "score %.1f", score)
	}
}

func TestGradeResult_MeetsGrade(t *testing.T) {
	assert.True(t, GradeResult{Letter: "B+"}.MeetsGrade("B"))
	assert.True(t, GradeResult{Letter: "B"}.MeetsGrade("b"))
	assert.False(t, GradeResult{Letter: "C+"}.MeetsGrade("B-"))
	assert.True(t, GradeResult{Letter: GradeNotApplicable}.MeetsGrade("A+"))
	assert.True(t, IsValidGrade("D-"))
	assert.False(t, IsValidGrade("E"))
}

func TestCalculateGrade_RecommendationMentionsDominantSeverity(t *testing.T) {
	g := CalculateGrade(map[Severity]int{SeverityHigh: 4, SeverityLow: 1}, 1000)
	assert.Contains(t, g.Recommendation, "High")
}

func copyCounts(in map[Severity]int) map[Severity]int {
	out := make(map[Severity]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
