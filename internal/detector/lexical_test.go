package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/smellscan/domain"
)

func TestMagicNumberExemptions(t *testing.T) {
	source := `
public class Calc {
    static final int LIMIT = 100;
    int compute(int x) {
        int a = 0;
        int b = 1;
        int c = -1;
        int d = 42;
        if (x > 7) {
            return d;
        }
        // 99 bottles
        String s = "123";
        return a + b + c;
    }
}
`
	issues := runDetector(t, NewMagicNumberDetector(), source)
	require.Len(t, issues, 2)

	assert.Equal(t, 7, issues[0].Line)
	assert.Equal(t, "Magic number 42 found", issues[0].Message)
	assert.Equal(t, domain.SeverityLow, issues[0].Severity)

	assert.Equal(t, 8, issues[1].Line)
	assert.Equal(t, "Magic number 7 found", issues[1].Message)
	assert.Equal(t, domain.SeverityMedium, issues[1].Severity)
}

func TestMagicNumberInReturn(t *testing.T) {
	issues := runDetector(t, NewMagicNumberDetector(), "class T {\n    int m() {\n        return 42 * 2;\n    }\n}\n")
	require.Len(t, issues, 2)
	assert.Equal(t, "Magic number 42 found", issues[0].Message)
	assert.Equal(t, 3, issues[0].Line)
}

func TestMagicNumberLiteralForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"hex", "int mask = 0xFF;", 1},
		{"binary one", "int bit = 0b1;", 0},
		{"fraction", "double rate = 0.5;", 1},
		{"fraction and whole one", "double r = x1 * 0.5 + 1.0;", 1},
		{"small exponent", "double eps = 1e-3;", 1},
		{"zero float", "double z = 0.0f;", 0},
		{"scaled float", "double rate = 2.5d;", 1},
		{"long suffix", "long big = 10000L;", 1},
		{"underscores", "int million = 1_000_000;", 1},
		{"identifier digits", "int v2 = x1;", 0},
		{"two literals", "int s = 3 + 4;", 2},
		{"annotation args", "@Retry(times = 3) int r = 0;", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := "class T {\n    void m(int x1) {\n        " + tt.line + "\n    }\n}\n"
			issues := runDetector(t, NewMagicNumberDetector(), source)
			assert.Len(t, issues, tt.want)
		})
	}
}

func TestMagicNumberThreshold(t *testing.T) {
	source := `
class T {
    int m() { return 5 + 20; }
}
`
	issues := runDetectorWith(t, NewMagicNumberDetector(), source, map[string]float64{"threshold": 10})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "20")
}

func TestMagicNumberThresholdKeepsFractions(t *testing.T) {
	source := `
class T {
    double m() { return 2.5 * 3; }
}
`
	issues := runDetectorWith(t, NewMagicNumberDetector(), source, map[string]float64{"threshold": 10})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "2.5")
}

func TestLongIdentifier(t *testing.T) {
	source := `
class T {
    int thisIsAVeryLongIdentifierNameThatGoesOnForever = 1;
    int shortName = thisIsAVeryLongIdentifierNameThatGoesOnForever;
    int oneTwoThreeFourFiveSix = 0;
}
`
	issues := runDetector(t, NewLongIdentifierDetector(), source)
	require.Len(t, issues, 2)

	assert.Equal(t, 2, issues[0].Line)
	assert.Contains(t, issues[0].Message, "thisIsAVeryLongIdentifierNameThatGoesOnForever")
	assert.Equal(t, domain.SeverityLow, issues[0].Severity)

	assert.Equal(t, 4, issues[1].Line)
	assert.Contains(t, issues[1].Message, "6 words")
}

func TestLongIdentifierEscalates(t *testing.T) {
	name := "a" + strings.Repeat("b", 70)
	issues := runDetector(t, NewLongIdentifierDetector(), "class T { int "+name+" = 0; }\n")
	require.Len(t, issues, 1)
	assert.Equal(t, domain.SeverityMedium, issues[0].Severity)
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"getUserID", []string{"get", "User", "ID"}},
		{"HTTPServerConfig", []string{"HTTP", "Server", "Config"}},
		{"max_line_length", []string{"max", "line", "length"}},
		{"MAX_VALUE", []string{"MAX", "VALUE"}},
		{"x", []string{"x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitWords(tt.in), tt.in)
	}
}

func TestLongParameterList(t *testing.T) {
	source := `
public class Svc {
    public void configure(int a, int b, int c, int d, int e) {
    }
    void ok(int a, String b) {
    }
    void mix(int a, String b, long c, double d) {
    }
    abstract void wide(
            int a, int b, int c, int d,
            int e, int f, int g, int h, int i);
}
`
	issues := runDetector(t, NewLongParameterListDetector(), source)
	require.Len(t, issues, 3)

	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "Method 'configure' has 5 parameters (max 4)", issues[0].Message)
	assert.Equal(t, domain.SeverityMedium, issues[0].Severity)

	assert.Equal(t, 6, issues[1].Line)
	assert.Equal(t, "Method 'mix' uses 4 distinct parameter types (max 3)", issues[1].Message)

	assert.Equal(t, 8, issues[2].Line)
	assert.Equal(t, domain.SeverityHigh, issues[2].Severity)
}

func TestParseParameterTypes(t *testing.T) {
	got := parseParameterTypes("final @NonNull String name, Map<String, Integer> counts, int... rest")
	assert.Equal(t, []string{"String", "Map<String, Integer>", "int..."}, got)
	assert.Nil(t, parseParameterTypes("  "))
}

func TestLongStatement(t *testing.T) {
	source := `
class T {
    String s = "` + strings.Repeat("x", 130) + `";
    int r = a + b - c * d / e % f;
    Object o = list.stream().filter(x).map(y).collect(z);
    boolean q = list.stream().filter(x).map(y).count() > a + b - c * d / e;
    int fine = a + b;
}
`
	issues := runDetector(t, NewLongStatementDetector(), source)
	require.Len(t, issues, 4)
	assert.Equal(t, []int{2, 3, 4, 5}, issueLines(issues))

	assert.Contains(t, issues[0].Message, "width")
	assert.Contains(t, issues[1].Message, "6 operators")
	assert.Contains(t, issues[2].Message, "4 chained calls")
	for _, issue := range issues[:3] {
		assert.Equal(t, domain.SeverityLow, issue.Severity)
	}
	assert.Equal(t, domain.SeverityMedium, issues[3].Severity)
}

func TestLongStatementWideRunes(t *testing.T) {
	// 70 double-width runes occupy 140 columns
	source := "class T {\n    // " + strings.Repeat("界", 70) + "\n}\n"
	issues := runDetector(t, NewLongStatementDetector(), source)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
}
