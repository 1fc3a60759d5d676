package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/ludo-technologies/smellscan/internal/reporter"
	"github.com/ludo-technologies/smellscan/internal/testutil"
	"github.com/ludo-technologies/smellscan/service"
)

func relativeAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestFileHelperCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"src/main/java/app/Orders.java":   "class Orders {}",
		"src/main/java/app/Customer.java": "class Customer {}",
		"src/main/java/app/notes.txt":     "notes",
		"src/main/java/App.java":          "class App {}",
		"src/test/java/app/OrdersIT.java": "class OrdersIT {}",
		"Target/classes/Generated.java":   "class Generated {}",
		"node_modules/pkg/Vendored.java":  "class Vendored {}",
	})

	files, err := NewFileHelper().CollectSourceFiles([]string{root}, nil, constants.DefaultExcludeSubstrings)
	if err != nil {
		t.Fatalf("CollectSourceFiles failed: %v", err)
	}

	want := []string{
		"src/main/java/App.java",
		"src/main/java/app/Customer.java",
		"src/main/java/app/Orders.java",
	}
	if diff := cmp.Diff(want, relativeAll(t, root, files)); diff != "" {
		t.Errorf("collected files mismatch (-want +got):\n%s", diff)
	}
}

func TestFileHelperNonExistentRoot(t *testing.T) {
	files, err := NewFileHelper().CollectSourceFiles([]string{filepath.Join(t.TempDir(), "missing")}, nil, nil)
	if err != nil {
		t.Fatalf("expected no error for a missing root, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestFileHelperSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"App.java": "class App {}", "README.md": "x"})

	helper := NewFileHelper()
	files, err := helper.CollectSourceFiles([]string{filepath.Join(root, "App.java"), filepath.Join(root, "README.md")}, nil, nil)
	if err != nil {
		t.Fatalf("CollectSourceFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "App.java" {
		t.Errorf("expected only App.java, got %v", files)
	}
}

func TestFileHelperDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"pkg/A.java": "class A {}"})

	files, err := NewFileHelper().CollectSourceFiles([]string{root, filepath.Join(root, "pkg")}, nil, nil)
	if err != nil {
		t.Fatalf("CollectSourceFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %v", files)
	}
}

func TestFileHelperGitignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		".gitignore":          "generated/\n*.gen.java\n",
		"src/App.java":        "class App {}",
		"src/Model.gen.java":  "class Model {}",
		"generated/Gen.java":  "class Gen {}",
		"generated/more.java": "class More {}",
	})

	tests := []struct {
		name    string
		respect bool
		want    []string
	}{
		{
			name:    "respected",
			respect: true,
			want:    []string{"src/App.java"},
		},
		{
			name:    "ignored",
			respect: false,
			want:    []string{"generated/Gen.java", "generated/more.java", "src/App.java", "src/Model.gen.java"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := NewFileHelper(WithGitignore(tt.respect)).CollectSourceFiles([]string{root}, nil, nil)
			if err != nil {
				t.Fatalf("CollectSourceFiles failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, relativeAll(t, root, files)); diff != "" {
				t.Errorf("collected files mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileHelperIsSourceFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"App.java", true},
		{"dir/App.JAVA", true},
		{"App.class", false},
		{"App.jav", false},
		{"App.kt", false},
		{"java", false},
	}

	for _, tt := range tests {
		if got := helper.IsSourceFile(tt.path); got != tt.expected {
			t.Errorf("IsSourceFile(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestMatchesInclude(t *testing.T) {
	tests := []struct {
		rel      string
		patterns []string
		expected bool
	}{
		{"App.java", []string{"**/*.java"}, true},
		{"src/main/App.java", []string{"**/*.java"}, true},
		{"src/main/App.java", []string{"src/**/*.java"}, true},
		{"src/App.java", []string{"src/**/*.java"}, true},
		{"lib/main/App.java", []string{"src/**/*.java"}, false},
		{"src/main/java/a/b/App.java", []string{"src/main/java/**/*.java"}, true},
		{"src/main/App.java", []string{"**/main/*.java"}, true},
		{"src/App.java", []string{"src/*.java"}, true},
		{"lib/App.java", []string{"src/*.java"}, false},
		{"src/App.java", []string{"lib/*.java", "**/App.java"}, true},
	}

	for _, tt := range tests {
		if got := matchesInclude(tt.rel, tt.patterns); got != tt.expected {
			t.Errorf("matchesInclude(%s, %v) = %v, expected %v", tt.rel, tt.patterns, got, tt.expected)
		}
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name     string
		excludes []string
		expected bool
	}{
		{"target", []string{"target"}, true},
		{"Target", []string{"target"}, true},
		{"OrderTest.java", []string{"test"}, true},
		{"src", []string{"test"}, false},
		{"Foo.generated.java", []string{"*.generated.java"}, true},
		{"Foo.java", []string{"*.generated.java"}, false},
	}

	for _, tt := range tests {
		if got := isExcluded(tt.name, tt.excludes); got != tt.expected {
			t.Errorf("isExcluded(%s, %v) = %v, expected %v", tt.name, tt.excludes, got, tt.expected)
		}
	}
}

const ordersSource = `public class Orders {
    public int total(int a) {
        switch (a) {
            case 1: return 100;
        }
        return a * 42;
    }
}
`

func newAnalyzeUseCase(t *testing.T) *AnalyzeUseCase {
	t.Helper()
	uc, err := NewAnalyzeUseCaseBuilder().
		WithService(service.NewAnalysisService(nil, nil, nil, nil)).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return uc
}

func TestAnalyzeUseCaseBuildRequiresService(t *testing.T) {
	if _, err := NewAnalyzeUseCaseBuilder().Build(); err == nil {
		t.Error("expected an error without a service")
	}
}

func TestAnalyzeUseCaseExecute(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"src/Orders.java": ordersSource})

	var report, banner bytes.Buffer
	config := DefaultAnalyzeConfig()
	config.OutputWriter = &report
	config.BannerWriter = &banner

	result, err := newAnalyzeUseCase(t).Execute(context.Background(), config, []string{root})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.TotalFiles != 1 || result.ProcessedFiles != 1 {
		t.Errorf("expected 1 processed file, got %d/%d", result.ProcessedFiles, result.TotalFiles)
	}
	if result.TotalIssues() == 0 {
		t.Fatal("expected issues for Orders.java")
	}
	for _, issue := range result.Issues {
		if issue.File != "src/Orders.java" {
			t.Errorf("expected paths relative to the root, got %s", issue.File)
		}
	}

	validation := reporter.Validate(report.String())
	if !validation.IsValid {
		t.Errorf("written report should validate, errors: %v", validation.Errors)
	}
	if !strings.Contains(banner.String(), "Grade: "+result.Grade.Letter) {
		t.Errorf("expected the grade banner, got %q", banner.String())
	}
}

func TestAnalyzeUseCaseNoBannerForJSON(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"Orders.java": ordersSource})

	var out, banner bytes.Buffer
	config := DefaultAnalyzeConfig()
	config.OutputFormat = domain.OutputFormatJSON
	config.OutputWriter = &out
	config.BannerWriter = &banner

	if _, err := newAnalyzeUseCase(t).Execute(context.Background(), config, []string{root}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		t.Errorf("expected JSON output, got %q", out.String())
	}
	if banner.Len() != 0 {
		t.Errorf("expected no banner for JSON output, got %q", banner.String())
	}
}

func TestAnalyzeUseCaseEmptyRoot(t *testing.T) {
	result, err := newAnalyzeUseCase(t).Execute(context.Background(), DefaultAnalyzeConfig(), []string{filepath.Join(t.TempDir(), "missing")})
	if err != nil {
		t.Fatalf("expected an empty result, got error %v", err)
	}
	if result.TotalFiles != 0 || result.Grade.Letter != domain.GradeNotApplicable {
		t.Errorf("expected an empty N/A result, got %d files grade %s", result.TotalFiles, result.Grade.Letter)
	}
}

func TestAnalyzeUseCaseNoPaths(t *testing.T) {
	_, err := newAnalyzeUseCase(t).Execute(context.Background(), DefaultAnalyzeConfig(), nil)

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeInvalidInput {
		t.Errorf("expected an invalid input error, got %v", err)
	}
}

func TestAnalyzeUseCaseCancelled(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"Orders.java": ordersSource})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnalyzeUseCase(t).Execute(ctx, DefaultAnalyzeConfig(), []string{root})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func resultWith(counts map[domain.Severity]int, loc int) *domain.AnalysisResult {
	result := domain.NewAnalysisResult()
	result.TotalFiles = 1
	result.TotalLOC = loc
	for sev, n := range counts {
		for i := 0; i < n; i++ {
			result.AddIssue(domain.Issue{Kind: domain.KindMagicNumber, File: "A.java", Line: i + 1, Severity: sev, Message: "m"})
		}
	}
	result.Grade = domain.CalculateGrade(result.SeverityCounts, result.TotalLOC)
	return result
}

func TestEvaluateCheck(t *testing.T) {
	tests := []struct {
		name     string
		result   *domain.AnalysisResult
		req      domain.CheckRequest
		wantExit int
		rules    []string
	}{
		{
			name:     "clean code passes",
			result:   resultWith(nil, 1000),
			req:      domain.CheckRequest{MinGrade: "A", MaxCritical: 0},
			wantExit: ExitCheckPassed,
		},
		{
			name:     "grade below minimum",
			result:   resultWith(map[domain.Severity]int{domain.SeverityHigh: 40}, 1000),
			req:      domain.CheckRequest{MinGrade: "B", MaxCritical: -1},
			wantExit: ExitCheckViolated,
			rules:    []string{RuleMinGrade},
		},
		{
			name:     "too many critical issues",
			result:   resultWith(map[domain.Severity]int{domain.SeverityCritical: 2}, 100000),
			req:      domain.CheckRequest{MaxCritical: 1},
			wantExit: ExitCheckViolated,
			rules:    []string{RuleMaxCritical},
		},
		{
			name:     "negative max critical disables the rule",
			result:   resultWith(map[domain.Severity]int{domain.SeverityCritical: 2}, 100000),
			req:      domain.CheckRequest{MaxCritical: -1},
			wantExit: ExitCheckPassed,
		},
		{
			name:     "both rules",
			result:   resultWith(map[domain.Severity]int{domain.SeverityCritical: 30}, 1000),
			req:      domain.CheckRequest{MinGrade: "C", MaxCritical: 0},
			wantExit: ExitCheckViolated,
			rules:    []string{RuleMinGrade, RuleMaxCritical},
		},
		{
			name:     "not applicable grade never fails",
			result:   resultWith(nil, 0),
			req:      domain.CheckRequest{MinGrade: "A", MaxCritical: 0},
			wantExit: ExitCheckPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := EvaluateCheck(tt.result, tt.req)

			if check.ExitCode != tt.wantExit {
				t.Errorf("expected exit code %d, got %d (%v)", tt.wantExit, check.ExitCode, check.Violations)
			}
			if check.Passed != (tt.wantExit == ExitCheckPassed) {
				t.Errorf("Passed = %v with exit code %d", check.Passed, check.ExitCode)
			}
			var rules []string
			for _, v := range check.Violations {
				rules = append(rules, v.Rule)
			}
			if diff := cmp.Diff(tt.rules, rules); diff != "" {
				t.Errorf("violated rules mismatch (-want +got):\n%s", diff)
			}
			if check.Summary.Grade != tt.result.Grade.Letter {
				t.Errorf("summary grade %s, want %s", check.Summary.Grade, tt.result.Grade.Letter)
			}
		})
	}
}

func TestCheckUseCaseInvalidGrade(t *testing.T) {
	uc := NewCheckUseCase(newAnalyzeUseCase(t))
	_, err := uc.Execute(context.Background(), DefaultAnalyzeConfig(), domain.CheckRequest{MinGrade: "Z"}, []string{t.TempDir()})
	if err == nil {
		t.Error("expected an error for an unknown grade")
	}
}

func TestCheckUseCaseExecute(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"Orders.java": ordersSource})

	uc := NewCheckUseCase(newAnalyzeUseCase(t))
	check, err := uc.Execute(context.Background(), DefaultAnalyzeConfig(), domain.CheckRequest{MaxCritical: -1}, []string{root})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !check.Passed || check.Summary.FilesAnalyzed != 1 {
		t.Errorf("expected a passing check over 1 file, got %+v", check)
	}
}

func TestReportUseCase(t *testing.T) {
	result := resultWith(map[domain.Severity]int{domain.SeverityLow: 2}, 100)
	dir := t.TempDir()
	good := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(good, []byte(reporter.Render(result)), 0644); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
	tampered := filepath.Join(dir, "tampered.txt")
	text := strings.Replace(reporter.Render(result), "Low: 2", "Low: 5", 1)
	if err := os.WriteFile(tampered, []byte(text), 0644); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	uc := NewReportUseCase()

	validation, err := uc.Validate(good)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !validation.IsValid {
		t.Errorf("expected a valid report, errors: %v", validation.Errors)
	}

	validation, err = uc.Validate(tampered)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if validation.IsValid {
		t.Error("expected the tampered report to be invalid")
	}

	highlights, err := uc.Highlight(good)
	if err != nil {
		t.Fatalf("Highlight failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, highlights["A.java"][domain.KindMagicNumber]); diff != "" {
		t.Errorf("highlight lines mismatch (-want +got):\n%s", diff)
	}

	if _, err := uc.Validate(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected an error for a missing report")
	}
}
