package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
	"github.com/ludo-technologies/smellscan/internal/detector"
	"github.com/ludo-technologies/smellscan/internal/parser"
	"github.com/ludo-technologies/smellscan/internal/version"
)

// AnalysisServiceImpl runs the detector registry over a set of Java files.
// Files are analyzed concurrently, each into its own result slot, and the
// slots are reduced in file order so the result does not depend on scheduling.
type AnalysisServiceImpl struct {
	registry  *detector.Registry
	collector domain.FileCollector
	executor  *ParallelExecutorImpl
	logger    *zap.Logger

	readFile func(string) ([]byte, error)
	now      func() time.Time
}

// NewAnalysisService creates the analysis orchestrator. Nil arguments fall
// back to the default registry, an executor with one worker per CPU and a
// no-op logger.
func NewAnalysisService(registry *detector.Registry, collector domain.FileCollector, executor *ParallelExecutorImpl, logger *zap.Logger) *AnalysisServiceImpl {
	if registry == nil {
		registry = detector.DefaultRegistry()
	}
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisServiceImpl{
		registry:  registry,
		collector: collector,
		executor:  executor,
		logger:    logger,
		readFile:  os.ReadFile,
		now:       time.Now,
	}
}

// fileResult is the slot a single file task writes into
type fileResult struct {
	issues []domain.Issue
	parsed bool
	loc    int
	stats  parser.Stats
}

// fileTask analyzes one file into its own result slot
type fileTask struct {
	service   *AnalysisServiceImpl
	path      string
	display   string
	detectors []detector.Configured
	logger    *zap.Logger
	slot      *fileResult
}

func (t *fileTask) File() string { return t.display }

func (t *fileTask) Run(ctx context.Context) domain.FileOutcome {
	*t.slot = t.service.analyzeFile(ctx, t.path, t.display, t.detectors, t.logger)
	return domain.FileOutcome{File: t.display, Issues: len(t.slot.issues), Parsed: t.slot.parsed}
}

// Analyze runs every enabled detector over the files of the request
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	start := s.now()
	runID := uuid.New().String()
	logger := s.logger.With(zap.String("run_id", runID))

	files := req.Files
	if len(files) == 0 {
		collected, err := s.collectFiles(req)
		if err != nil {
			return nil, domain.NewAnalysisError("failed to collect source files", err)
		}
		files = collected
	}
	logger.Debug("starting analysis", zap.String("root", req.Root), zap.Int("files", len(files)))

	s.warnUnknownDetectors(req.Detectors, logger)
	configured := s.registry.Configure(req.Detectors)


	slots := make([]fileResult, len(files))
	tasks := make([]domain.FileTask, len(files))
	for i, path := range files {
		display := displayPath(req.Root, path)
		tasks[i] = &fileTask{
			service:   s,
			path:      path,
			display:   display,
			detectors: configured,
			logger:    logger.With(zap.String("file", display)),
			slot:      &slots[i],
		}
	}

	if err := s.executor.ExecuteWithWorkers(ctx, tasks, req.Concurrency); err != nil {
		logger.Warn("analysis interrupted", zap.Error(err))
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	result := domain.NewAnalysisResult()
	result.RunID = runID
	result.Root = req.Root
	result.TotalFiles = len(files)

	for _, slot := range slots {
		for _, issue := range slot.issues {
			result.AddIssue(issue)
		}
		if !slot.parsed {
			continue
		}
		result.ProcessedFiles++
		result.TotalLOC += slot.loc
		result.TotalClasses += slot.stats.Classes
		result.TotalMethods += slot.stats.Methods
		result.ComplexityProxy += slot.stats.Branches
	}

	result.Grade = domain.CalculateGrade(result.SeverityCounts, result.TotalLOC)
	result.GeneratedAt = s.now().Format(time.RFC3339)
	result.Version = version.GetVersion()
	result.DurationMs = s.now().Sub(start).Milliseconds()

	logger.Info("analysis finished",
		zap.Int("files", result.TotalFiles),
		zap.Int("processed", result.ProcessedFiles),
		zap.Int("issues", result.TotalIssues()),
		zap.String("grade", result.Grade.Letter))

	return result, nil
}

func (s *AnalysisServiceImpl) collectFiles(req domain.AnalyzeRequest) ([]string, error) {
	if s.collector == nil || req.Root == "" {
		return nil, nil
	}
	return s.collector.CollectSourceFiles([]string{req.Root}, req.IncludePatterns, req.ExcludePatterns)
}

// analyzeFile parses one file and runs the detectors on it in registry order
func (s *AnalysisServiceImpl) analyzeFile(ctx context.Context, path, display string, detectors []detector.Configured, logger *zap.Logger) fileResult {
	content, err := s.readFile(path)
	if err != nil {
		logger.Warn("cannot read file", zap.Error(err))
		return fileResult{issues: []domain.Issue{domain.NewParseErrorIssue(display, err)}}
	}

	src, err := parser.ParseSourceContext(ctx, display, content)
	if err != nil {
		logger.Warn("cannot parse file", zap.Error(err))
		return fileResult{issues: []domain.Issue{domain.NewParseErrorIssue(display, err)}}
	}

	res := fileResult{
		parsed: true,
		loc:    src.LOC(),
		stats:  src.Stats(),
	}
	for _, c := range detectors {
		if ctx.Err() != nil {
			break
		}
		issues, err := runDetector(c, src)
		if err != nil {
			logger.Warn("detector failed", zap.String("detector", c.Detector.Name()), zap.Error(err))
			res.issues = append(res.issues, domain.NewDetectorErrorIssue(display, c.Detector.Name(), err))
			continue
		}
		res.issues = append(res.issues, issues...)
	}
	return res
}

// runDetector calls Detect and turns a panic into an error
func runDetector(c detector.Configured, src *parser.Source) (issues []domain.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Detector.Detect(src, c.Settings)
}

func (s *AnalysisServiceImpl) warnUnknownDetectors(cfg domain.DetectorConfig, logger *zap.Logger) {
	if len(cfg) == 0 {
		return
	}
	c := config.Config{Detectors: cfg}
	for _, err := range c.UnknownDetectors(s.registry.Names()) {
		logger.Warn("ignoring detector configuration", zap.Error(err))
	}
}

// displayPath returns path relative to root with forward slashes.
// Paths outside root are returned unchanged.
func displayPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	base := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
