package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ludo-technologies/smellscan/domain"
)

// ProgressManagerImpl draws one progress bar per analysis run, with the
// running issue count in the bar description
type ProgressManagerImpl struct {
	writer io.Writer

	mu   sync.Mutex
	runs []*runProgress
}

// NewProgressManager returns a bar-drawing manager on an interactive stderr
// and a no-op manager otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return newProgressManager(os.Stderr)
	}
	return NoOpProgressManager{}
}

func newProgressManager(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

// IsInteractiveEnvironment reports whether stderr is a terminal outside of CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StartRun starts a bar over the given number of files
func (pm *ProgressManagerImpl) StartRun(files int) domain.RunProgress {
	bar := progressbar.NewOptions(files,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(describeRun(0, 0)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	run := &runProgress{bar: bar}
	pm.mu.Lock()
	pm.runs = append(pm.runs, run)
	pm.mu.Unlock()
	return run
}

// IsInteractive is always true for a bar-drawing manager
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes every bar still on screen
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	runs := pm.runs
	pm.runs = nil
	pm.mu.Unlock()

	for _, run := range runs {
		run.Complete()
	}
}

// runProgress is safe for concurrent FileDone calls from the workers
type runProgress struct {
	bar *progressbar.ProgressBar

	mu       sync.Mutex
	files    int
	issues   int
	unparsed int
}

func (r *runProgress) FileDone(outcome domain.FileOutcome) {
	r.mu.Lock()
	r.files++
	r.issues += outcome.Issues
	if !outcome.Parsed {
		r.unparsed++
	}
	desc := describeRun(r.issues, r.unparsed)
	r.mu.Unlock()

	r.bar.Describe(desc)
	_ = r.bar.Add(1)
}

func (r *runProgress) Complete() {
	_ = r.bar.Finish()
}

func describeRun(issues, unparsed int) string {
	desc := fmt.Sprintf("Analyzing (%d issues", issues)
	if unparsed > 0 {
		desc += fmt.Sprintf(", %d unparsed", unparsed)
	}
	return desc + ")"
}

// NoOpProgressManager is used for non-interactive and machine-readable runs
type NoOpProgressManager struct{}

func (NoOpProgressManager) StartRun(int) domain.RunProgress { return noOpRunProgress{} }

func (NoOpProgressManager) IsInteractive() bool { return false }

func (NoOpProgressManager) Close() {}

type noOpRunProgress struct{}

func (noOpRunProgress) FileDone(domain.FileOutcome) {}

func (noOpRunProgress) Complete() {}
