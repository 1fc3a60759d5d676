package domain

import "context"

// FileOutcome summarizes one analyzed file for progress reporting
type FileOutcome struct {
	File   string
	Issues int
	Parsed bool
}

// ProgressManager reports the progress of analysis runs
type ProgressManager interface {
	StartRun(files int) RunProgress
	IsInteractive() bool
	Close()
}

// RunProgress receives one FileDone call per analyzed file
type RunProgress interface {
	FileDone(outcome FileOutcome)
	Complete()
}

// FileTask analyzes a single source file. Failures are reported as issues,
// so a task has no error of its own.
type FileTask interface {
	File() string
	Run(ctx context.Context) FileOutcome
}

// FileExecutor runs file tasks with bounded parallelism
type FileExecutor interface {
	Execute(ctx context.Context, tasks []FileTask) error
}
