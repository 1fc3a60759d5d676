package app

import (
	"os"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/reporter"
)

// ReportUseCase works on persisted text reports
type ReportUseCase struct {
	readFile func(string) ([]byte, error)
}

// NewReportUseCase creates a new report use case
func NewReportUseCase() *ReportUseCase {
	return &ReportUseCase{readFile: os.ReadFile}
}

// Validate reads a report file and checks it against its own declared counts
func (uc *ReportUseCase) Validate(path string) (domain.ValidationResult, error) {
	text, err := uc.read(path)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return reporter.Validate(text), nil
}

// Highlight reads a report file and groups its issue lines by file and type.
// Lines that break the report grammar are skipped.
func (uc *ReportUseCase) Highlight(path string) (domain.HighlightMap, error) {
	text, err := uc.read(path)
	if err != nil {
		return nil, err
	}
	return reporter.HighlightMap(reporter.Parse(text)), nil
}

func (uc *ReportUseCase) read(path string) (string, error) {
	data, err := uc.readFile(path)
	if err != nil {
		return "", domain.NewFileNotFoundError(path, err)
	}
	return string(data), nil
}
