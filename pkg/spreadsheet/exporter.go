package spreadsheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"go.uber.org/zap"
)

// Exporter writes scenario workbooks and logs what it produced.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter instance
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Export writes the workbook for a scenario and its computed schedule to w.
// Only the schedule's length and base payment are used.
func (e *Exporter) Export(w io.Writer, s loans.Scenario, schedule loans.Schedule) error {
	rowCount := schedule.Totals.MonthsToPayoff
	if err := Write(w, s, rowCount, schedule.BasePayment); err != nil {
		return err
	}

	e.logger.Debug(fmt.Sprintf("exported %d formula rows for scenario %s", rowCount, s.Name),
		zap.String("op", "spreadsheet.Export"),
	)
	return nil
}

// SaveToDir writes the scenario workbook into dir using the scenario's
// suggested filename and returns the path written.
func (e *Exporter) SaveToDir(dir string, s loans.Scenario, schedule loans.Schedule) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	name := s.Filename()
	if filepath.Base(name) != name {
		return "", fmt.Errorf("scenario %q does not map to a file name inside %s", s.Name, dir)
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := e.Export(file, s, schedule); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("wrote scenario workbook",
		zap.String("op", "spreadsheet.SaveToDir"),
		zap.String("scenario", s.Name),
		zap.String("path", path),
	)
	return path, nil
}
