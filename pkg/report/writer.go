// pkg/report/writer.go
package report

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Writer emits the quality report to a durable file. It is constructed
// once per run and must only be invoked after a successful commit.
type Writer struct {
	path   string
	logger *zap.Logger
}

// NewWriter creates a new report writer
func NewWriter(path string, logger *zap.Logger) (*Writer, error) {
	if path == "" {
		return nil, errors.New("report path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Writer{path: path, logger: logger}, nil
}

// Write persists the report, replacing any previous run's report.
func (w *Writer) Write(q *Quality) error {
	if err := os.WriteFile(w.path, []byte(q.Summary()), 0o644); err != nil {
		return fmt.Errorf("writing quality report to %s: %w", w.path, err)
	}

	w.logger.Info("Wrote data quality report",
		zap.String("path", w.path),
		zap.String("runID", q.RunID),
		zap.Int("customersLoaded", q.CustomersLoaded),
		zap.Int("productsLoaded", q.ProductsLoaded),
		zap.Int("ordersLoaded", q.OrdersLoaded),
		zap.Int("ordersSkipped", q.OrdersSkipped),
		zap.Duration("duration", q.Duration()))

	return nil
}
