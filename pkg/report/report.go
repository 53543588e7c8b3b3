// pkg/report/report.go
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quality aggregates the data-quality counters for one run: per-entity
// original and cleaned/loaded counts plus the referential-skip count for
// sales. It is the terminal observable output of a successful run.
type Quality struct {
	RunID string

	CustomersOriginal int
	CustomersLoaded   int

	ProductsOriginal int
	ProductsLoaded   int

	SalesOriginal int
	OrdersLoaded  int
	OrdersSkipped int

	StartTime time.Time
	EndTime   time.Time
}

// NewQuality initializes a quality report for a new run
func NewQuality() *Quality {
	return &Quality{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
	}
}

// Complete marks the run as finished
func (q *Quality) Complete() {
	q.EndTime = time.Now()
}

// Duration returns how long the run took
func (q *Quality) Duration() time.Duration {
	return q.EndTime.Sub(q.StartTime)
}

const banner = "=================================================="

// Summary renders the report in its durable text layout.
func (q *Quality) Summary() string {
	var sb strings.Builder

	sb.WriteString(banner + "\n")
	sb.WriteString("DATA QUALITY REPORT\n")
	sb.WriteString(banner + "\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n", q.RunID))
	sb.WriteString(fmt.Sprintf("Customers processed: %d -> %d\n", q.CustomersOriginal, q.CustomersLoaded))
	sb.WriteString(fmt.Sprintf("Products processed: %d -> %d\n", q.ProductsOriginal, q.ProductsLoaded))
	sb.WriteString(fmt.Sprintf("Sales processed: %d -> %d (skipped: %d)\n", q.SalesOriginal, q.OrdersLoaded, q.OrdersSkipped))
	sb.WriteString(banner + "\n")
	sb.WriteString("ETL Completed Successfully\n")

	return sb.String()
}
