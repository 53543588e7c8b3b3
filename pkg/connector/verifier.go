// pkg/connector/verifier.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TableCounts returns the current row count of each target table. The
// run verifies after commit that the sink holds at least the rows it
// just loaded; earlier runs may have contributed more.
func (c *PostgresConnector) TableCounts(ctx context.Context, tables []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))

	for _, table := range tables {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := c.db.GetContext(ctx, &n, query); err != nil {
			return nil, fmt.Errorf("counting rows in %s: %w", table, err)
		}
		counts[table] = n
	}

	c.logger.Debug("Collected target table counts", zap.Any("counts", counts))
	return counts, nil
}

// VerifyLoaded checks that each table holds at least the number of rows
// loaded by this run. A shortfall means the commit did not land and is
// reported as an error.
func (c *PostgresConnector) VerifyLoaded(ctx context.Context, loaded map[string]int64) error {
	tables := make([]string, 0, len(loaded))
	for table := range loaded {
		tables = append(tables, table)
	}

	counts, err := c.TableCounts(ctx, tables)
	if err != nil {
		return err
	}

	for table, want := range loaded {
		if counts[table] < want {
			return fmt.Errorf("verification failed for %s: loaded %d rows this run but table holds %d",
				table, want, counts[table])
		}
	}

	c.logger.Info("Verified loaded row counts", zap.Any("counts", counts))
	return nil
}
