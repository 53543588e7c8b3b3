// pkg/connector/sink.go
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/model"
)

// TxSink is a transactional sink over a single database transaction.
// Every insert returns the sink-generated id; nothing is visible to
// other connections until Commit. Queries are written with ? bindvars
// and rebound per driver, so the same implementation serves PostgreSQL
// and SQLite.
type TxSink struct {
	tx     *sqlx.Tx
	logger *zap.Logger
}

// NewTxSink wraps an open transaction as a sink
func NewTxSink(tx *sqlx.Tx, logger *zap.Logger) *TxSink {
	return &TxSink{
		tx:     tx,
		logger: logger,
	}
}

// InsertCustomer inserts a customer row and returns the generated id
func (s *TxSink) InsertCustomer(ctx context.Context, rec model.CustomerRecord) (int64, error) {
	query := s.tx.Rebind(`
		INSERT INTO customers (email, phone, registration_date)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := s.tx.QueryRowxContext(ctx, query, rec.Email, rec.Phone, rec.RegistrationDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert customer %s: %w", rec.OriginalID, err)
	}
	return id, nil
}

// InsertProduct inserts a product row and returns the generated id
func (s *TxSink) InsertProduct(ctx context.Context, rec model.ProductRecord) (int64, error) {
	query := s.tx.Rebind(`
		INSERT INTO products (product_name, category, price, stock_quantity)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := s.tx.QueryRowxContext(ctx, query, rec.Name, rec.Category, rec.Price, rec.StockQuantity).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product %s: %w", rec.OriginalID, err)
	}
	return id, nil
}

// InsertOrder inserts an order row and returns the generated id
func (s *TxSink) InsertOrder(ctx context.Context, order model.Order) (int64, error) {
	query := s.tx.Rebind(`
		INSERT INTO orders (customer_id, order_date)
		VALUES (?, ?)
		RETURNING id
	`)

	var id int64
	err := s.tx.QueryRowxContext(ctx, query, order.CustomerID, order.OrderDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order for customer %d: %w", order.CustomerID, err)
	}
	return id, nil
}

// InsertOrderItem inserts an order item row and returns the generated id
func (s *TxSink) InsertOrderItem(ctx context.Context, item model.OrderItem) (int64, error) {
	query := s.tx.Rebind(`
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := s.tx.QueryRowxContext(ctx, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order item for order %d: %w", item.OrderID, err)
	}
	return id, nil
}

// Commit commits the run transaction
func (s *TxSink) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	s.logger.Debug("Transaction committed")
	return nil
}

// Rollback discards all inserts made in the run transaction. Rolling
// back an already-finished transaction is a no-op.
func (s *TxSink) Rollback() error {
	if err := s.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("rollback failed: %w", err)
	}
	s.logger.Debug("Transaction rolled back")
	return nil
}
