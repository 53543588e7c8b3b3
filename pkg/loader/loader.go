// pkg/loader/loader.go
package loader

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/model"
)

// Sink is the transactional relational store the loader writes to. Each
// insert returns the sink-generated id. All inserts across a run belong
// to a single transaction: Commit publishes everything, Rollback
// discards everything.
type Sink interface {
	InsertCustomer(ctx context.Context, rec model.CustomerRecord) (int64, error)
	InsertProduct(ctx context.Context, rec model.ProductRecord) (int64, error)
	InsertOrder(ctx context.Context, order model.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item model.OrderItem) (int64, error)
	Commit() error
	Rollback() error
}

// CleanedSet holds the cleaned record sets for one run, in load order.
type CleanedSet struct {
	Customers []model.CustomerRecord
	Products  []model.ProductRecord
	Sales     []model.SaleRecord
}

// Result summarizes a completed load.
type Result struct {
	CustomersLoaded int
	ProductsLoaded  int
	OrdersLoaded    int
	OrdersSkipped   int

	// Identity maps built during the run, read-only after completion.
	Customers *model.IdentityMap
	Products  *model.IdentityMap
}

// Loader persists cleaned records in dependency order: customers, then
// products, then orders with their items. Later phases resolve foreign
// keys through the identity maps built by earlier phases.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new Loader instance
func NewLoader(logger *zap.Logger) (*Loader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Loader{logger: logger}, nil
}

// Run loads the cleaned set through the sink inside its transaction.
// On any sink error the transaction is rolled back and the error is
// re-signaled as a SinkError; on success the transaction is committed
// before Run returns. Sales whose references do not resolve are skipped
// and counted, not failed.
func (l *Loader) Run(ctx context.Context, sink Sink, set CleanedSet) (*Result, error) {
	result := &Result{
		Customers: model.NewIdentityMap(),
		Products:  model.NewIdentityMap(),
	}

	if err := l.loadCustomers(ctx, sink, set.Customers, result); err != nil {
		return nil, l.abort(sink, err)
	}

	if err := l.loadProducts(ctx, sink, set.Products, result); err != nil {
		return nil, l.abort(sink, err)
	}

	if err := l.loadOrders(ctx, sink, set.Sales, result); err != nil {
		return nil, l.abort(sink, err)
	}

	if err := sink.Commit(); err != nil {
		return nil, l.abort(sink, err)
	}

	l.logger.Info("Load completed",
		zap.Int("customers", result.CustomersLoaded),
		zap.Int("products", result.ProductsLoaded),
		zap.Int("orders", result.OrdersLoaded),
		zap.Int("skipped", result.OrdersSkipped))

	return result, nil
}

// loadCustomers inserts each cleaned customer row in order and records
// the original-to-generated id mapping.
func (l *Loader) loadCustomers(ctx context.Context, sink Sink, customers []model.CustomerRecord, result *Result) error {
	for _, rec := range customers {
		id, err := sink.InsertCustomer(ctx, rec)
		if err != nil {
			return err
		}
		result.Customers.Record(rec.OriginalID, id)
		for _, alias := range rec.AliasIDs {
			result.Customers.Record(alias, id)
		}
		result.CustomersLoaded++
	}

	l.logger.Info("Loaded customers", zap.Int("count", result.CustomersLoaded))
	return nil
}

// loadProducts inserts each cleaned product row in order and records
// the original-to-generated id mapping.
func (l *Loader) loadProducts(ctx context.Context, sink Sink, products []model.ProductRecord, result *Result) error {
	for _, rec := range products {
		id, err := sink.InsertProduct(ctx, rec)
		if err != nil {
			return err
		}
		result.Products.Record(rec.OriginalID, id)
		for _, alias := range rec.AliasIDs {
			result.Products.Record(alias, id)
		}
		result.ProductsLoaded++
	}

	l.logger.Info("Loaded products", zap.Int("count", result.ProductsLoaded))
	return nil
}

// loadOrders creates one order and one order item per surviving sale.
// A sale whose customer or product id has no identity-map entry is
// skipped in full: no order and no order item are inserted for it.
func (l *Loader) loadOrders(ctx context.Context, sink Sink, sales []model.SaleRecord, result *Result) error {
	for _, sale := range sales {
		customerID, okCustomer := result.Customers.Resolve(sale.CustomerOriginalID)
		productID, okProduct := result.Products.Resolve(sale.ProductOriginalID)

		if !okCustomer || !okProduct {
			result.OrdersSkipped++
			l.logger.Debug("Skipping sale with unresolved reference",
				zap.String("customerID", sale.CustomerOriginalID),
				zap.String("productID", sale.ProductOriginalID),
				zap.Bool("customerResolved", okCustomer),
				zap.Bool("productResolved", okProduct))
			continue
		}

		orderID, err := sink.InsertOrder(ctx, model.Order{
			CustomerID: customerID,
			OrderDate:  sale.OrderDate,
		})
		if err != nil {
			return err
		}

		item := model.NewOrderItem(orderID, productID, sale.Quantity, sale.UnitPrice)
		if _, err := sink.InsertOrderItem(ctx, item); err != nil {
			return err
		}

		result.OrdersLoaded++
	}

	l.logger.Info("Loaded orders",
		zap.Int("count", result.OrdersLoaded),
		zap.Int("skipped", result.OrdersSkipped))
	return nil
}

// abort rolls the transaction back and re-signals the original failure
// as a sink error. A rollback failure is logged but never masks the
// original error.
func (l *Loader) abort(sink Sink, err error) error {
	if rbErr := sink.Rollback(); rbErr != nil {
		l.logger.Error("Failed to rollback transaction",
			zap.Error(rbErr),
			zap.NamedError("cause", err))
	}
	return NewSinkError(err)
}
