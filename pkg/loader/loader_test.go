package loader_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/connector"
	"github.com/fleximart/data-ingress/pkg/loader"
	"github.com/fleximart/data-ingress/pkg/model"
)

// Money columns are TEXT in the test schema so decimal values round-trip
// without float formatting.
const testSchema = `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	phone TEXT,
	registration_date TEXT
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name TEXT NOT NULL,
	category TEXT,
	price TEXT NOT NULL,
	stock_quantity INTEGER NOT NULL
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	order_date TEXT
);
CREATE TABLE order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL REFERENCES orders(id),
	product_id INTEGER NOT NULL REFERENCES products(id),
	quantity INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	subtotal TEXT NOT NULL
);
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// A pooled :memory: database is a different database per
	// connection; pin the pool to one.
	db.SetMaxOpenConns(1)

	db.MustExec(testSchema)
	return db
}

func beginSink(t *testing.T, db *sqlx.DB) *connector.TxSink {
	t.Helper()
	tx, err := db.Beginx()
	require.NoError(t, err)
	return connector.NewTxSink(tx, zap.NewNop())
}

func newLoader(t *testing.T) *loader.Loader {
	t.Helper()
	l, err := loader.NewLoader(zap.NewNop())
	require.NoError(t, err)
	return l
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestLoader_Run_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	sink := beginSink(t, db)
	l := newLoader(t)

	set := loader.CleanedSet{
		Customers: []model.CustomerRecord{
			// C002 was a duplicate email collapsed into C001 at cleaning.
			{OriginalID: "C001", Email: "a@x.com", AliasIDs: []string{"C002"}},
			{OriginalID: "C003", Email: "b@x.com", RegistrationDate: date(2020, time.January, 15)},
		},
		Products: []model.ProductRecord{
			{OriginalID: "P001", Name: "Keyboard", Price: decimal.RequireFromString("29.99"), StockQuantity: 5},
		},
		Sales: []model.SaleRecord{
			// References the collapsed duplicate's original id.
			{CustomerOriginalID: "C002", ProductOriginalID: "P001", OrderDate: date(2020, time.February, 1), Quantity: 2, UnitPrice: decimal.RequireFromString("29.99")},
			// References a product never present in the cleaned set.
			{CustomerOriginalID: "C003", ProductOriginalID: "P999", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	result, err := l.Run(context.Background(), sink, set)
	require.NoError(t, err)

	require.Equal(t, 2, result.CustomersLoaded)
	require.Equal(t, 1, result.ProductsLoaded)
	require.Equal(t, 1, result.OrdersLoaded)
	require.Equal(t, 1, result.OrdersSkipped)

	// The alias resolves to the same generated id as the survivor.
	survivorID, ok := result.Customers.Resolve("C001")
	require.True(t, ok)
	aliasID, ok := result.Customers.Resolve("C002")
	require.True(t, ok)
	require.Equal(t, survivorID, aliasID)

	// Committed rows are visible outside the transaction.
	require.Equal(t, 2, count(t, db, "customers"))
	require.Equal(t, 1, count(t, db, "products"))
	require.Equal(t, 1, count(t, db, "orders"))
	require.Equal(t, 1, count(t, db, "order_items"))

	// The single order belongs to the survivor's generated id.
	var orderCustomerID int64
	require.NoError(t, db.Get(&orderCustomerID, "SELECT customer_id FROM orders"))
	require.Equal(t, survivorID, orderCustomerID)

	// Subtotal is exactly quantity x unit_price.
	var subtotal string
	require.NoError(t, db.Get(&subtotal, "SELECT subtotal FROM order_items"))
	require.Equal(t, "59.98", subtotal)
}

func TestLoader_Run_SkippedSaleInsertsNothing(t *testing.T) {
	db := newTestDB(t)
	sink := beginSink(t, db)
	l := newLoader(t)

	set := loader.CleanedSet{
		Customers: []model.CustomerRecord{
			{OriginalID: "C001", Email: "a@x.com"},
		},
		Sales: []model.SaleRecord{
			{CustomerOriginalID: "C001", ProductOriginalID: "P404", Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
		},
	}

	result, err := l.Run(context.Background(), sink, set)
	require.NoError(t, err)

	require.Equal(t, 0, result.OrdersLoaded)
	require.Equal(t, 1, result.OrdersSkipped)
	require.Equal(t, 0, count(t, db, "orders"))
	require.Equal(t, 0, count(t, db, "order_items"))
}

// failingSink passes everything through to the real sink except the
// order-item insert it is configured to fail.
type failingSink struct {
	*connector.TxSink
	itemInserts int
	failAt      int
}

func (s *failingSink) InsertOrderItem(ctx context.Context, item model.OrderItem) (int64, error) {
	s.itemInserts++
	if s.itemInserts == s.failAt {
		return 0, errors.New("constraint violation")
	}
	return s.TxSink.InsertOrderItem(ctx, item)
}

func TestLoader_Run_RollbackOnSinkError(t *testing.T) {
	db := newTestDB(t)
	sink := &failingSink{TxSink: beginSink(t, db), failAt: 3}
	l := newLoader(t)

	unitPrice := decimal.RequireFromString("10.00")
	set := loader.CleanedSet{
		Customers: []model.CustomerRecord{
			{OriginalID: "C001", Email: "a@x.com"},
		},
		Products: []model.ProductRecord{
			{OriginalID: "P001", Name: "Keyboard", Price: unitPrice, StockQuantity: 1},
		},
		Sales: []model.SaleRecord{
			{CustomerOriginalID: "C001", ProductOriginalID: "P001", Quantity: 1, UnitPrice: unitPrice},
			{CustomerOriginalID: "C001", ProductOriginalID: "P001", Quantity: 2, UnitPrice: unitPrice},
			{CustomerOriginalID: "C001", ProductOriginalID: "P001", Quantity: 3, UnitPrice: unitPrice},
		},
	}

	_, err := l.Run(context.Background(), sink, set)
	require.Error(t, err)
	require.Equal(t, loader.KindSink, loader.KindOf(err))

	// All-or-nothing: nothing from the run persists after rollback.
	require.Equal(t, 0, count(t, db, "customers"))
	require.Equal(t, 0, count(t, db, "products"))
	require.Equal(t, 0, count(t, db, "orders"))
	require.Equal(t, 0, count(t, db, "order_items"))
}

func TestLoader_Run_EmptySetCommits(t *testing.T) {
	db := newTestDB(t)
	sink := beginSink(t, db)
	l := newLoader(t)

	result, err := l.Run(context.Background(), sink, loader.CleanedSet{})
	require.NoError(t, err)
	require.Equal(t, 0, result.CustomersLoaded)
	require.Equal(t, 0, result.OrdersSkipped)
}

func TestRunError_Kinds(t *testing.T) {
	cause := errors.New("boom")

	err := loader.NewSinkError(cause)
	require.Equal(t, loader.KindSink, loader.KindOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "SinkError")

	err = loader.NewSourceNotFoundError(cause)
	require.Equal(t, loader.KindSourceNotFound, loader.KindOf(err))

	err = loader.NewUnexpectedError(cause)
	require.Equal(t, loader.KindUnexpected, loader.KindOf(err))

	require.Nil(t, loader.NewSinkError(nil))
	require.Equal(t, loader.KindUnexpected, loader.KindOf(errors.New("unclassified")))
}
