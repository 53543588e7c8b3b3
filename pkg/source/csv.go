// pkg/source/csv.go
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/model"
)

// ErrSourceNotFound indicates a required input file is absent. This is
// fatal and aborts the run before any sink write.
var ErrSourceNotFound = errors.New("source not found")

// Extract holds the raw row sets read from the three source tables.
type Extract struct {
	Customers []model.RawCustomer
	Products  []model.RawProduct
	Sales     []model.RawSale
}

// Extractor reads the raw tabular sources as structured row sets with
// named columns.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new Extractor instance
func NewExtractor(logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Extractor{logger: logger}, nil
}

// ExtractAll reads all three raw tables. Any missing source file fails
// the whole extraction.
func (e *Extractor) ExtractAll(customersPath, productsPath, salesPath string) (*Extract, error) {
	customers, err := e.ReadCustomers(customersPath)
	if err != nil {
		return nil, err
	}

	products, err := e.ReadProducts(productsPath)
	if err != nil {
		return nil, err
	}

	sales, err := e.ReadSales(salesPath)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Extracted raw tables",
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("sales", len(sales)))

	return &Extract{
		Customers: customers,
		Products:  products,
		Sales:     sales,
	}, nil
}

// ReadCustomers reads the customers source table
func (e *Extractor) ReadCustomers(path string) ([]model.RawCustomer, error) {
	columns, rows, err := e.readTable(path)
	if err != nil {
		return nil, err
	}

	customers := make([]model.RawCustomer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, model.RawCustomer{
			CustomerID:       columns.value(row, "customer_id"),
			Email:            columns.value(row, "email"),
			Phone:            columns.value(row, "phone"),
			RegistrationDate: columns.value(row, "registration_date"),
		})
	}

	return customers, nil
}

// ReadProducts reads the products source table
func (e *Extractor) ReadProducts(path string) ([]model.RawProduct, error) {
	columns, rows, err := e.readTable(path)
	if err != nil {
		return nil, err
	}

	products := make([]model.RawProduct, 0, len(rows))
	for _, row := range rows {
		products = append(products, model.RawProduct{
			ProductID:     columns.value(row, "product_id"),
			ProductName:   columns.value(row, "product_name"),
			Category:      columns.value(row, "category"),
			Price:         columns.value(row, "price"),
			StockQuantity: columns.value(row, "stock_quantity"),
		})
	}

	return products, nil
}

// ReadSales reads the sales source table
func (e *Extractor) ReadSales(path string) ([]model.RawSale, error) {
	columns, rows, err := e.readTable(path)
	if err != nil {
		return nil, err
	}

	sales := make([]model.RawSale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, model.RawSale{
			CustomerID:      columns.value(row, "customer_id"),
			ProductID:       columns.value(row, "product_id"),
			TransactionDate: columns.value(row, "transaction_date"),
			Quantity:        columns.value(row, "quantity"),
			UnitPrice:       columns.value(row, "unit_price"),
		})
	}

	return sales, nil
}

// columnIndex maps header names to their position in a row.
type columnIndex map[string]int

// value returns the named column from a row, or the empty string if the
// column is unknown or the row is short.
func (c columnIndex) value(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// readTable opens a CSV file and returns its column index and data rows.
// The first row is always headers.
func (e *Extractor) readTable(path string) (columnIndex, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading headers from %s: %w", path, err)
	}

	columns := make(columnIndex, len(headers))
	for i, name := range headers {
		columns[name] = i
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row from %s: %w", path, err)
		}
		rows = append(rows, row)
	}

	e.logger.Debug("Read source table",
		zap.String("path", path),
		zap.Int("rows", len(rows)))

	return columns, rows, nil
}
