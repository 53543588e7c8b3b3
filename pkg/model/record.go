// pkg/model/record.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRecord is a cleaned customer row ready for loading.
// OriginalID is the source system's key (e.g. "C001") and is never
// persisted as a primary key; the sink assigns the real id on insert.
type CustomerRecord struct {
	OriginalID       string
	Email            string
	Phone            *string
	RegistrationDate *time.Time

	// AliasIDs are original ids of duplicate source rows collapsed into
	// this record during cleaning. They resolve to this record's
	// generated id at load time.
	AliasIDs []string
}

// ProductRecord is a cleaned product row. After cleaning, Price and
// StockQuantity are always present (missing values are imputed).
type ProductRecord struct {
	OriginalID    string
	Name          string
	Category      *string
	Price         decimal.Decimal
	StockQuantity int64

	// AliasIDs mirror CustomerRecord.AliasIDs for duplicate product rows.
	AliasIDs []string
}

// SaleRecord is a cleaned sales row. It still references the source
// keys; resolution to generated ids happens at load time.
type SaleRecord struct {
	CustomerOriginalID string
	ProductOriginalID  string
	OrderDate          *time.Time
	Quantity           int64
	UnitPrice          decimal.Decimal
}

// Order is the derived order row for a surviving sale.
type Order struct {
	CustomerID int64
	OrderDate  *time.Time
}

// OrderItem is the derived line item for an order. Subtotal is always
// Quantity x UnitPrice at construction time; it is never recomputed or
// stored independently.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// NewOrderItem builds a line item with the subtotal derived from
// quantity and unit price.
func NewOrderItem(orderID, productID, quantity int64, unitPrice decimal.Decimal) OrderItem {
	return OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}
