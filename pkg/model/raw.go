// pkg/model/raw.go
package model

// Raw rows are the unparsed string values read from the source files.
// Empty strings mean the column was absent in the source row.

// RawCustomer mirrors the customers source columns.
type RawCustomer struct {
	CustomerID       string
	Email            string
	Phone            string
	RegistrationDate string
}

// RawProduct mirrors the products source columns.
type RawProduct struct {
	ProductID     string
	ProductName   string
	Category      string
	Price         string
	StockQuantity string
}

// RawSale mirrors the sales source columns.
type RawSale struct {
	CustomerID      string
	ProductID       string
	TransactionDate string
	Quantity        string
	UnitPrice       string
}
