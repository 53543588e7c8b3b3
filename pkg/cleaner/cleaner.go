// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/model"
)

// EntityCounts tracks the before/after row counts for one entity type.
type EntityCounts struct {
	Original int
	Cleaned  int
}

// Cleaner applies the per-entity deduplication, drop, normalization and
// imputation rules to raw source rows.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner creates a new Cleaner instance
func NewCleaner(logger *zap.Logger) (*Cleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Cleaner{logger: logger}, nil
}

// CleanCustomers deduplicates customers by email (first occurrence wins),
// drops rows missing the required email, and normalizes phone and
// registration date. Normalization failures leave the field absent; they
// never drop the row. Original ids of collapsed duplicates are kept as
// aliases so sales referencing them still resolve at load time.
func (c *Cleaner) CleanCustomers(raws []model.RawCustomer) ([]model.CustomerRecord, EntityCounts) {
	counts := EntityCounts{Original: len(raws)}

	// Email -> index of surviving record, or -1 when the first
	// occurrence was dropped for a missing email.
	seen := make(map[string]int, len(raws))
	cleaned := make([]model.CustomerRecord, 0, len(raws))

	for _, raw := range raws {
		if idx, dup := seen[raw.Email]; dup {
			if idx >= 0 && raw.CustomerID != "" {
				cleaned[idx].AliasIDs = append(cleaned[idx].AliasIDs, raw.CustomerID)
			}
			continue
		}

		// Email is required; rows without it are dropped.
		if strings.TrimSpace(raw.Email) == "" {
			seen[raw.Email] = -1
			continue
		}

		seen[raw.Email] = len(cleaned)
		cleaned = append(cleaned, model.CustomerRecord{
			OriginalID:       raw.CustomerID,
			Email:            raw.Email,
			Phone:            NormalizePhone(raw.Phone),
			RegistrationDate: ParseDate(raw.RegistrationDate),
		})
	}

	counts.Cleaned = len(cleaned)
	c.logger.Info("Cleaned customers",
		zap.Int("original", counts.Original),
		zap.Int("cleaned", counts.Cleaned))

	return cleaned, counts
}

// CleanProducts deduplicates products by name (first occurrence wins),
// normalizes the category label, and imputes missing values: price with
// the mean of all present prices in the batch, stock quantity with zero.
// The mean is computed after deduplication and before imputation, over
// present prices only. Original ids of collapsed duplicates are kept as
// aliases so sales referencing them still resolve at load time.
func (c *Cleaner) CleanProducts(raws []model.RawProduct) ([]model.ProductRecord, EntityCounts) {
	counts := EntityCounts{Original: len(raws)}

	seen := make(map[string]int, len(raws))
	kept := make([]model.RawProduct, 0, len(raws))
	aliases := make(map[int][]string)
	for _, raw := range raws {
		if idx, dup := seen[raw.ProductName]; dup {
			if raw.ProductID != "" {
				aliases[idx] = append(aliases[idx], raw.ProductID)
			}
			continue
		}
		seen[raw.ProductName] = len(kept)
		kept = append(kept, raw)
	}

	// Batch mean over present prices. Rows with a missing or unparseable
	// price do not count toward the denominator.
	var sum decimal.Decimal
	var present int64
	prices := make([]*decimal.Decimal, len(kept))
	for i, raw := range kept {
		if p, ok := parsePrice(raw.Price); ok {
			prices[i] = &p
			sum = sum.Add(p)
			present++
		}
	}

	mean := decimal.Zero
	if present > 0 {
		mean = sum.Div(decimal.NewFromInt(present))
	}

	cleaned := make([]model.ProductRecord, 0, len(kept))
	imputed := 0
	for i, raw := range kept {
		price := mean
		if prices[i] != nil {
			price = *prices[i]
		} else {
			imputed++
		}

		cleaned = append(cleaned, model.ProductRecord{
			OriginalID:    raw.ProductID,
			Name:          raw.ProductName,
			Category:      NormalizeCategory(raw.Category),
			Price:         price,
			StockQuantity: parseStock(raw.StockQuantity),
			AliasIDs:      aliases[i],
		})
	}

	counts.Cleaned = len(cleaned)
	c.logger.Info("Cleaned products",
		zap.Int("original", counts.Original),
		zap.Int("cleaned", counts.Cleaned),
		zap.Int("pricesImputed", imputed),
		zap.String("meanPrice", mean.String()))

	return cleaned, counts
}

// CleanSales deduplicates sales by full-row equality (first occurrence
// wins), parses the order date, and drops rows missing either reference
// key or carrying an unusable quantity or unit price. A date that fails
// every format is left absent; it does not drop the row.
func (c *Cleaner) CleanSales(raws []model.RawSale) ([]model.SaleRecord, EntityCounts) {
	counts := EntityCounts{Original: len(raws)}

	seen := make(map[model.RawSale]struct{}, len(raws))
	cleaned := make([]model.SaleRecord, 0, len(raws))

	for _, raw := range raws {
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		// Both reference keys are required to resolve foreign keys later.
		if strings.TrimSpace(raw.CustomerID) == "" || strings.TrimSpace(raw.ProductID) == "" {
			continue
		}

		quantity, err := strconv.ParseInt(strings.TrimSpace(raw.Quantity), 10, 64)
		if err != nil || quantity <= 0 {
			continue
		}

		unitPrice, ok := parsePrice(raw.UnitPrice)
		if !ok {
			continue
		}

		cleaned = append(cleaned, model.SaleRecord{
			CustomerOriginalID: raw.CustomerID,
			ProductOriginalID:  raw.ProductID,
			OrderDate:          ParseDate(raw.TransactionDate),
			Quantity:           quantity,
			UnitPrice:          unitPrice,
		})
	}

	counts.Cleaned = len(cleaned)
	c.logger.Info("Cleaned sales",
		zap.Int("original", counts.Original),
		zap.Int("cleaned", counts.Cleaned))

	return cleaned, counts
}

// parsePrice parses a non-negative decimal price. Missing, unparseable
// or negative values are treated as absent.
func parsePrice(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}

	price, err := decimal.NewFromString(trimmed)
	if err != nil || price.IsNegative() {
		return decimal.Zero, false
	}

	return price, true
}

// parseStock parses a non-negative stock quantity, imputing zero for
// missing or unusable values.
func parseStock(raw string) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}

	qty, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || qty < 0 {
		return 0
	}

	return qty
}
