package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fleximart/data-ingress/pkg/model"
)

func TestIdentityMap_RecordAndResolve(t *testing.T) {
	m := model.NewIdentityMap()

	m.Record("C001", 1)
	m.Record("C002", 2)

	id, ok := m.Resolve("C001")
	require.True(t, ok)
	require.Equal(t, int64(1), id)

	_, ok = m.Resolve("C999")
	require.False(t, ok)

	require.Equal(t, 2, m.Len())
	require.Equal(t, []string{"C001", "C002"}, m.OriginalIDs())
}

func TestIdentityMap_FirstRecordingWins(t *testing.T) {
	m := model.NewIdentityMap()

	m.Record("C001", 1)
	m.Record("C001", 99)

	id, ok := m.Resolve("C001")
	require.True(t, ok)
	require.Equal(t, int64(1), id)
	require.Equal(t, 1, m.Len())
}

func TestNewOrderItem_Subtotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int64
		unitPrice string
		expected  string
	}{
		{name: "simple", quantity: 2, unitPrice: "29.99", expected: "59.98"},
		{name: "quantity one", quantity: 1, unitPrice: "0.01", expected: "0.01"},
		{name: "large unit price", quantity: 3, unitPrice: "99999999.99", expected: "299999999.97"},
		{name: "zero price", quantity: 5, unitPrice: "0", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unitPrice := decimal.RequireFromString(tt.unitPrice)
			item := model.NewOrderItem(10, 20, tt.quantity, unitPrice)

			require.Equal(t, int64(10), item.OrderID)
			require.Equal(t, int64(20), item.ProductID)
			require.True(t, item.Subtotal.Equal(decimal.RequireFromString(tt.expected)),
				"subtotal = %s", item.Subtotal)
			require.True(t, item.Subtotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))))
		})
	}
}
