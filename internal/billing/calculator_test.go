package billing

import (
	"testing"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(qty, price, tax float64) entity.LineItem {
	return entity.LineItem{
		Quantity:  decimal.NewFromFloat(qty),
		UnitPrice: decimal.NewFromFloat(price),
		TaxRate:   decimal.NewFromFloat(tax),
	}
}

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name     string
		item     entity.LineItem
		expected string
	}{
		{
			name:     "plain quantity times price",
			item:     item(2, 50, 0),
			expected: "100",
		},
		{
			name:     "with tax",
			item:     item(2, 50, 10),
			expected: "110",
		},
		{
			name:     "zero quantity is valid",
			item:     item(0, 500, 10),
			expected: "0",
		},
		{
			name:     "zero price is valid",
			item:     item(3, 0, 10),
			expected: "0",
		},
		{
			name:     "fractional quantity",
			item:     item(1.5, 10, 0),
			expected: "15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ItemAmount(tt.item).Equal(decimal.RequireFromString(tt.expected)),
				"got %s", ItemAmount(tt.item))
		})
	}
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	items := []entity.LineItem{item(2, 50, 10)}

	totals := ComputeTotals(items, decimal.NewFromInt(10), entity.DiscountPercent)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(10)), "tax %s", totals.Tax)
	assert.True(t, totals.Discount.Equal(decimal.NewFromInt(10)), "discount %s", totals.Discount)
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(100)), "total %s", totals.GrandTotal)
	assert.False(t, totals.Clamped)
}

func TestComputeTotalsFlatDiscount(t *testing.T) {
	items := []entity.LineItem{item(2, 50, 0)}

	totals := ComputeTotals(items, decimal.NewFromInt(25), entity.DiscountFlat)

	assert.True(t, totals.Discount.Equal(decimal.NewFromInt(25)))
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(75)))
}

// The identity subtotal + tax - discount = grand total must hold for
// every input that does not trip the clamp
func TestTotalsIdentity(t *testing.T) {
	cases := [][]entity.LineItem{
		{},
		{item(1, 1, 0)},
		{item(2, 50, 10), item(3, 19.99, 5)},
		{item(0, 0, 0), item(10, 0.01, 20)},
	}

	for _, items := range cases {
		totals := ComputeTotals(items, decimal.NewFromInt(5), entity.DiscountPercent)
		sum := totals.Subtotal.Add(totals.Tax).Sub(totals.Discount)
		require.True(t, totals.GrandTotal.Equal(sum),
			"identity broken: %s != %s", totals.GrandTotal, sum)
	}
}

func TestGrandTotalClampsAtZero(t *testing.T) {
	items := []entity.LineItem{item(1, 10, 0)}

	totals := ComputeTotals(items, decimal.NewFromInt(50), entity.DiscountFlat)

	assert.True(t, totals.GrandTotal.IsZero(), "got %s", totals.GrandTotal)
	assert.True(t, totals.Clamped)
}

func TestApplyTotalsRecomputesEverything(t *testing.T) {
	doc := &entity.Document{
		Discount:     decimal.NewFromInt(10),
		DiscountType: entity.DiscountPercent,
		Items: []entity.LineItem{
			// Stale amount from the wire must be overwritten
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50), TaxRate: decimal.NewFromInt(10), Amount: decimal.NewFromInt(999)},
		},
	}

	ApplyTotals(doc)

	assert.True(t, doc.Items[0].Amount.Equal(decimal.NewFromInt(110)), "amount %s", doc.Items[0].Amount)
	assert.True(t, doc.SubTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, doc.TaxAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, doc.DiscountAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(100)))
}
