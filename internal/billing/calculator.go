// Package billing implements line-item arithmetic and the document
// line-item editor. All money math uses decimals; float input is
// converted once at the boundary and never accumulated.
package billing

import (
	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemAmount computes a line item's derived amount:
// quantity*unit_price plus per-item tax on that value.
func ItemAmount(it entity.LineItem) decimal.Decimal {
	base := it.Quantity.Mul(it.UnitPrice)
	return base.Add(base.Mul(it.TaxRate).Div(hundred))
}

// Subtotal sums quantity*unit_price over all items, before tax
func Subtotal(items []entity.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total
}

// TaxTotal sums per-item tax over all items
func TaxTotal(items []entity.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice).Mul(it.TaxRate).Div(hundred))
	}
	return total
}

// DiscountAmount resolves a document discount to an absolute amount
func DiscountAmount(subtotal, discount decimal.Decimal, kind entity.DiscountType) decimal.Decimal {
	if kind == entity.DiscountPercent {
		return subtotal.Mul(discount).Div(hundred)
	}
	return discount
}

// Totals holds every derived document-level figure. GrandTotal is
// clamped at zero; Clamped reports when the raw value was negative so
// callers can warn instead of silently presenting a wrapped figure.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
	Clamped    bool
}

// ComputeTotals derives all document totals from the item list and the
// document discount. Tax is always computed on the pre-discount
// subtotal, matching the per-item amounts.
func ComputeTotals(items []entity.LineItem, discount decimal.Decimal, kind entity.DiscountType) Totals {
	sub := Subtotal(items)
	tax := TaxTotal(items)
	disc := DiscountAmount(sub, discount, kind)

	grand := sub.Add(tax).Sub(disc)
	clamped := grand.IsNegative()
	if clamped {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:   sub,
		Tax:        tax,
		Discount:   disc,
		GrandTotal: grand,
		Clamped:    clamped,
	}
}

// ApplyTotals recomputes every item amount and writes the document-level
// totals back onto the document. Called on every create/update so stored
// totals never drift from the item list.
func ApplyTotals(doc *entity.Document) {
	for i := range doc.Items {
		doc.Items[i].Amount = ItemAmount(doc.Items[i])
	}
	t := ComputeTotals(doc.Items, doc.Discount, doc.DiscountType)
	doc.SubTotal = t.Subtotal
	doc.TaxAmount = t.Tax
	doc.DiscountAmount = t.Discount
	doc.Total = t.GrandTotal
}
