package billing

import (
	"errors"
	"fmt"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/normalize"
	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange is returned when an edit addresses a row that
	// does not exist
	ErrIndexOutOfRange = errors.New("line item index out of range")
	// ErrNotConfirmed is returned when a removal is attempted without
	// user confirmation
	ErrNotConfirmed = errors.New("line item removal not confirmed")
)

// Editor maintains the ordered line-item list of one document draft.
// Rows are addressed by position to match the wire format, but each row
// also carries a stable LocalID assigned at creation so callers can
// track rows across edits.
type Editor struct {
	items []entity.LineItem
}

// NewEditor creates an editor seeded with existing items, assigning a
// LocalID to any row that lacks one and recomputing every amount
func NewEditor(items []entity.LineItem) *Editor {
	copied := make([]entity.LineItem, len(items))
	copy(copied, items)
	for i := range copied {
		if copied[i].LocalID == uuid.Nil {
			copied[i].LocalID = uuid.New()
		}
		copied[i].Amount = ItemAmount(copied[i])
	}
	return &Editor{items: copied}
}

// AddItem appends a blank or manually entered row. The amount is
// computed immediately, never left stale.
func (e *Editor) AddItem(item entity.LineItem) entity.LineItem {
	if item.LocalID == uuid.Nil {
		item.LocalID = uuid.New()
	}
	item.Amount = ItemAmount(item)
	e.items = append(e.items, item)
	return item
}

// AddFromCatalog appends a row seeded from a stored catalog item with
// quantity one
func (e *Editor) AddFromCatalog(ci entity.CatalogItem) entity.LineItem {
	return e.AddItem(entity.LineItem{
		ItemName:    ci.ItemName,
		Description: ci.Description,
		Quantity:    normalize.Number(1),
		Unit:        ci.Unit,
		UnitPrice:   ci.UnitPrice,
		TaxRate:     ci.TaxRate,
	})
}

// UpdateItem mutates one field of one row by position. Numeric fields
// accept arbitrary input and coerce unparseable values to zero. The
// row's amount is recomputed when an affecting field changes; sibling
// rows are never touched.
func (e *Editor) UpdateItem(index int, field string, value any) error {
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	it := &e.items[index]
	switch field {
	case "item_name":
		it.ItemName, _ = value.(string)
	case "description":
		it.Description, _ = value.(string)
	case "unit":
		it.Unit, _ = value.(string)
	case "quantity":
		it.Quantity = normalize.Number(value)
	case "unit_price":
		it.UnitPrice = normalize.Number(value)
	case "tax_rate":
		it.TaxRate = normalize.Number(value)
	default:
		return fmt.Errorf("unknown line item field: %s", field)
	}

	switch field {
	case "quantity", "unit_price", "tax_rate":
		it.Amount = ItemAmount(*it)
	}
	return nil
}

// RemoveItem removes a row by position. The caller passes the outcome
// of the user confirmation dialog; without it the list is untouched.
func (e *Editor) RemoveItem(index int, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	e.items = append(e.items[:index], e.items[index+1:]...)
	return nil
}

// Items returns a copy of the current rows
func (e *Editor) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Len returns the number of rows
func (e *Editor) Len() int {
	return len(e.items)
}

// Totals derives the document-level figures for the current rows
func (e *Editor) Totals(discount any, kind entity.DiscountType) Totals {
	return ComputeTotals(e.items, normalize.Number(discount), kind)
}
