package normalize

import (
	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/google/uuid"
)

// LineItem decodes a loosely shaped line item map into the canonical
// form. The backend and older clients disagree on field names, so every
// known alias is accepted; the first match wins.
func LineItem(m map[string]any) entity.LineItem {
	return entity.LineItem{
		LocalID:     uuid.New(),
		ItemName:    FirstString(m, "item_name", "name", "title"),
		Description: FirstString(m, "description", "item_description"),
		Quantity:    FirstNumber(m, "quantity", "qty"),
		Unit:        FirstString(m, "unit", "unit_type"),
		UnitPrice:   FirstNumber(m, "unit_price", "rate", "price"),
		TaxRate:     FirstNumber(m, "tax_rate", "tax"),
		// Amount is intentionally not read from the wire; callers
		// recompute it from the decoded fields
	}
}
