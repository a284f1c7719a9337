package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind identifies which financial collection a document belongs to
type DocumentKind string

const (
	KindEstimate DocumentKind = "estimate"
	KindInvoice  DocumentKind = "invoice"
	KindProposal DocumentKind = "proposal"
	KindOrder    DocumentKind = "order"
)

// DiscountType selects between percentage and flat document discounts
type DiscountType string

const (
	DiscountPercent DiscountType = "%"
	DiscountFlat    DiscountType = "flat"
)

// LineItem is one row of a financial document. Amount is derived from the
// other fields and recomputed on every edit, never entered directly.
// LocalID identifies the row during editing; the wire format stays
// positional, so it is dropped at serialization time.
type LineItem struct {
	LocalID     uuid.UUID       `json:"-"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Document is an estimate, invoice, proposal or sales order. The stored
// totals are recomputed from Items on every write; readers trust them.
type Document struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	Kind           DocumentKind    `json:"kind"`
	Number         string          `json:"number"`
	ClientID       int64           `json:"client_id"`
	ProjectID      int64           `json:"project_id,omitempty"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   DiscountType    `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Items          []LineItem      `json:"items"`
	Note           string          `json:"note,omitempty"`
	Terms          string          `json:"terms,omitempty"`
	Description    string          `json:"description,omitempty"`
	ValidTill      *time.Time      `json:"valid_till,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	CreatedBy      int64           `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Document statuses, canonical casing
const (
	StatusDraft    = "Draft"
	StatusSent     = "Sent"
	StatusAccepted = "Accepted"
	StatusDeclined = "Declined"
	StatusPaid     = "Paid"
	StatusUnpaid   = "Unpaid"
	StatusPartial  = "Partially Paid"
)
