package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a tenant-scoped account ledger header
type BankAccount struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"company_id"`
	AccountName    string          `json:"account_name"`
	AccountNumber  string          `json:"account_number"`
	BankName       string          `json:"bank_name"`
	AccountType    string          `json:"account_type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Bank account and package statuses, canonical casing
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Package is a subscription plan assignable to companies. Features is
// always a plain string slice in memory; the wire format it is parsed
// from varies (see normalize.Features).
type Package struct {
	ID                int64           `json:"id"`
	PackageName       string          `json:"package_name"`
	Price             decimal.Decimal `json:"price"`
	BillingCycle      string          `json:"billing_cycle"`
	Features          []string        `json:"features"`
	Status            string          `json:"status"`
	AssignedCompanies []int64         `json:"assigned_companies"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Billing cycles
const (
	CycleMonthly   = "Monthly"
	CycleQuarterly = "Quarterly"
	CycleYearly    = "Yearly"
)

// Task is a work item optionally related to a project, client or lead.
// The recurrence fields are stored verbatim; expansion happens elsewhere.
type Task struct {
	ID            int64      `json:"id"`
	CompanyID     int64      `json:"company_id"`
	Title         string     `json:"title"`
	RelatedToType string     `json:"related_to_type"` // project, client, lead
	RelatedTo     int64      `json:"related_to"`
	AssignTo      int64      `json:"assign_to"`
	Collaborators []int64    `json:"collaborators"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Labels        []string   `json:"labels"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	IsRecurring   bool       `json:"is_recurring"`
	RepeatEvery   int        `json:"repeat_every,omitempty"`
	RepeatUnit    string     `json:"repeat_unit,omitempty"`
	Cycles        int        `json:"cycles,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Task statuses, canonical casing
const (
	StatusIncomplete = "Incomplete"
	StatusDoing      = "Doing"
	StatusDone       = "Done"
)

// Client is a customer record
type Client struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Project groups documents and tasks under a client
type Project struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogItem is a stored item used to seed document line items
type CatalogItem struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
