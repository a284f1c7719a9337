package repository

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ListQuery carries the server-side list filters shared by every
// repository
type ListQuery struct {
	CompanyID int64
	Search    string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Decimals are stored as TEXT so sqlite never rounds money values
func decToDB(d decimal.Decimal) string {
	return d.String()
}

func decFromDB(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Slice-valued columns (labels, collaborators, features) are stored as
// JSON arrays
func sliceToDB[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func sliceFromDB[T any](s string) []T {
	if s == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func timeToDB(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}
