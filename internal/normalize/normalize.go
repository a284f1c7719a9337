// Package normalize coerces the loosely shaped values that arrive at the
// API boundary into canonical forms: numbers that may be strings, statuses
// with inconsistent casing, and field aliases for the same concept
// (name/title/item_name, rate/price/unit_price). Everything downstream of
// this package works with one shape only.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number coerces an arbitrary value to a decimal. Unparseable input
// yields zero, never an error: a half-typed price must contribute
// nothing to totals rather than poison them.
func Number(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		clean := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if clean == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(clean)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// Integer coerces an arbitrary value to an int64, zero on failure
func Integer(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Status maps a status string of any casing to its canonical form.
// Unknown statuses are title-cased rather than rejected so new backend
// statuses still render.
func Status(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if canonical, ok := statusForms[strings.ToLower(s)]; ok {
		return canonical
	}
	return titleCase(s)
}

// StatusEqual compares two status values ignoring casing
func StatusEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

var statusForms = map[string]string{
	"draft":          "Draft",
	"sent":           "Sent",
	"accepted":       "Accepted",
	"declined":       "Declined",
	"paid":           "Paid",
	"unpaid":         "Unpaid",
	"partially paid": "Partially Paid",
	"active":         "Active",
	"inactive":       "Inactive",
	"incomplete":     "Incomplete",
	"doing":          "Doing",
	"done":           "Done",
	"pending":        "Pending",
	"completed":      "Completed",
	"cancelled":      "Cancelled",
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FirstString returns the first non-empty string among the aliased keys
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// FirstNumber returns the first present numeric value among the aliased keys
func FirstNumber(m map[string]any, keys ...string) decimal.Decimal {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return Number(v)
		}
	}
	return decimal.Zero
}

// Features parses a package feature list that may arrive as a JSON
// array, a JSON-encoded string containing an array, or a comma-joined
// plain string. Always returns a flat string slice.
func Features(v any) []string {
	switch f := v.(type) {
	case nil:
		return nil
	case []string:
		return trimAll(f)
	case []any:
		out := make([]string, 0, len(f))
		for _, e := range f {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		s := strings.TrimSpace(f)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return trimAll(arr)
			}
		}
		return trimAll(strings.Split(s, ","))
	default:
		return nil
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
