package listctl

import (
	"sort"
	"strings"

	"github.com/crmdesk/crmdesk/internal/normalize"
)

// FilterState holds the client-side filters applied on top of the
// fetched list: substring search across display fields, a
// case-insensitive status match, and one sortable column.
type FilterState struct {
	Search     string
	Status     string
	SortColumn string
	SortAsc    bool
}

// ToggleSort flips the direction when the same column is clicked again
// and resets to ascending on a new column
func (f *FilterState) ToggleSort(column string) {
	if f.SortColumn == column {
		f.SortAsc = !f.SortAsc
		return
	}
	f.SortColumn = column
	f.SortAsc = true
}

// Column describes how one sortable column reads its value from a
// record. Exactly one of Number and String should be set; numeric
// columns sort numerically, string columns sort case-normalized.
type Column[T any] struct {
	Number func(T) float64
	String func(T) string
}

// View adapts a record type to the derived filter: which fields the
// search text matches against, where the status lives, and the
// sortable columns.
type View[T any] struct {
	SearchFields func(T) []string
	StatusOf     func(T) string
	Columns      map[string]Column[T]
}

// Derive applies the filter state to an already-fetched list and
// returns the rows to render. Pure: the input slice is never mutated
// and identical inputs yield identical output. Sorting is stable, so
// ties keep insertion order.
func (v View[T]) Derive(records []T, f FilterState) []T {
	out := make([]T, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	for _, r := range records {
		if f.Status != "" && v.StatusOf != nil && !normalize.StatusEqual(v.StatusOf(r), f.Status) {
			continue
		}
		if needle != "" && v.SearchFields != nil && !matchesSearch(v.SearchFields(r), needle) {
			continue
		}
		out = append(out, r)
	}

	if f.SortColumn == "" {
		return out
	}
	col, ok := v.Columns[f.SortColumn]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch {
		case col.Number != nil:
			less = col.Number(out[i]) < col.Number(out[j])
		case col.String != nil:
			less = strings.ToLower(col.String(out[i])) < strings.ToLower(col.String(out[j]))
		}
		if !f.SortAsc {
			return !less && !equalColumn(col, out[i], out[j])
		}
		return less
	})
	return out
}

func equalColumn[T any](col Column[T], a, b T) bool {
	switch {
	case col.Number != nil:
		return col.Number(a) == col.Number(b)
	case col.String != nil:
		return strings.EqualFold(col.String(a), col.String(b))
	}
	return true
}

func matchesSearch(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
