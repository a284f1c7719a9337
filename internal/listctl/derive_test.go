package listctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name   string
	Status string
	Total  float64
}

func rowView() View[row] {
	return View[row]{
		SearchFields: func(r row) []string { return []string{r.Name} },
		StatusOf:     func(r row) string { return r.Status },
		Columns: map[string]Column[row]{
			"name":  {String: func(r row) string { return r.Name }},
			"total": {Number: func(r row) float64 { return r.Total }},
		},
	}
}

func sampleRows() []row {
	return []row{
		{Name: "Website redesign", Status: "Draft", Total: 500},
		{Name: "Hosting", Status: "Sent", Total: 20},
		{Name: "Logo design", Status: "draft", Total: 150},
	}
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	in := sampleRows()
	v := rowView()

	v.Derive(in, FilterState{Search: "design", SortColumn: "total", SortAsc: false})

	assert.Equal(t, sampleRows(), in)
}

func TestDeriveIsDeterministic(t *testing.T) {
	v := rowView()
	f := FilterState{Status: "Draft", SortColumn: "name", SortAsc: true}

	first := v.Derive(sampleRows(), f)
	second := v.Derive(sampleRows(), f)

	assert.Equal(t, first, second)
}

func TestDeriveStatusFilterIgnoresCase(t *testing.T) {
	v := rowView()

	got := v.Derive(sampleRows(), FilterState{Status: "DRAFT"})

	assert.Equal(t, []string{"Website redesign", "Logo design"}, names(got))
}

func TestDeriveSearchIsSubstringInsensitive(t *testing.T) {
	v := rowView()

	got := v.Derive(sampleRows(), FilterState{Search: "  DESIGN "})

	assert.Equal(t, []string{"Website redesign", "Logo design"}, names(got))
}

func TestDeriveSortNumeric(t *testing.T) {
	v := rowView()

	asc := v.Derive(sampleRows(), FilterState{SortColumn: "total", SortAsc: true})
	assert.Equal(t, []string{"Hosting", "Logo design", "Website redesign"}, names(asc))

	desc := v.Derive(sampleRows(), FilterState{SortColumn: "total", SortAsc: false})
	assert.Equal(t, []string{"Website redesign", "Logo design", "Hosting"}, names(desc))
}

func TestDeriveSortStringCaseNormalized(t *testing.T) {
	v := rowView()
	in := []row{
		{Name: "beta"},
		{Name: "Alpha"},
		{Name: "gamma"},
	}

	got := v.Derive(in, FilterState{SortColumn: "name", SortAsc: true})

	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(got))
}

// Equal keys keep their fetched order in both directions
func TestDeriveSortIsStable(t *testing.T) {
	v := rowView()
	in := []row{
		{Name: "first", Total: 10},
		{Name: "second", Total: 10},
		{Name: "third", Total: 10},
	}

	for _, asc := range []bool{true, false} {
		got := v.Derive(in, FilterState{SortColumn: "total", SortAsc: asc})
		require.Equal(t, []string{"first", "second", "third"}, names(got), "asc=%v", asc)
	}
}

func TestDeriveUnknownSortColumn(t *testing.T) {
	v := rowView()

	got := v.Derive(sampleRows(), FilterState{SortColumn: "nope"})

	assert.Equal(t, names(sampleRows()), names(got))
}

func TestToggleSort(t *testing.T) {
	var f FilterState

	f.ToggleSort("name")
	assert.Equal(t, "name", f.SortColumn)
	assert.True(t, f.SortAsc)

	f.ToggleSort("name")
	assert.False(t, f.SortAsc, "second click on the same column flips direction")

	f.ToggleSort("total")
	assert.Equal(t, "total", f.SortColumn)
	assert.True(t, f.SortAsc, "new column resets to ascending")
}
