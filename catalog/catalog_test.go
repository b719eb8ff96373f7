package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(filepath.Join("testdata", "catalog.json"))
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := load(t)
	assert.Len(t, c.All(), 3)

	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}

func TestAll_SortedByName(t *testing.T) {
	all := load(t).All()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Burger Palace", "HealthPlus Pharmacy", "Mama Cass Kitchen"}, names)
}

func TestByID(t *testing.T) {
	c := load(t)

	r, ok := c.ByID("r1")
	require.True(t, ok)
	assert.Equal(t, "Mama Cass Kitchen", r.Name)

	_, ok = c.ByID("nope")
	assert.False(t, ok)
}

func TestByKind(t *testing.T) {
	c := load(t)

	assert.Len(t, c.ByKind("restaurant"), 2)
	assert.Len(t, c.ByKind("Pharmacy"), 1) // case-insensitive
	assert.Len(t, c.ByKind(""), 3)
}

func TestSearch(t *testing.T) {
	c := load(t)

	tests := []struct {
		query string
		want  int
	}{
		{"mama", 1},       // vendor name, case-insensitive
		{"fast food", 1},  // cuisine
		{"jollof", 1},     // menu item name
		{"paracetamol", 1},
		{"", 3},           // empty query returns everything
		{"zzz", 0},
	}
	for _, tc := range tests {
		assert.Len(t, c.Search(tc.query), tc.want, "query %q", tc.query)
	}
}

func TestFindItem(t *testing.T) {
	c := load(t)

	item, ok := c.FindItem("r1", "jollof rice")
	require.True(t, ok)
	assert.Equal(t, 1500.0, item.Price)

	_, ok = c.FindItem("r1", "Classic Burger")
	assert.False(t, ok)
	_, ok = c.FindItem("nope", "Jollof Rice")
	assert.False(t, ok)
}
