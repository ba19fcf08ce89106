package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenCategoryGroups(t *testing.T) {
	groups := []CategoryGroup{
		{
			ID:   "g-1",
			Name: "Everyday",
			Categories: []Category{
				{ID: "c-1", Name: "Groceries"},
				{ID: "c-2", Name: "Dining Out", Hidden: true},
			},
		},
		{
			ID:     "g-2",
			Name:   "Archived",
			Hidden: true,
			Categories: []Category{
				{ID: "c-3", Name: "Old Hobby"},
			},
		},
		{
			ID:      "g-3",
			Name:    "Removed",
			Deleted: true,
			Categories: []Category{
				{ID: "c-4", Name: "Gone"},
			},
		},
	}

	m := FlattenCategoryGroups(groups)
	require.Len(t, m, 4)

	assert.Equal(t, "Everyday", m["c-1"].GroupName)
	assert.True(t, m["c-1"].Eligible())

	assert.True(t, m["c-2"].Hidden, "own hidden flag is kept")

	assert.True(t, m["c-3"].Hidden, "hidden group hides its members")
	assert.False(t, m["c-3"].Eligible())

	assert.True(t, m["c-4"].Deleted, "deleted group deletes its members")
	assert.False(t, m["c-4"].Eligible())
}

func TestCategoryEligible(t *testing.T) {
	assert.True(t, Category{ID: "c"}.Eligible())
	assert.False(t, Category{ID: "c", Hidden: true}.Eligible())
	assert.False(t, Category{ID: "c", Deleted: true}.Eligible())
}

func TestEligibleCategoriesSortedAndFiltered(t *testing.T) {
	m := CategoryMap{
		"c-1": {ID: "c-1", Name: "Rent", GroupName: "Bills"},
		"c-2": {ID: "c-2", Name: "Groceries", GroupName: "Everyday"},
		"c-3": {ID: "c-3", Name: "Electricity", GroupName: "Bills"},
		"c-4": {ID: "c-4", Name: "Hidden", GroupName: "Bills", Hidden: true},
	}

	eligible := m.EligibleCategories()
	require.Len(t, eligible, 3)
	assert.Equal(t, "Electricity", eligible[0].Name)
	assert.Equal(t, "Rent", eligible[1].Name)
	assert.Equal(t, "Groceries", eligible[2].Name)
}
