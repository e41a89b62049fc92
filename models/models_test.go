package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterState(t *testing.T) {
	assert.Equal(t, FilterState{Category: AllCategories}, FilterState{}.Normalize())
	assert.Equal(t, FilterState{Category: AllCategories}, FilterState{Category: "  "}.Normalize())
	assert.Equal(t, "jewelery", FilterState{Category: "jewelery"}.Normalize().Category)

	assert.False(t, DefaultFilter().Active())
	assert.False(t, FilterState{}.Active())
	assert.True(t, FilterState{Search: "bag", Category: AllCategories}.Active())
	assert.True(t, FilterState{Category: "electronics"}.Active())
}

func TestIsValidCategory(t *testing.T) {
	for _, opt := range CategoryOptions {
		assert.True(t, IsValidCategory(opt.Value), opt.Value)
	}
	assert.False(t, IsValidCategory(AllCategories))
	assert.False(t, IsValidCategory("Electronics"))
	assert.False(t, IsValidCategory(""))
}

func TestDraftMerge_UserFieldsWin(t *testing.T) {
	server := Product{ID: 21, Title: "echo", Price: 1, Description: "server text", Category: "electronics", Image: "https://via.placeholder.com/300"}
	draft := ProductDraft{ID: 5, Title: "Backpack123", Price: 109.95, Description: "Fits 15 inch laptops", Category: "men's clothing", Image: "data:image/png;base64,AAAA"}

	merged := draft.Merge(server)

	assert.Equal(t, Product{ID: 5, Title: "Backpack123", Price: 109.95, Description: "Fits 15 inch laptops", Category: "men's clothing", Image: "data:image/png;base64,AAAA"}, merged)

	draft.ID = 0
	assert.Equal(t, int64(21), draft.Merge(server).ID)
}

func TestDraftFrom(t *testing.T) {
	p := Product{ID: 3, Title: "Mens Cotton Jacket", Price: 55.99, Description: "great outerwear jackets", Category: "men's clothing", Image: "https://example.com/a.jpg"}

	d := DraftFrom(p, "data:image/png;base64,BBBB")

	assert.Equal(t, int64(3), d.ID)
	assert.Equal(t, p.Title, d.Title)
	assert.Equal(t, 55.99, d.Price)
	assert.Equal(t, "data:image/png;base64,BBBB", d.Image)
}
