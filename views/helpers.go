package views

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"product-admin/models"
)

// UniqueCategories returns the distinct categories present in products,
// sorted ascending by byte order.
func UniqueCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, 4)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// FilterProducts keeps products whose title or category contains search
// (case-insensitive) and whose category equals category, unless category is
// the "all" sentinel. Input order is preserved and the input is not modified.
func FilterProducts(products []models.Product, search, category string) []models.Product {
	needle := strings.ToLower(search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := search == "" ||
			strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle)
		matchesCategory := category == models.AllCategories || p.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, p)
		}
	}
	return out
}

var categoryColors = map[string]string{
	models.CategoryMensClothing:   "blue",
	models.CategoryWomensClothing: "pink",
	models.CategoryElectronics:    "violet",
	models.CategoryJewelery:       "yellow",
}

// CategoryColor is the badge color for a category.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "gray"
}

// CategoryLabel upper-cases the first character for display.
func CategoryLabel(category string) string {
	if category == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:]
}

// IsPreviewableImage reports whether an image value can be put in an <img> tag.
func IsPreviewableImage(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "data:image") ||
		strings.HasPrefix(v, "http://") ||
		strings.HasPrefix(v, "https://")
}
