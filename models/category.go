package models

// Fixed category enumeration accepted by the remote API.
const (
	CategoryMensClothing   = "men's clothing"
	CategoryWomensClothing = "women's clothing"
	CategoryElectronics    = "electronics"
	CategoryJewelery       = "jewelery"
)

// AllCategories is the filter sentinel meaning "no category restriction".
const AllCategories = "all"

// CategoryOption is a value/label pair for dropdowns.
type CategoryOption struct {
	Value string
	Label string
}

// CategoryOptions lists the form dropdown entries in display order.
var CategoryOptions = []CategoryOption{
	{Value: CategoryMensClothing, Label: "Men's Clothing"},
	{Value: CategoryWomensClothing, Label: "Women's Clothing"},
	{Value: CategoryElectronics, Label: "Electronics"},
	{Value: CategoryJewelery, Label: "Jewelery"},
}

// IsValidCategory reports whether c belongs to the fixed enumeration.
func IsValidCategory(c string) bool {
	for _, opt := range CategoryOptions {
		if opt.Value == c {
			return true
		}
	}
	return false
}
