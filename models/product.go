package models

// Product is the record exchanged with the remote product API.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// ProductDraft holds unsaved field values for a product being created or edited.
type ProductDraft struct {
	ID          int64   `json:"id,omitempty"`
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Price       float64 `json:"price" validate:"gt=0,lte=1000000"`
	Description string  `json:"description" validate:"required,min=10,max=1000"`
	Image       string  `json:"image" validate:"required"`
	Category    string  `json:"category" validate:"required,category"`
}

// Merge overlays the draft on top of a server record. Fields the user just
// submitted always win over whatever the server echoed back.
func (d ProductDraft) Merge(server Product) Product {
	merged := server
	if d.ID != 0 {
		merged.ID = d.ID
	}
	merged.Title = d.Title
	merged.Price = d.Price
	merged.Description = d.Description
	merged.Category = d.Category
	merged.Image = d.Image
	return merged
}

// DraftFrom builds an edit draft from an existing record; image is the value
// the form should preview, usually the locally stored one.
func DraftFrom(p Product, image string) ProductDraft {
	return ProductDraft{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       image,
	}
}
