// Package views turns catalog state into what the HTML templates render.
package views

import (
	"net/url"
	"strconv"

	"product-admin/toast"
	"product-admin/models"
)

const (
	ModeAdd  = "add"
	ModeEdit = "edit"
)

// Card is one product tile.
type Card struct {
	ID            int64
	Title         string
	Price         string
	Description   string
	Category      string
	CategoryLabel string
	CategoryColor string
	Image         string
	EditURL       string
	DeleteURL     string
}

// Choice is a dropdown option.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Form is the add/edit dialog. Price stays a string so a rejected value is
// echoed back exactly as typed.
type Form struct {
	Mode        string
	Heading     string
	SubmitLabel string
	Action      string
	CancelURL   string

	ID          int64
	Title       string
	Price       string
	Description string
	Category    string
	Image       string

	// ImageRemoved carries an explicit "remove image" across a re-render.
	ImageRemoved bool

	Errors     map[string]string
	Categories []Choice
}

// Previewable reports whether the current image can be shown in the dialog.
func (f *Form) Previewable() bool { return IsPreviewableImage(f.Image) }

// HasError is used by the templates to flag a field.
func (f *Form) HasError(field string) bool {
	_, ok := f.Errors[field]
	return ok
}

// DeleteDialog is the confirmation gate.
type DeleteDialog struct {
	ID        int64
	Title     string
	Action    string
	CancelURL string
}

// ListPage is everything the index template needs.
type ListPage struct {
	Loading bool
	Busy    bool

	Search     string
	Category   string
	Categories []Choice
	ShowSearch bool

	Cards        []Card
	Shown        int
	Total        int
	FilterActive bool

	EmptyTitle string
	EmptyHint  string
	LoadError  string

	// Query carries the active filter into dialog links and form actions.
	Query string

	Toast  *toast.Toast
	Form   *Form
	Delete *DeleteDialog
}

// Empty reports whether the empty-state box is shown instead of the grid.
func (p ListPage) Empty() bool { return !p.Loading && len(p.Cards) == 0 }

// ImageResolver returns the card image for a product.
type ImageResolver func(p models.Product) string

// BuildListPage filters products and renders them as cards.
func BuildListPage(products []models.Product, filter models.FilterState, loading bool, image ImageResolver) ListPage {
	filter = filter.Normalize()
	query := FilterQuery(filter)
	filtered := FilterProducts(products, filter.Search, filter.Category)

	cards := make([]Card, 0, len(filtered))
	for _, p := range filtered {
		cards = append(cards, Card{
			ID:            p.ID,
			Title:         p.Title,
			Price:         FormatPrice(p.Price),
			Description:   p.Description,
			Category:      p.Category,
			CategoryLabel: CategoryLabel(p.Category),
			CategoryColor: CategoryColor(p.Category),
			Image:         image(p),
			EditURL:       withQuery("/products/"+strconv.FormatInt(p.ID, 10)+"/edit", query),
			DeleteURL:     withQuery("/products/"+strconv.FormatInt(p.ID, 10)+"/delete", query),
		})
	}

	choices := []Choice{{Value: models.AllCategories, Label: "All Categories", Selected: filter.Category == models.AllCategories}}
	for _, c := range UniqueCategories(products) {
		choices = append(choices, Choice{Value: c, Label: CategoryLabel(c), Selected: c == filter.Category})
	}

	page := ListPage{
		Loading:      loading,
		Search:       filter.Search,
		Category:     filter.Category,
		Categories:   choices,
		ShowSearch:   !loading && len(products) > 0,
		Cards:        cards,
		Shown:        len(cards),
		Total:        len(products),
		FilterActive: filter.Active(),
		Query:        query,
	}
	if len(products) == 0 {
		page.EmptyTitle = "No products found"
		page.EmptyHint = "Start by adding your first product"
	} else {
		page.EmptyTitle = "No products match your search criteria"
		page.EmptyHint = "Try adjusting your search or filter criteria"
	}
	return page
}

// NewAddForm is a blank add dialog. id is the provisional client-side id.
func NewAddForm(id int64, query string) *Form {
	return newForm(ModeAdd, models.ProductDraft{ID: id}, "", nil, query)
}

// NewEditForm is an edit dialog pre-filled from draft.
func NewEditForm(draft models.ProductDraft, query string) *Form {
	return newForm(ModeEdit, draft, FormatPrice(draft.Price), nil, query)
}

// RejectedForm re-renders a submitted dialog with its field errors.
func RejectedForm(mode string, draft models.ProductDraft, rawPrice string, errs map[string]string, query string) *Form {
	return newForm(mode, draft, rawPrice, errs, query)
}

func newForm(mode string, d models.ProductDraft, price string, errs map[string]string, query string) *Form {
	f := &Form{
		Mode:        mode,
		ID:          d.ID,
		Title:       d.Title,
		Price:       price,
		Description: d.Description,
		Category:    d.Category,
		Image:       d.Image,
		Errors:      errs,
		CancelURL:   withQuery("/", query),
	}
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	if mode == ModeEdit {
		f.Heading = "Edit Product"
		f.SubmitLabel = "Update Product"
		f.Action = withQuery("/products/"+strconv.FormatInt(d.ID, 10), query)
	} else {
		f.Heading = "Add New Product"
		f.SubmitLabel = "Add Product"
		f.Action = withQuery("/products", query)
	}
	for _, opt := range models.CategoryOptions {
		f.Categories = append(f.Categories, Choice{Value: opt.Value, Label: opt.Label, Selected: opt.Value == d.Category})
	}
	return f
}

// NewDeleteDialog asks for confirmation before deleting p.
func NewDeleteDialog(p models.Product, query string) *DeleteDialog {
	return &DeleteDialog{
		ID:        p.ID,
		Title:     p.Title,
		Action:    withQuery("/products/"+strconv.FormatInt(p.ID, 10)+"/delete", query),
		CancelURL: withQuery("/", query),
	}
}

// FormatPrice prints the shortest decimal that round-trips, e.g. 9.99 or 695.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FilterQuery encodes the non-default parts of a filter.
func FilterQuery(f models.FilterState) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Category != "" && f.Category != models.AllCategories {
		v.Set("category", f.Category)
	}
	return v.Encode()
}

// ListURL is where mutating handlers redirect back to.
func ListURL(f models.FilterState) string {
	return withQuery("/", FilterQuery(f))
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
