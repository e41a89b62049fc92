package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"product-admin/imagestore"
	"product-admin/models"
	"product-admin/validation"
	"product-admin/views"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// pendingUpload stands in for a file the browser has picked but not yet
// sent, so live validation treats the image as present.
const pendingUpload = "pending-upload"

// maxFieldBytes caps a single text field of the dialog.
const maxFieldBytes = 64 << 10

const msgReselectImage = "Please select the image again"

// productForm is the dialog body. The image itself never travels back in
// a text field: edits keep the stored image unless remove_image is set or
// a new file is uploaded.
type productForm struct {
	ID            string `form:"id"`
	Mode          string `form:"mode"`
	Title         string `form:"title"`
	Price         string `form:"price"`
	Description   string `form:"description"`
	Category      string `form:"category"`
	RemoveImage   string `form:"remove_image"`
	ImageSelected string `form:"image_selected"`
}

// submittedDraft is what came out of a form post before any catalog rule ran.
type submittedDraft struct {
	Draft    models.ProductDraft
	RawPrice string
	// Errors holds problems found while reading the request itself:
	// an unparseable price or a rejected upload.
	Errors map[string]string
	// Fields lists the repeated "fields" values of a live validation call.
	Fields []string

	Kept     string // image a resubmit without upload would save
	Removed  bool
	Uploaded bool
}

// keepImageFunc resolves the image an edit keeps when no file is uploaded.
type keepImageFunc func(f productForm) string

// dialogBody is the decoded request: text fields plus the encoded upload.
type dialogBody struct {
	values   url.Values
	image    string
	imageErr error
	uploaded bool
	tooLarge bool
}

func (pc *ProductController) bodyLimit() int64 {
	return pc.MaxImageBytes + 1<<20
}

// keptImage is the image currently shown for id, or "" when unknown.
func (pc *ProductController) keptImage(ctx context.Context, id int64) string {
	draft, err := pc.Catalog.EditDraft(ctx, id)
	if err != nil {
		return ""
	}
	return draft.Image
}

// readDraft binds the dialog form. A freshly uploaded file replaces the
// kept image; otherwise the kept image stays unless removed. The returned
// error is set only when the body could not be parsed at all.
func (pc *ProductController) readDraft(c *gin.Context, withUpload bool, keep keepImageFunc) (submittedDraft, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, pc.bodyLimit())
	out := submittedDraft{Errors: map[string]string{}}

	body, err := pc.readBody(c, withUpload)
	if err != nil {
		return out, err
	}
	var f productForm
	if err := binding.MapFormWithTag(&f, body.values, "form"); err != nil {
		return out, err
	}

	id, _ := strconv.ParseInt(f.ID, 10, 64)
	out.Draft = models.ProductDraft{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
	}
	out.Fields = body.values["fields"]
	out.RawPrice = f.Price
	price, msg := validation.ParsePrice(f.Price)
	out.Draft.Price = price
	if msg != "" {
		out.Errors["price"] = msg
	}

	if keep != nil {
		out.Kept = keep(f)
	}
	out.Removed = f.RemoveImage != ""
	if !out.Removed {
		out.Draft.Image = out.Kept
	}
	out.Uploaded = body.uploaded

	switch {
	case body.tooLarge, errors.Is(body.imageErr, imagestore.ErrImageTooLarge), isTooLarge(body.imageErr):
		out.Errors["image"] = pc.tooLargeMessage()
	case errors.Is(body.imageErr, imagestore.ErrNotImage):
		out.Errors["image"] = "Please select an image file"
	case errors.Is(body.imageErr, imagestore.ErrEmptyImage):
		out.Errors["image"] = "Please select an image"
	case body.imageErr != nil:
		out.Errors["image"] = "Could not read the uploaded image"
		_ = c.Error(body.imageErr)
	case body.uploaded:
		out.Draft.Image = body.image
	}

	if !withUpload && f.ImageSelected != "" && out.Draft.Image == "" {
		out.Draft.Image = pendingUpload
	}
	return out, nil
}

// readBody streams a multipart body part by part, so the text fields that
// precede the file survive an oversized upload. Other bodies go through
// ParseForm.
func (pc *ProductController) readBody(c *gin.Context, withUpload bool) (dialogBody, error) {
	out := dialogBody{values: url.Values{}}

	mr, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := c.Request.ParseForm(); err != nil {
			if isTooLarge(err) {
				out.tooLarge = true
				return out, nil
			}
			return out, err
		}
		out.values = c.Request.PostForm
		return out, nil
	}
	if err != nil {
		return out, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			if isTooLarge(err) || c.Request.ContentLength > pc.bodyLimit() {
				out.tooLarge = true
				return out, nil
			}
			return out, err
		}

		if part.FormName() == "image" {
			// Browsers send an empty part with no filename when nothing was picked.
			if withUpload && part.FileName() != "" {
				out.uploaded = true
				out.image, out.imageErr = imagestore.EncodeDataURL(part, pc.MaxImageBytes)
			}
			continue
		}
		if part.FormName() == "" || part.FileName() != "" {
			continue
		}

		b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
		if err != nil {
			if isTooLarge(err) {
				out.tooLarge = true
				return out, nil
			}
			return out, err
		}
		out.values.Add(part.FormName(), string(b))
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// keepForRoute keeps the image of the product being edited at id.
func (pc *ProductController) keepForRoute(ctx context.Context, id int64) keepImageFunc {
	return func(productForm) string { return pc.keptImage(ctx, id) }
}

// keepForDialog keeps the edited product's image for live validation, where
// the id only arrives in the body.
func (pc *ProductController) keepForDialog(ctx context.Context) keepImageFunc {
	return func(f productForm) string {
		if f.Mode != views.ModeEdit {
			return ""
		}
		id, err := strconv.ParseInt(f.ID, 10, 64)
		if err != nil {
			return ""
		}
		return pc.keptImage(ctx, id)
	}
}

func (pc *ProductController) tooLargeMessage() string {
	return fmt.Sprintf("Image must not exceed %s", humanBytes(pc.MaxImageBytes))
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// mergeErrors lays request-level errors over rule violations; a price that
// did not parse says so instead of "must be greater than 0".
func mergeErrors(rules, request map[string]string) map[string]string {
	out := make(map[string]string, len(rules)+len(request))
	for k, v := range rules {
		out[k] = v
	}
	for k, v := range request {
		out[k] = v
	}
	return out
}
