package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"product-admin/apperrors"
	"product-admin/logger"
	"product-admin/middleware"
	"product-admin/models"
	"product-admin/services"
	"product-admin/toast"
	"product-admin/validation"
	"product-admin/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgAdded   = "Product added successfully!"
	msgUpdated = "Product updated successfully!"
	msgDeleted = "Product deleted successfully!"
)

// ProductController serves the product console pages.
type ProductController struct {
	Catalog       services.CatalogService
	Validator     *validation.ProductValidator
	Toasts        *toast.Sealer
	MaxImageBytes int64

	// Now assigns provisional ids to new drafts.
	Now func() time.Time
}

func NewProductController(catalog services.CatalogService, validator *validation.ProductValidator, toasts *toast.Sealer, maxImageBytes int64) *ProductController {
	return &ProductController{
		Catalog:       catalog,
		Validator:     validator,
		Toasts:        toasts,
		MaxImageBytes: maxImageBytes,
		Now:           time.Now,
	}
}

// List renders the product grid filtered by ?q= and ?category=.
func (pc *ProductController) List(c *gin.Context) {
	pc.renderList(c, http.StatusOK, pc.filter(c), nil, nil)
}

// NewForm opens the add dialog over the list.
func (pc *ProductController) NewForm(c *gin.Context) {
	filter := pc.filter(c)
	form := views.NewAddForm(pc.Now().UnixMilli(), views.FilterQuery(filter))
	pc.renderList(c, http.StatusOK, filter, form, nil)
}

// Create handles the add dialog submit.
func (pc *ProductController) Create(c *gin.Context) {
	filter := pc.filter(c)
	sub, err := pc.readDraft(c, true, nil)
	if err != nil {
		pc.renderError(c, http.StatusBadRequest, "Invalid form submission.", err)
		return
	}
	if sub.Draft.ID == 0 {
		sub.Draft.ID = pc.Now().UnixMilli()
	}
	if len(sub.Errors) > 0 {
		pc.rejectForm(c, views.ModeAdd, sub, nil, filter)
		return
	}

	product, err := pc.Catalog.Add(c.Request.Context(), sub.Draft)
	if err != nil {
		pc.mutationFailed(c, views.ModeAdd, sub, err, filter)
		return
	}

	logger.Info(c, "Product created via console", zap.Int64("product_id", product.ID))
	pc.finish(c, filter, toast.Ok(msgAdded))
}

// EditForm opens the edit dialog pre-filled from the product.
func (pc *ProductController) EditForm(c *gin.Context) {
	filter := pc.filter(c)
	id, ok := pc.productID(c)
	if !ok {
		return
	}
	draft, err := pc.Catalog.EditDraft(c.Request.Context(), id)
	if err != nil {
		pc.renderError(c, apperrors.HTTPStatus(err), apperrors.PublicMessage(err), err)
		return
	}
	pc.renderList(c, http.StatusOK, filter, views.NewEditForm(draft, views.FilterQuery(filter)), nil)
}

// Update handles the edit dialog submit.
func (pc *ProductController) Update(c *gin.Context) {
	filter := pc.filter(c)
	id, ok := pc.productID(c)
	if !ok {
		return
	}
	sub, err := pc.readDraft(c, true, pc.keepForRoute(c.Request.Context(), id))
	if err != nil {
		pc.renderError(c, http.StatusBadRequest, "Invalid form submission.", err)
		return
	}
	sub.Draft.ID = id
	if len(sub.Errors) > 0 {
		pc.rejectForm(c, views.ModeEdit, sub, nil, filter)
		return
	}

	if _, err := pc.Catalog.Update(c.Request.Context(), id, sub.Draft); err != nil {
		pc.mutationFailed(c, views.ModeEdit, sub, err, filter)
		return
	}

	logger.Info(c, "Product updated via console", zap.Int64("product_id", id))
	pc.finish(c, filter, toast.Ok(msgUpdated))
}

// ConfirmDelete opens the delete confirmation dialog.
func (pc *ProductController) ConfirmDelete(c *gin.Context) {
	filter := pc.filter(c)
	id, ok := pc.productID(c)
	if !ok {
		return
	}
	product, found := pc.Catalog.Product(id)
	if !found {
		err := apperrors.NotFound(id)
		pc.renderError(c, http.StatusNotFound, apperrors.PublicMessage(err), err)
		return
	}
	pc.renderList(c, http.StatusOK, filter, nil, views.NewDeleteDialog(product, views.FilterQuery(filter)))
}

// Delete runs the confirmed delete. The dialog closes whatever the outcome.
func (pc *ProductController) Delete(c *gin.Context) {
	filter := pc.filter(c)
	id, ok := pc.productID(c)
	if !ok {
		return
	}
	if _, found := pc.Catalog.Product(id); !found {
		pc.finish(c, filter, toast.Fail(apperrors.PublicMessage(apperrors.NotFound(id))))
		return
	}

	if err := pc.Catalog.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		logger.Warn(c, "Product delete failed", zap.Int64("product_id", id), zap.Error(err))
		pc.finish(c, filter, toast.Fail(apperrors.PublicMessage(err)))
		return
	}

	logger.Info(c, "Product deleted via console", zap.Int64("product_id", id))
	pc.finish(c, filter, toast.Ok(msgDeleted))
}

// Validate checks the posted dialog fields for live feedback. Only the
// fields named in repeated "fields" values are reported; none means all.
func (pc *ProductController) Validate(c *gin.Context) {
	sub, err := pc.readDraft(c, false, pc.keepForDialog(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form submission"})
		return
	}
	only := sub.Fields

	all := mergeErrors(pc.Validator.ValidateFields(sub.Draft, nil), sub.Errors)
	errs := all
	if len(only) > 0 {
		errs = map[string]string{}
		for _, f := range only {
			if msg, ok := all[f]; ok {
				errs[f] = msg
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// Refresh reloads the list from the remote API.
func (pc *ProductController) Refresh(c *gin.Context) {
	filter := pc.filter(c)
	if err := pc.Catalog.Load(c.Request.Context()); err != nil {
		_ = c.Error(err)
		pc.finish(c, filter, toast.Fail(apperrors.PublicMessage(err)))
		return
	}
	c.Redirect(http.StatusSeeOther, views.ListURL(filter))
}

// Health reports liveness and whether the first load has finished.
func (pc *ProductController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "state": pc.Catalog.State()})
}

func (pc *ProductController) filter(c *gin.Context) models.FilterState {
	var f models.FilterState
	if err := c.ShouldBindQuery(&f); err != nil {
		return models.DefaultFilter()
	}
	return f.Normalize()
}

func (pc *ProductController) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		pc.renderError(c, http.StatusNotFound, apperrors.ErrNotFound.Message, err)
		return 0, false
	}
	return id, true
}

// rejectForm re-opens the dialog with every violation shown. An uploaded
// file is not carried into the re-rendered dialog, so it shows the image a
// resubmit would save and asks for the file again.
func (pc *ProductController) rejectForm(c *gin.Context, mode string, sub submittedDraft, ruleErrors map[string]string, filter models.FilterState) {
	if ruleErrors == nil {
		ruleErrors = pc.Validator.ValidateFields(sub.Draft, nil)
	}
	errs := mergeErrors(ruleErrors, sub.Errors)

	shown := sub.Draft
	if sub.Uploaded {
		shown.Image = ""
		if !sub.Removed {
			shown.Image = sub.Kept
		}
		if _, ok := errs["image"]; !ok {
			errs["image"] = msgReselectImage
		}
	}

	form := views.RejectedForm(mode, shown, sub.RawPrice, errs, views.FilterQuery(filter))
	form.ImageRemoved = sub.Removed
	pc.renderList(c, http.StatusUnprocessableEntity, filter, form, nil)
}

func (pc *ProductController) mutationFailed(c *gin.Context, mode string, sub submittedDraft, err error, filter models.FilterState) {
	if fields := apperrors.FieldErrors(err); fields != nil {
		pc.rejectForm(c, mode, sub, fields, filter)
		return
	}
	_ = c.Error(err)
	if errors.Is(err, apperrors.ErrBusy) {
		logger.Warn(c, "Mutation rejected while busy", zap.String("mode", mode))
	}
	pc.finish(c, filter, toast.Fail(apperrors.PublicMessage(err)))
}

// finish ends a mutating request by redirecting back to the filtered list
// with t shown there.
func (pc *ProductController) finish(c *gin.Context, filter models.FilterState, t toast.Toast) {
	pc.Toasts.Send(c.Writer, t)
	c.Redirect(http.StatusSeeOther, views.ListURL(filter))
}

func (pc *ProductController) renderList(c *gin.Context, status int, filter models.FilterState, form *views.Form, del *views.DeleteDialog) {
	ctx := c.Request.Context()
	page := views.BuildListPage(
		pc.Catalog.Products(),
		filter,
		pc.Catalog.State() == services.StateLoading,
		func(p models.Product) string { return pc.Catalog.ImageFor(ctx, p) },
	)
	page.Busy = pc.Catalog.Busy()
	page.Toast = middleware.PendingToast(c)
	if err := pc.Catalog.LoadError(); err != nil {
		page.LoadError = apperrors.PublicMessage(err)
	}
	page.Form = form
	page.Delete = del
	c.HTML(status, "index", page)
}

func (pc *ProductController) renderError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.HTML(status, "error", gin.H{
		"Status":     status,
		"StatusText": http.StatusText(status),
		"Message":    msg,
		"RequestID":  logger.RequestID(c),
	})
}
