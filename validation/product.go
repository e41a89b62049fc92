package validation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"product-admin/apperrors"
	"product-admin/models"

	"github.com/go-playground/validator/v10"
)

// MaxPrice is the inclusive upper bound for a product price.
const MaxPrice = 1000000

// messages maps field -> validator tag -> message shown next to the field.
var messages = map[string]map[string]string{
	"title": {
		"required": "Title is required",
		"min":      "Title must be at least 3 characters long",
		"max":      "Title must not exceed 100 characters",
	},
	"price": {
		"required": "Price is required",
		"gt":       "Price must be greater than 0",
		"lte":      "Price must not exceed $1,000,000",
	},
	"description": {
		"required": "Description is required",
		"min":      "Description must be at least 10 characters long",
		"max":      "Description must not exceed 1000 characters",
	},
	"image": {
		"required": "Please select an image",
	},
	"category": {
		"required": "Category is required",
		"category": "Please select a valid category",
	},
}

// ProductValidator applies the product field rules to drafts.
type ProductValidator struct {
	validate *validator.Validate
}

func NewProductValidator() *ProductValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	return &ProductValidator{validate: v}
}

// Validate trims the text fields and checks every rule. On success it returns
// the normalized draft; otherwise an apperrors validation error whose Fields
// holds one message per failing field.
func (pv *ProductValidator) Validate(d models.ProductDraft) (models.ProductDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)

	fields := map[string]string{}
	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		fields["price"] = "Price must be a number"
	}

	if err := pv.validate.Struct(d); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return d, err
		}
		for _, fe := range ve {
			field := fe.Field()
			if _, seen := fields[field]; seen {
				continue
			}
			fields[field] = messageFor(field, fe.Tag())
		}
	}

	if len(fields) > 0 {
		return d, apperrors.Validation(fields)
	}
	return d, nil
}

// ValidateFields runs Validate and keeps only the errors for the named fields.
// Used for live validation of fields the user has already visited.
func (pv *ProductValidator) ValidateFields(d models.ProductDraft, only []string) map[string]string {
	_, err := pv.Validate(d)
	all := apperrors.FieldErrors(err)
	if len(only) == 0 || all == nil {
		return all
	}
	out := map[string]string{}
	for _, f := range only {
		if msg, ok := all[f]; ok {
			out[f] = msg
		}
	}
	return out
}

// ParsePrice converts the raw form value. The second return value is the
// field message when the input is missing or not a number.
func ParsePrice(raw string) (float64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, messages["price"]["required"]
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "Price must be a number"
	}
	return v, ""
}

func messageFor(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return "Invalid value"
}
