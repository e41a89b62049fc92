package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure the way the UI reports it.
type Kind string

const (
	KindLoad       Kind = "load"
	KindMutation   Kind = "mutation"
	KindValidation Kind = "validation"
	KindBusy       Kind = "busy"
	KindNotFound   Kind = "not_found"
)

// Error represents an application error
type Error struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrBusy) works
// for freshly constructed values too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Sentinels for errors.Is checks.
var (
	ErrLoad       = &Error{Kind: KindLoad, Message: "Failed to fetch products. Please try again later."}
	ErrMutation   = &Error{Kind: KindMutation, Message: "Operation failed. Please try again."}
	ErrValidation = &Error{Kind: KindValidation, Message: "Please fix the highlighted fields."}
	ErrBusy       = &Error{Kind: KindBusy, Message: "Another change is still in progress. Please wait."}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "Product not found."}
)

// Load wraps a failed list fetch.
func Load(err error) *Error {
	return &Error{Kind: KindLoad, Message: ErrLoad.Message, Err: err}
}

// Mutation wraps a failed create/update/delete. action is "add", "update" or "delete".
func Mutation(action string, err error) *Error {
	return &Error{
		Kind:    KindMutation,
		Message: fmt.Sprintf("Failed to %s product. Please try again.", action),
		Err:     err,
	}
}

// Validation carries per-field violation messages.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: ErrValidation.Message, Fields: fields}
}

// Busy is returned when a mutating action is already in flight.
func Busy() *Error {
	return &Error{Kind: KindBusy, Message: ErrBusy.Message}
}

// NotFound reports an unknown product id.
func NotFound(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: ErrNotFound.Message, Err: fmt.Errorf("product %d", id)}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// FieldErrors returns the per-field messages of a validation error, or nil.
func FieldErrors(err error) map[string]string {
	if ae, ok := As(err); ok && ae.Kind == KindValidation {
		return ae.Fields
	}
	return nil
}

// HTTPStatus maps an error to the response code used by the controllers.
func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindBusy:
		return http.StatusConflict
	case KindLoad, KindMutation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show in a notification.
func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.Message != "" {
		return ae.Message
	}
	return "Something went wrong. Please try again."
}
