package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create: %w", Mutation("add", cause))

	assert.True(t, errors.Is(err, ErrMutation))
	assert.False(t, errors.Is(err, ErrLoad))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(Busy(), ErrBusy))
}

func TestMutation_Message(t *testing.T) {
	assert.Equal(t, "Failed to delete product. Please try again.", Mutation("delete", nil).Message)
	assert.Equal(t, "Failed to delete product. Please try again.: boom", Mutation("delete", errors.New("boom")).Error())
}

func TestFieldErrors(t *testing.T) {
	fields := map[string]string{"title": "Title is required"}

	assert.Equal(t, fields, FieldErrors(fmt.Errorf("wrapped: %w", Validation(fields))))
	assert.Nil(t, FieldErrors(Busy()))
	assert.Nil(t, FieldErrors(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation(nil), http.StatusUnprocessableEntity},
		{NotFound(7), http.StatusNotFound},
		{Busy(), http.StatusConflict},
		{Load(errors.New("x")), http.StatusBadGateway},
		{Mutation("add", errors.New("x")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Failed to fetch products. Please try again later.", PublicMessage(Load(errors.New("timeout"))))
	assert.Equal(t, "Product not found.", PublicMessage(NotFound(3)))
	assert.Equal(t, "Something went wrong. Please try again.", PublicMessage(errors.New("raw")))
}

func TestJSON_OmitsCause(t *testing.T) {
	assert.JSONEq(t, `{"kind":"busy","message":"Another change is still in progress. Please wait."}`, Busy().JSON())
}
