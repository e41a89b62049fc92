package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   map[string]interface{}
}

func newTestAPI(t *testing.T, status int, response string) (*ProductClient, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header.Clone()}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		seen = append(seen, rec)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewProductClient(srv.URL+"/", 2*time.Second, ""), &seen
}

func sampleDraft() models.ProductDraft {
	return models.ProductDraft{
		Title:       "Backpack123",
		Price:       9.99,
		Description: "A sturdy backpack for travel.",
		Category:    models.CategoryMensClothing,
		Image:       "data:image/png;base64,AAA",
	}
}

func TestList_DecodesProducts(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusOK,
		`[{"id":1,"title":"Fjallraven","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg"}]`)

	products, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, 109.95, products[0].Price)

	req := (*seen)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/products", req.path)
	assert.Equal(t, "application/json", req.header.Get("Accept"))
	assert.Equal(t, "no-cache", req.header.Get("Cache-Control"))
}

func TestList_EmptyBodyArray(t *testing.T) {
	client, _ := newTestAPI(t, http.StatusOK, `[]`)

	products, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCreate_SendsPlaceholderNotUploadedImage(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusOK,
		`{"id":21,"title":"Backpack123","price":9.99,"description":"A sturdy backpack for travel.","category":"men's clothing","image":"https://via.placeholder.com/300"}`)

	created, err := client.Create(context.Background(), sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, int64(21), created.ID)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/products", req.path)
	assert.Equal(t, DefaultPlaceholderImage, req.body["image"])
	assert.Equal(t, "Backpack123", req.body["title"])
	assert.Equal(t, 9.99, req.body["price"])
	assert.NotContains(t, req.body, "id")
}

func TestUpdate_SendsOriginalImage(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusOK, `{"id":5,"title":"Backpack123"}`)

	_, err := client.Update(context.Background(), 5, sampleDraft(), "https://img/5.jpg")
	require.NoError(t, err)

	req := (*seen)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/products/5", req.path)
	assert.Equal(t, "https://img/5.jpg", req.body["image"])
}

func TestUpdate_FallsBackToPlaceholder(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusOK, `{"id":5}`)

	_, err := client.Update(context.Background(), 5, sampleDraft(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaceholderImage, (*seen)[0].body["image"])
}

func TestDelete_ToleratesEmptyAndNonJSONBodies(t *testing.T) {
	for _, body := range []string{"", "OK", `{"id":3}`} {
		client, seen := newTestAPI(t, http.StatusOK, body)

		err := client.Delete(context.Background(), 3)
		require.NoError(t, err, "body %q", body)
		assert.Equal(t, http.MethodDelete, (*seen)[0].method)
		assert.Equal(t, "/products/3", (*seen)[0].path)
	}
}

func TestErrorsAreUniform(t *testing.T) {
	ctx := context.Background()
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		client, _ := newTestAPI(t, status, `{"error":"nope"}`)

		_, err := client.List(ctx)
		assert.True(t, errors.Is(err, ErrOperationFailed), "list %d", status)

		_, err = client.Create(ctx, sampleDraft())
		assert.True(t, errors.Is(err, ErrOperationFailed), "create %d", status)

		_, err = client.Update(ctx, 1, sampleDraft(), "")
		assert.True(t, errors.Is(err, ErrOperationFailed), "update %d", status)

		err = client.Delete(ctx, 1)
		assert.True(t, errors.Is(err, ErrOperationFailed), "delete %d", status)
	}
}

func TestNetworkFailureIsOperationFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewProductClient(url, time.Second, "")
	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestMalformedJSONIsOperationFailed(t *testing.T) {
	client, _ := newTestAPI(t, http.StatusOK, `not json`)

	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestCustomPlaceholder(t *testing.T) {
	client := NewProductClient("http://example.test", time.Second, "https://cdn.test/blank.png")
	assert.Equal(t, "https://cdn.test/blank.png", client.Placeholder())
}
