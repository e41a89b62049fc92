package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"product-admin/models"

	"go.uber.org/zap"
)

// DefaultPlaceholderImage is sent as the image field on every write because
// the remote API cannot store uploaded image payloads.
const DefaultPlaceholderImage = "https://via.placeholder.com/300"

// ErrOperationFailed is returned for every failed remote call. Network
// errors, non-2xx statuses and undecodable bodies are not distinguished.
var ErrOperationFailed = errors.New("product api: operation failed")

// ProductAPI is the contract the catalog service depends on.
type ProductAPI interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	Update(ctx context.Context, id int64, draft models.ProductDraft, originalImage string) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ProductClient talks to a fakestoreapi-compatible REST API.
type ProductClient struct {
	baseURL     string
	placeholder string
	client      *http.Client
}

// apiProduct is the body sent on create and update.
type apiProduct struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func NewProductClient(baseURL string, timeout time.Duration, placeholder string) *ProductClient {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	return &ProductClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		placeholder: placeholder,
		client:      &http.Client{Timeout: timeout},
	}
}

// Placeholder returns the image URL substituted on writes.
func (p *ProductClient) Placeholder() string {
	return p.placeholder
}

func (p *ProductClient) List(ctx context.Context) ([]models.Product, error) {
	resp, err := p.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, failed("list", err)
	}
	var out []models.Product
	if err := decodeJSON(resp, &out); err != nil {
		return nil, failed("list", err)
	}
	if out == nil {
		out = []models.Product{}
	}
	return out, nil
}

func (p *ProductClient) Create(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	body := apiProduct{
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
		Category:    draft.Category,
		Image:       p.placeholder,
	}
	resp, err := p.do(ctx, http.MethodPost, "/products", body)
	if err != nil {
		return models.Product{}, failed("create", err)
	}
	var out models.Product
	if err := decodeJSON(resp, &out); err != nil {
		return models.Product{}, failed("create", err)
	}
	return out, nil
}

// Update replaces the record at id. originalImage is the image field of the
// record being edited; the placeholder is sent when it is empty.
func (p *ProductClient) Update(ctx context.Context, id int64, draft models.ProductDraft, originalImage string) (models.Product, error) {
	image := originalImage
	if image == "" {
		image = p.placeholder
	}
	body := apiProduct{
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
		Category:    draft.Category,
		Image:       image,
	}
	resp, err := p.do(ctx, http.MethodPut, productPath(id), body)
	if err != nil {
		return models.Product{}, failed("update", err)
	}
	var out models.Product
	if err := decodeJSON(resp, &out); err != nil {
		return models.Product{}, failed("update", err)
	}
	return out, nil
}

// Delete removes the record at id. A successful response may carry an empty
// or non-JSON body; it is discarded.
func (p *ProductClient) Delete(ctx context.Context, id int64) error {
	resp, err := p.do(ctx, http.MethodDelete, productPath(id), nil)
	if err != nil {
		return failed("delete", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed("delete", statusError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p *ProductClient) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		zap.L().Warn("product api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	zap.L().Debug("product api response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	zap.L().Warn("product api error response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)),
	)
	return fmt.Errorf("upstream error: status=%d", resp.StatusCode)
}

func failed(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrOperationFailed, cause)
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}
