package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"product-admin/apperrors"
	"product-admin/clients"
	"product-admin/imagestore"
	"product-admin/models"
	awspkg "product-admin/pkg/aws"

	"go.uber.org/zap"
)

// State is the lifecycle of the product list.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// NoImagePlaceholder is rendered on a card when neither the image store nor
// the record has an image.
const NoImagePlaceholder = "https://via.placeholder.com/300x250?text=No+Image"

// DraftValidator normalizes and checks a draft before it is sent anywhere.
type DraftValidator interface {
	Validate(d models.ProductDraft) (models.ProductDraft, error)
}

// CatalogService owns the authoritative product list shown by the console.
type CatalogService interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	Update(ctx context.Context, id int64, draft models.ProductDraft) (models.Product, error)
	Delete(ctx context.Context, id int64) error

	Products() []models.Product
	Product(id int64) (models.Product, bool)
	ImageFor(ctx context.Context, p models.Product) string
	EditDraft(ctx context.Context, id int64) (models.ProductDraft, error)
	State() State
	Busy() bool
	LoadError() error
}

type catalogServiceImpl struct {
	api       clients.ProductAPI
	images    imagestore.Store
	validator DraftValidator
	metrics   awspkg.Recorder
	logger    *zap.Logger

	mu       sync.RWMutex
	products []models.Product
	state    State
	loadErr  error

	busy atomic.Bool
}

// NewCatalogService creates the coordinator in the loading state with an empty list.
func NewCatalogService(
	api clients.ProductAPI,
	images imagestore.Store,
	validator DraftValidator,
	metrics awspkg.Recorder,
	logger *zap.Logger,
) CatalogService {
	if metrics == nil {
		metrics = awspkg.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogServiceImpl{
		api:       api,
		images:    images,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
		products:  []models.Product{},
		state:     StateLoading,
	}
}

// Load replaces the list with the remote one. On failure the previous list
// is kept. The state is ready once any load attempt has finished. A load
// holds the busy flag like a mutation, so the two never overlap.
func (s *catalogServiceImpl) Load(ctx context.Context) error {
	if !s.busy.CompareAndSwap(false, true) {
		return apperrors.Busy()
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	start := time.Now()
	products, err := s.api.List(ctx)
	s.recordLatency(awspkg.MetricRemoteLatency, time.Since(start), "list")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	if err != nil {
		s.loadErr = apperrors.Load(err)
		s.logger.Error("Failed to load products", zap.Error(err))
		s.record(awspkg.MetricCatalogLoadFailed, "list")
		return s.loadErr
	}
	if products == nil {
		products = []models.Product{}
	}
	s.products = products
	s.loadErr = nil
	s.logger.Info("Products loaded", zap.Int("count", len(products)))
	return nil
}

// Add creates the product remotely, keeps the uploaded image under the
// server-assigned id and prepends the server record.
func (s *catalogServiceImpl) Add(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	draft, err := s.validator.Validate(draft)
	if err != nil {
		return models.Product{}, err
	}
	if !s.acquire() {
		return models.Product{}, apperrors.Busy()
	}
	defer s.busy.Store(false)

	start := time.Now()
	created, err := s.api.Create(ctx, draft)
	s.recordLatency(awspkg.MetricRemoteLatency, time.Since(start), "create")
	if err != nil {
		return models.Product{}, s.mutationFailed("add", err)
	}

	if err := s.images.Set(ctx, created.ID, draft.Image); err != nil {
		// The remote record exists; the card falls back to the record image.
		s.logger.Warn("Failed to store product image", zap.Int64("product_id", created.ID), zap.Error(err))
	}

	s.mu.Lock()
	s.products = append([]models.Product{created}, s.products...)
	s.mu.Unlock()

	s.logger.Info("Product added", zap.Int64("product_id", created.ID), zap.String("title", created.Title))
	s.record(awspkg.MetricProductsCreated, "add")
	return created, nil
}

// Update replaces the product at id remotely, sending the record's current
// image, then overlays the submitted draft on the server echo.
func (s *catalogServiceImpl) Update(ctx context.Context, id int64, draft models.ProductDraft) (models.Product, error) {
	original, ok := s.Product(id)
	if !ok {
		return models.Product{}, apperrors.NotFound(id)
	}
	draft, err := s.validator.Validate(draft)
	if err != nil {
		return models.Product{}, err
	}
	if !s.acquire() {
		return models.Product{}, apperrors.Busy()
	}
	defer s.busy.Store(false)

	start := time.Now()
	updated, err := s.api.Update(ctx, id, draft, original.Image)
	s.recordLatency(awspkg.MetricRemoteLatency, time.Since(start), "update")
	if err != nil {
		return models.Product{}, s.mutationFailed("update", err)
	}

	if err := s.images.Set(ctx, id, draft.Image); err != nil {
		s.logger.Warn("Failed to store product image", zap.Int64("product_id", id), zap.Error(err))
	}

	draft.ID = id
	merged := draft.Merge(updated)

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = merged
		}
	}
	s.mu.Unlock()

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	s.record(awspkg.MetricProductsUpdated, "update")
	return merged, nil
}

// Delete removes the product remotely and only then drops its image and
// list entry.
func (s *catalogServiceImpl) Delete(ctx context.Context, id int64) error {
	if !s.acquire() {
		return apperrors.Busy()
	}
	defer s.busy.Store(false)

	start := time.Now()
	err := s.api.Delete(ctx, id)
	s.recordLatency(awspkg.MetricRemoteLatency, time.Since(start), "delete")
	if err != nil {
		return s.mutationFailed("delete", err)
	}

	if err := s.images.Remove(ctx, id); err != nil {
		s.logger.Warn("Failed to remove product image", zap.Int64("product_id", id), zap.Error(err))
	}

	s.mu.Lock()
	kept := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	s.record(awspkg.MetricProductsDeleted, "delete")
	return nil
}

// Products returns a copy of the current list.
func (s *catalogServiceImpl) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *catalogServiceImpl) Product(id int64) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// ImageFor picks what a card shows: stored image, then record image, then
// the no-image placeholder.
func (s *catalogServiceImpl) ImageFor(ctx context.Context, p models.Product) string {
	stored, ok, err := s.images.Get(ctx, p.ID)
	if err != nil {
		s.logger.Warn("Image lookup failed", zap.Int64("product_id", p.ID), zap.Error(err))
	}
	if ok && stored != "" {
		return stored
	}
	if p.Image != "" {
		return p.Image
	}
	return NoImagePlaceholder
}

// EditDraft pre-fills the edit form. The image is the stored one if any,
// otherwise the record's own.
func (s *catalogServiceImpl) EditDraft(ctx context.Context, id int64) (models.ProductDraft, error) {
	p, ok := s.Product(id)
	if !ok {
		return models.ProductDraft{}, apperrors.NotFound(id)
	}
	image := p.Image
	if stored, found, err := s.images.Get(ctx, id); err == nil && found {
		image = stored
	}
	return models.DraftFrom(p, image), nil
}

func (s *catalogServiceImpl) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *catalogServiceImpl) Busy() bool { return s.busy.Load() }

// LoadError is the error of the most recent load, or nil.
func (s *catalogServiceImpl) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// acquire takes the busy flag for a mutation. Nothing is mutated until the
// list has loaded, since the load would replace the result.
func (s *catalogServiceImpl) acquire() bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	if s.State() == StateLoading {
		s.busy.Store(false)
		return false
	}
	return true
}

func (s *catalogServiceImpl) mutationFailed(action string, err error) error {
	s.logger.Error("Product mutation failed", zap.String("action", action), zap.Error(err))
	s.record(awspkg.MetricCatalogMutationFailed, action)
	return apperrors.Mutation(action, err)
}

// record and recordLatency publish off the request path.
func (s *catalogServiceImpl) record(metric, action string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.metrics.RecordCount(ctx, metric, map[string]string{"Action": action})
	}()
}

func (s *catalogServiceImpl) recordLatency(metric string, d time.Duration, action string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.metrics.RecordLatency(ctx, metric, d, map[string]string{"Action": action})
	}()
}
