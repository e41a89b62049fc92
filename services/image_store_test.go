package services_test

import (
	"context"
	"errors"
	"testing"

	"product-admin/models"
	"product-admin/services"
	"product-admin/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockImageStore records every call the coordinator makes to the image store.
type MockImageStore struct{ mock.Mock }

func (m *MockImageStore) Get(ctx context.Context, id int64) (string, bool, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockImageStore) Set(ctx context.Context, id int64, image string) error {
	return m.Called(ctx, id, image).Error(0)
}

func (m *MockImageStore) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func mockedService(t *testing.T, api *fakeAPI, products []models.Product) (services.CatalogService, *MockImageStore) {
	t.Helper()
	store := new(MockImageStore)
	api.listFn = func(context.Context) ([]models.Product, error) { return products, nil }
	svc := services.NewCatalogService(api, store, validation.NewProductValidator(), nil, nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc, store
}

func TestAdd_ImageStoredUnderServerID(t *testing.T) {
	svc, store := mockedService(t, &fakeAPI{}, seeded())
	draft := backpackDraft()
	store.On("Set", mock.Anything, int64(21), draft.Image).Return(nil).Once()

	created, err := svc.Add(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, int64(21), created.ID)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Set", mock.Anything, draft.ID, mock.Anything)
}

func TestAdd_ImageStoreFailureStillAddsProduct(t *testing.T) {
	svc, store := mockedService(t, &fakeAPI{}, seeded())
	store.On("Set", mock.Anything, int64(21), mock.Anything).Return(errors.New("quota exceeded"))

	_, err := svc.Add(context.Background(), backpackDraft())

	require.NoError(t, err)
	assert.Len(t, svc.Products(), 3)
	assert.Equal(t, int64(21), svc.Products()[0].ID)
}

func TestDelete_RemoteFailureNeverTouchesImageStore(t *testing.T) {
	api := &fakeAPI{deleteFn: func(context.Context, int64) error { return errRemote }}
	svc, store := mockedService(t, api, seeded())

	err := svc.Delete(context.Background(), 1)

	require.Error(t, err)
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestImageFor_StoreErrorFallsBackToRecordImage(t *testing.T) {
	svc, store := mockedService(t, &fakeAPI{}, seeded())
	store.On("Get", mock.Anything, int64(1)).Return("", false, errors.New("redis: connection refused"))

	got := svc.ImageFor(context.Background(), seeded()[0])

	assert.Equal(t, "https://fakestoreapi.com/img/1.jpg", got)
	store.AssertExpectations(t)
}
