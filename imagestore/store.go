// Package imagestore keeps the uploaded image for each product id. The remote
// product API only ever stores a placeholder URL, so this store is the only
// place the real image survives.
package imagestore

import (
	"context"
	"strconv"
)

// KeyPrefix is prepended to the product id to form the storage key.
const KeyPrefix = "product_image_"

// Store is a string key-value namespace with one entry per product id.
type Store interface {
	// Get returns the stored image and true, or "" and false when absent.
	Get(ctx context.Context, id int64) (string, bool, error)
	// Set stores image for id. An empty image is ignored.
	Set(ctx context.Context, id int64, image string) error
	// Remove deletes the entry for id. Removing an absent entry is not an error.
	Remove(ctx context.Context, id int64) error
}

// Key returns the storage key for a product id.
func Key(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}
