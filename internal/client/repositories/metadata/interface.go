// Package metadata is the key/value repository of the client state DB. The
// session store keeps its token and user profile here.
package metadata

import (
	"context"
)

// Repository is bound to one DBTX; build one per transaction.
type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
