// Package kv is the client's durable key/value table. Values are opaque
// blobs; callers own their encoding.
package kv

import "context"

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
