// Package objstore abstracts the blob store the engine persists into.
// The store offers plain get/put/delete/list; there is no conditional
// write or transaction primitive, which is why the lock coordinator
// upstream relies on read-back verification.
package objstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for missing keys. Callers reading
// derived objects treat it as a cache miss, not a failure.
var ErrNotFound = errors.New("object not found")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error

	// List returns all keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// GetJSON reads and decodes an object into v. The boolean reports
// whether the object existed; a missing key is not an error.
func GetJSON(ctx context.Context, b Backend, key string, v any) (bool, error) {
	data, err := b.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode object %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode object %s: %w", key, err)
	}
	return b.Put(ctx, key, data)
}
