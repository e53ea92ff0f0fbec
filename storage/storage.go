package storage

import (
	"context"
	"errors"
)

var ErrDoesNotExist = errors.New("does not exist")

// System is the key/value backend opening hours are persisted on.
// Keys are slash separated paths.
type System interface {
	// Write stores data under key, replacing anything already there
	Write(ctx context.Context, key string, data []byte) error

	// Read returns ErrDoesNotExist when nothing is stored under key
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete is not an error for a missing key
	Delete(ctx context.Context, key string) error

	GetKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
