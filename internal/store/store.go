package store

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("store: key not found")

// Store is the persistent key-value storage behind the quote cart and the
// operator-edited catalog. Implementations must be safe for concurrent use.
// Callers treat writes as best-effort durability: a failed write never rolls
// back in-memory state.
type Store interface {
	Get(bucket, key string) ([]byte, error)
	Put(bucket, key string, value []byte) error
	Delete(bucket, key string) error
	Close() error
}
