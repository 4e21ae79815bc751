package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage keeps uploaded import documents. LocalStorage is the only
// implementation; an object store can take its place.
type Storage interface {
	// Save stores data and returns a reference to it.
	// key is a unique slash-separated path, e.g. "imports/<batch-id>/tabela.pdf".
	Save(ctx context.Context, key string, data io.Reader, contentType string) (ref string, err error)

	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}
