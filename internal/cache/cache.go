package cache

import "context"

// Store reads and writes named JSON artifacts in persistent storage.
type Store interface {
	// Load deserializes the named artifact into v. Returns (false, nil) if the
	// artifact does not exist.
	Load(ctx context.Context, name string, v any) (bool, error)

	// Save serializes v and overwrites the named artifact, creating it if
	// necessary.
	Save(ctx context.Context, name string, v any) error

	// Delete removes the named artifact. Deleting an absent artifact is a no-op.
	Delete(ctx context.Context, name string) error
}
