// Package clientstorage stores opaque per-profile values under string keys.
// It plays the role a browser's local storage plays for a single-page app:
// a best-effort slot per key, no versioning.
package clientstorage

import "context"

type Repository interface {
	// Get returns domain.ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, profileID, key string) ([]byte, error)
	Set(ctx context.Context, profileID, key string, value []byte) error
	Delete(ctx context.Context, profileID, key string) error
	Ping(ctx context.Context) error
}
