// Package prefs stores small client preferences (prompt throttles, cached
// registration drafts) as key/value pairs in the local database.
package prefs

import "context"

// Repository is a string key/value store. Get returns ("", nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
