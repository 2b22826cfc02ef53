package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the code has no cached target.
var ErrCacheMiss = errors.New("cache miss")

// LinkCache caches code -> original URL on the redirect path. Click counts
// are never cached; those always go to the store.
type LinkCache interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, originalURL string) error
	Delete(ctx context.Context, code string) error
	Close() error
}
