package cache

import (
	"context"
	"time"
)

// Store is a best-effort key-value cache with expiration. Lookups that miss
// or hit an expired entry return ok=false; callers fall through to the
// database.
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration)
	Get(ctx context.Context, key string) (string, bool)
	Delete(ctx context.Context, key string)
}
