package weather

import (
	"context"
	"time"
)

// Client abstracts one endpoint shape of the weather API (split current+forecast
// calls, or a combined endpoint). Implementations issue their requests
// sequentially and fail the whole fetch when any of them fails.
type Client interface {
	Fetch(ctx context.Context, query string) (Report, error)
}

// CacheStore is the persistent key-value capability the orchestrator reads
// and writes its cache slot through. A ttl of zero means no expiry.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
