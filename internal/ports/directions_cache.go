package ports

import "context"

// Optional store of successful provider responses keyed by DirectionsRequest.CacheKey.
type DirectionsCache interface {
	// Return the cached response and whether it was found.
	Get(ctx context.Context, key string) (*DirectionsResponse, bool, error)
	Put(ctx context.Context, key string, resp *DirectionsResponse) error
}
