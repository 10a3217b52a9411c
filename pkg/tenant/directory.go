package tenant

import (
	"context"
	"time"
)

// Info is the directory's view of a tenant: just enough to decide whether a
// validated identifier names a real, serviceable storefront.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory answers whether a validated identity names a known tenant.
// Implementations load from whatever source of truth the platform uses;
// Lookup returns ErrUnknownTenant when no tenant matches.
type Directory interface {
	Lookup(ctx context.Context, id string) (*Info, error)
}

// DirectoryFunc adapts a function to the Directory interface.
type DirectoryFunc func(ctx context.Context, id string) (*Info, error)

func (f DirectoryFunc) Lookup(ctx context.Context, id string) (*Info, error) {
	return f(ctx, id)
}

// CachedDirectory layers a TTL cache over a Directory so the hot path of the
// guard does not hit the source of truth on every request. Negative results
// are not cached: a tenant created moments ago must become visible without
// waiting out a TTL.
type CachedDirectory struct {
	source Directory
	cache  Cache
	ttl    time.Duration
}

// NewCachedDirectory wraps source with cache. A zero ttl defaults to five
// minutes.
func NewCachedDirectory(source Directory, cache Cache, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{source: source, cache: cache, ttl: ttl}
}

func (d *CachedDirectory) Lookup(ctx context.Context, id string) (*Info, error) {
	if info, ok := d.cache.Get(ctx, id); ok {
		return info, nil
	}
	info, err := d.source.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Set(ctx, id, info, d.ttl)
	return info, nil
}
