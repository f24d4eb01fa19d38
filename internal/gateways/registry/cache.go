package registry

import (
	"context"
	"errors"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize   = 10000
	defaultCacheTTL    = 5 * time.Minute
	defaultMaxInFlight = 16
)

type cachedRecord struct {
	record  Record
	fetched time.Time
}

// CachedProvider serves AttributeProvider lookups from an LRU of whole records.
// Concurrent misses for one key share a single fetch.
type CachedProvider struct {
	src   Source
	cache *lru.Cache
	group singleflight.Group
	sem   *semaphore.Weighted
	ttl   time.Duration
	clock func() time.Time
}

var _ assets.AttributeProvider = (*CachedProvider)(nil)

func NewCachedProvider(src Source, size int, ttl time.Duration, maxInFlight int64) *CachedProvider {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	cache, _ := lru.New(size)
	return &CachedProvider{
		src:   src,
		cache: cache,
		sem:   semaphore.NewWeighted(maxInFlight),
		ttl:   ttl,
		clock: time.Now,
	}
}

func (p *CachedProvider) record(ctx context.Context, key assets.Key) (Record, error) {
	if v, ok := p.cache.Get(key); ok {
		entry := v.(cachedRecord)
		if p.clock().Sub(entry.fetched) < p.ttl {
			return entry.record, nil
		}
		p.cache.Remove(key)
	}

	v, err, _ := p.group.Do(key.Hex(), func() (any, error) {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return Record{}, err
		}
		defer p.sem.Release(1)

		r, err := p.src.Record(ctx, key)
		if err != nil {
			return Record{}, err
		}
		p.cache.Add(key, cachedRecord{record: r, fetched: p.clock()})
		return r, nil
	})
	if err != nil {
		return Record{}, err
	}
	return v.(Record), nil
}

// Invalidate drops a cached record, e.g. after an ownership transfer.
func (p *CachedProvider) Invalidate(key assets.Key) {
	p.cache.Remove(key)
}

func (p *CachedProvider) Owner(ctx context.Context, key assets.Key) (string, error) {
	r, err := p.record(ctx, key)
	if errors.Is(err, ErrNotRegistered) {
		return "", nil
	}
	return r.Owner, err
}

func (p *CachedProvider) Variant(ctx context.Context, key assets.Key) (int, error) {
	r, err := p.record(ctx, key)
	return r.Variant, err
}

func (p *CachedProvider) Accessories(ctx context.Context, key assets.Key) ([]assets.Accessory, error) {
	r, err := p.record(ctx, key)
	return r.Accessories, err
}
