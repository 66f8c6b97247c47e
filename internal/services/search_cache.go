package services

import "context"

// SearchCache memoizes research results. Any write to the catalog must call
// Invalidate once it has committed. Get reports the cache generation it read
// from, and Put must store under that same generation so a result computed
// across an Invalidate is never served.
type SearchCache interface {
	Get(ctx context.Context, key string) (ids []string, gen int64, ok bool)
	Put(ctx context.Context, gen int64, key string, ids []string)
	Invalidate(ctx context.Context)
}

type noopSearchCache struct{}

func (noopSearchCache) Get(context.Context, string) ([]string, int64, bool) { return nil, -1, false }
func (noopSearchCache) Put(context.Context, int64, string, []string)        {}
func (noopSearchCache) Invalidate(context.Context)                          {}

func orNoopCache(c SearchCache) SearchCache {
	if c == nil {
		return noopSearchCache{}
	}
	return c
}
