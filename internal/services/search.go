package services

import (
	"context"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type SearchService interface {
	// Research returns the ids of every CoA matching all of the given
	// predicates, sorted ascending.
	Research(ctx context.Context, name, location string, singleTerms []string, termGroups [][]string) ([]string, error)
}

type searchService struct {
	store graph.Store
	cache SearchCache
	log   *logger.Logger
}

func NewSearchService(store graph.Store, cache SearchCache, baseLog *logger.Logger) SearchService {
	return &searchService{
		store: store,
		cache: orNoopCache(cache),
		log:   baseLog.With("service", "SearchService"),
	}
}

func (s *searchService) Research(ctx context.Context, name, location string, singleTerms []string, termGroups [][]string) ([]string, error) {
	q := types.NewSearchQuery(name, location, singleTerms, termGroups)
	key := q.Key()
	cached, gen, ok := s.cache.Get(ctx, key)
	if ok {
		return cached, nil
	}

	var ids []string
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		found, err := tx.SearchCoA(ctx, q)
		ids = found
		return err
	})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	s.cache.Put(ctx, gen, key, ids)
	s.log.Debug("Research evaluated", "matches", len(ids), "groups", len(q.TermGroups))
	return ids, nil
}
