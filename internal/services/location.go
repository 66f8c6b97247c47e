package services

import (
	"context"
	"strings"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type LocationService interface {
	UpsertLocation(ctx context.Context, id, name, parentID string) (string, error)
	DeleteLocation(ctx context.Context, id string) (int, error)
	ListLocations(ctx context.Context) ([]*types.Location, error)
}

type locationService struct {
	store graph.Store
	cache SearchCache
	log   *logger.Logger
}

func NewLocationService(store graph.Store, cache SearchCache, baseLog *logger.Logger) LocationService {
	return &locationService{
		store: store,
		cache: orNoopCache(cache),
		log:   baseLog.With("service", "LocationService"),
	}
}

// UpsertLocation creates a location when id is empty, optionally under
// parentID, and renames it otherwise. parentID is ignored on rename.
func (s *locationService) UpsertLocation(ctx context.Context, id, name, parentID string) (string, error) {
	id = strings.TrimSpace(id)
	parentID = strings.TrimSpace(parentID)
	if strings.TrimSpace(name) == "" {
		return "", apierr.BadRequest("", "location name required")
	}

	created := id == ""
	if created {
		id = s.store.NewID()
	}
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		if created {
			ok, err := tx.CreateLocation(ctx, id, name, parentID)
			if err != nil {
				return err
			}
			if !ok {
				return apierr.NotFound("parent location %q does not exist", parentID)
			}
			return nil
		}
		ok, err := tx.RenameLocation(ctx, id, name)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("location %q does not exist", id)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("Location upserted", "location_id", id, "created", created)
	return id, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, apierr.BadRequest("", "location uuid required")
	}
	var deleted int
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		n, err := tx.DeleteLocationTree(ctx, id)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.cache.Invalidate(ctx)
	}
	s.log.Info("Location tree deleted", "location_id", id, "deleted", deleted)
	return deleted, nil
}

func (s *locationService) ListLocations(ctx context.Context) ([]*types.Location, error) {
	var out []*types.Location
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		locs, err := tx.ListLocations(ctx)
		out = locs
		return err
	})
	return out, err
}
