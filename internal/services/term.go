package services

import (
	"context"
	"strings"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

const CodeTermCycle = "term_cycle"

type TermService interface {
	UpsertTerm(ctx context.Context, id, parentID string, attrs types.TermAttributes) (string, error)
	AddTermRelationship(ctx context.Context, parentID, childID string) error
	RemoveTermRelationship(ctx context.Context, parentID, childID string) (int, error)
	DeleteTerm(ctx context.Context, id string) (*types.TermUsage, error)
	FirstTerms(ctx context.Context) ([]*types.Term, error)
	TermChildrenOrParents(ctx context.Context, id, mode string) ([]*types.Term, error)
	AllTerms(ctx context.Context) ([]*types.Term, error)
}

type termService struct {
	store graph.Store
	cache SearchCache
	log   *logger.Logger
}

func NewTermService(store graph.Store, cache SearchCache, baseLog *logger.Logger) TermService {
	return &termService{
		store: store,
		cache: orNoopCache(cache),
		log:   baseLog.With("service", "TermService"),
	}
}

func (s *termService) UpsertTerm(ctx context.Context, id, parentID string, attrs types.TermAttributes) (string, error) {
	id = strings.TrimSpace(id)
	parentID = strings.TrimSpace(parentID)

	created := id == ""
	if created {
		id = s.store.NewID()
	}
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		if created {
			ok, err := tx.CreateTerm(ctx, id, parentID, attrs)
			if err != nil {
				return err
			}
			if !ok {
				return apierr.NotFound("parent term %q does not exist", parentID)
			}
			return nil
		}
		ok, err := tx.MergeTerm(ctx, id, attrs)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("term %q does not exist", id)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("Term upserted", "term_id", id, "created", created)
	return id, nil
}

// AddTermRelationship links parent -> child unless the edge would close a
// cycle in the NEXT_TERM graph.
func (s *termService) AddTermRelationship(ctx context.Context, parentID, childID string) error {
	parentID = strings.TrimSpace(parentID)
	childID = strings.TrimSpace(childID)
	if parentID == "" || childID == "" {
		return apierr.BadRequest("", "parent and child required")
	}
	if parentID == childID {
		return apierr.BadRequest(CodeTermCycle, "term %q cannot be its own child", parentID)
	}

	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		missing, err := tx.MissingTerms(ctx, []string{parentID, childID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apierr.NotFound("terms do not exist: %s", strings.Join(missing, ", "))
		}
		adj, err := tx.TermAdjacency(ctx)
		if err != nil {
			return err
		}
		if reachable(adj, childID, parentID) {
			return apierr.BadRequest(CodeTermCycle, "linking %q -> %q would create a cycle", parentID, childID)
		}
		return tx.LinkTerms(ctx, parentID, childID)
	})
	if err != nil {
		return err
	}
	s.log.Info("Term relationship added", "parent_id", parentID, "child_id", childID)
	return nil
}

// reachable reports whether to can be reached from from along adj.
func reachable(adj map[string][]string, from, to string) bool {
	seen := map[string]bool{}
	var walk func(k string) bool
	walk = func(k string) bool {
		if k == to {
			return true
		}
		if seen[k] {
			return false
		}
		seen[k] = true
		for _, next := range adj[k] {
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// RemoveTermRelationship deletes the parent -> child edge. It is refused,
// returning 0, while any chain contains both terms.
func (s *termService) RemoveTermRelationship(ctx context.Context, parentID, childID string) (int, error) {
	parentID = strings.TrimSpace(parentID)
	childID = strings.TrimSpace(childID)
	if parentID == "" || childID == "" {
		return 0, apierr.BadRequest("", "parent and child required")
	}

	var removed, guarding int
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		n, err := tx.ChainsContainingBoth(ctx, parentID, childID)
		if err != nil {
			return err
		}
		if n > 0 {
			guarding = n
			return nil
		}
		removed, err = tx.UnlinkTerms(ctx, parentID, childID)
		return err
	})
	if err != nil {
		return 0, err
	}

	switch {
	case guarding > 0:
		s.log.Info("Term relationship kept, chains reference both terms", "parent_id", parentID, "child_id", childID, "chains", guarding)
	case removed == 0:
		s.log.Info("Term relationship not found", "parent_id", parentID, "child_id", childID)
	default:
		s.log.Info("Term relationship removed", "parent_id", parentID, "child_id", childID)
	}
	return removed, nil
}

// DeleteTerm removes a term that no chain references and that has no
// children. A refusal is an IN_USE error carrying the usage counts.
func (s *termService) DeleteTerm(ctx context.Context, id string) (*types.TermUsage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.BadRequest("", "term uuid required")
	}

	var usage *types.TermUsage
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		u, err := tx.TermUsage(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return apierr.NotFound("term %q does not exist", id)
		}
		usage = u
		if !u.Deletable() {
			return apierr.InUse(*u, "term %q is referenced by %d chains and links %d terms", id, u.ChainsReferencing, u.TermsLinked)
		}
		return tx.DeleteTerm(ctx, id)
	})
	if err != nil {
		return usage, err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("Term deleted", "term_id", id)
	return usage, nil
}

func (s *termService) FirstTerms(ctx context.Context) ([]*types.Term, error) {
	var out []*types.Term
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		terms, err := tx.RootTerms(ctx)
		out = terms
		return err
	})
	return out, err
}

func (s *termService) TermChildrenOrParents(ctx context.Context, id, mode string) ([]*types.Term, error) {
	id = strings.TrimSpace(id)
	traversal, ok := types.ParseTraversalMode(mode)
	if !ok {
		return nil, apierr.BadRequest("", "unknown traversal mode %q", mode)
	}
	if id == "" {
		return nil, apierr.BadRequest("", "term uuid required")
	}

	var out []*types.Term
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		terms, found, err := tx.TermNeighbours(ctx, id, traversal)
		if err != nil {
			return err
		}
		if !found {
			return apierr.NotFound("term %q does not exist", id)
		}
		out = terms
		return nil
	})
	return out, err
}

func (s *termService) AllTerms(ctx context.Context) ([]*types.Term, error) {
	var out []*types.Term
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		terms, err := tx.ListTerms(ctx)
		out = terms
		return err
	})
	return out, err
}
