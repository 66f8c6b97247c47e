package services

import (
	"context"
	"strings"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

const (
	CodeUnknownTerms      = "unknown_terms"
	CodeDuplicateChain    = "duplicate_chain"
	CodeDuplicateTerm     = "duplicate_term"
	CodeInvalidAttributes = "invalid_attributes"
)

type CoAService interface {
	UpsertCoA(ctx context.Context, id string, attrs types.CoAAttributes, chains []types.ChainInput) (string, error)
	DeleteCoA(ctx context.Context, id string) error
	InsertChains(ctx context.Context, coaID string, chains []types.ChainInsert) ([]string, error)
	DeleteChains(ctx context.Context, coaID string, chainIDs []string) (int, error)
	AllCoA(ctx context.Context, ids []string) ([]*types.CoA, error)
}

type coaService struct {
	store graph.Store
	cache SearchCache
	log   *logger.Logger
}

func NewCoAService(store graph.Store, cache SearchCache, baseLog *logger.Logger) CoAService {
	return &coaService{
		store: store,
		cache: orNoopCache(cache),
		log:   baseLog.With("service", "CoAService"),
	}
}

// UpsertCoA creates a CoA when id is empty. Otherwise it reconciles the
// stored CoA with the payload: submitted chains that name an owned chain are
// reused, the rest are created, and owned chains absent from the payload are
// deleted. Chain and term orders follow list positions.
func (s *coaService) UpsertCoA(ctx context.Context, id string, attrs types.CoAAttributes, chains []types.ChainInput) (string, error) {
	id = strings.TrimSpace(id)
	attrs.LocationID = strings.TrimSpace(attrs.LocationID)
	if err := attrs.Validate(); err != nil {
		return "", apierr.BadRequest(CodeInvalidAttributes, "%v", err)
	}
	termIDs, err := validateChainInputs(chains)
	if err != nil {
		return "", err
	}

	created := id == ""
	if created {
		id = s.store.NewID()
	}

	var stats reconcileStats
	err = s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		if err := requireTerms(ctx, tx, termIDs); err != nil {
			return err
		}
		if created {
			if err := tx.CreateCoA(ctx, id, attrs); err != nil {
				return err
			}
		} else {
			ok, err := tx.UpdateCoA(ctx, id, attrs)
			if err != nil {
				return err
			}
			if !ok {
				return apierr.NotFound("coa %q does not exist", id)
			}
		}
		if !created || attrs.LocationID != "" {
			ok, err := tx.LinkCoALocation(ctx, id, attrs.LocationID)
			if err != nil {
				return err
			}
			if !ok {
				return apierr.NotFound("location %q does not exist", attrs.LocationID)
			}
		}
		st, err := s.reconcileChains(ctx, tx, id, chains)
		stats = st
		return err
	})
	if err != nil {
		return "", err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("CoA upserted",
		"coa_id", id,
		"created", created,
		"chains_reused", stats.reused,
		"chains_created", stats.created,
		"chains_deleted", stats.deleted,
	)
	return id, nil
}

type reconcileStats struct {
	reused  int
	created int
	deleted int
}

func (s *coaService) reconcileChains(ctx context.Context, tx graph.Tx, coaID string, chains []types.ChainInput) (reconcileStats, error) {
	var st reconcileStats
	owned, err := tx.OwnedChains(ctx, coaID)
	if err != nil {
		return st, err
	}
	ownedSet := make(map[string]bool, len(owned))
	for _, ref := range owned {
		ownedSet[ref.ID] = true
	}

	kept := make(map[string]bool, len(chains))
	for i, in := range chains {
		chainID := strings.TrimSpace(in.ID)
		if chainID != "" && ownedSet[chainID] {
			if err := tx.SetChainOrder(ctx, coaID, chainID, i); err != nil {
				return st, err
			}
			st.reused++
		} else {
			chainID = s.store.NewID()
			if err := tx.CreateChain(ctx, coaID, chainID, i); err != nil {
				return st, err
			}
			st.created++
		}
		kept[chainID] = true
		if err := tx.SetChainTerms(ctx, chainID, types.PositionalRefs(trimAll(in.Terms))); err != nil {
			return st, err
		}
	}

	var stale []string
	for _, ref := range owned {
		if !kept[ref.ID] {
			stale = append(stale, ref.ID)
		}
	}
	if len(stale) > 0 {
		n, err := tx.DeleteChains(ctx, coaID, stale)
		if err != nil {
			return st, err
		}
		st.deleted = n
	}
	return st, nil
}

func (s *coaService) DeleteCoA(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apierr.BadRequest("", "coa uuid required")
	}
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		ok, err := tx.DeleteCoA(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("coa %q does not exist", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.log.Info("CoA deleted", "coa_id", id)
	return nil
}

// InsertChains appends chains at the caller's orders without renumbering the
// chains already owned by the CoA.
func (s *coaService) InsertChains(ctx context.Context, coaID string, chains []types.ChainInsert) ([]string, error) {
	coaID = strings.TrimSpace(coaID)
	if coaID == "" {
		return nil, apierr.BadRequest("", "coa uuid required")
	}
	var termIDs []string
	for i := range chains {
		ids := make([]string, 0, len(chains[i].Terms))
		for j := range chains[i].Terms {
			chains[i].Terms[j].ID = strings.TrimSpace(chains[i].Terms[j].ID)
			ids = append(ids, chains[i].Terms[j].ID)
		}
		if err := checkChainTerms(ids); err != nil {
			return nil, err
		}
		termIDs = append(termIDs, ids...)
	}

	created := make([]string, 0, len(chains))
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		ok, err := tx.CoAExists(ctx, coaID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("coa %q does not exist", coaID)
		}
		if err := requireTerms(ctx, tx, dedupe(termIDs)); err != nil {
			return err
		}
		for _, ch := range chains {
			chainID := s.store.NewID()
			if err := tx.CreateChain(ctx, coaID, chainID, ch.Order); err != nil {
				return err
			}
			if err := tx.SetChainTerms(ctx, chainID, ch.Terms); err != nil {
				return err
			}
			created = append(created, chainID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.log.Info("Chains inserted", "coa_id", coaID, "count", len(created))
	return created, nil
}

// DeleteChains removes the named chains of a CoA and renumbers the remaining
// ones to 0..n-1, keeping their relative order.
func (s *coaService) DeleteChains(ctx context.Context, coaID string, chainIDs []string) (int, error) {
	coaID = strings.TrimSpace(coaID)
	ids := dedupe(trimAll(chainIDs))
	if coaID == "" || len(ids) == 0 {
		return 0, nil
	}

	var deleted int
	err := s.store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		n, err := tx.DeleteChains(ctx, coaID, ids)
		if err != nil {
			return err
		}
		deleted = n
		if n == 0 {
			return nil
		}
		remaining, err := tx.OwnedChains(ctx, coaID)
		if err != nil {
			return err
		}
		types.SortChainRefs(remaining)
		for i, ref := range remaining {
			if ref.Order == i {
				continue
			}
			if err := tx.SetChainOrder(ctx, coaID, ref.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.cache.Invalidate(ctx)
	}
	s.log.Info("Chains deleted", "coa_id", coaID, "deleted", deleted)
	return deleted, nil
}

// AllCoA returns every CoA, or only those in ids when ids is non-nil.
func (s *coaService) AllCoA(ctx context.Context, ids []string) ([]*types.CoA, error) {
	if ids != nil {
		ids = dedupe(trimAll(ids))
	}
	var out []*types.CoA
	err := s.store.ExecuteRead(ctx, func(tx graph.Tx) error {
		coas, err := tx.ListCoA(ctx, ids)
		out = coas
		return err
	})
	return out, err
}

// validateChainInputs checks the structural rules of an upsert payload and
// returns the distinct term ids it references.
func validateChainInputs(chains []types.ChainInput) ([]string, error) {
	seenChains := map[string]bool{}
	var all []string
	for _, ch := range chains {
		if id := strings.TrimSpace(ch.ID); id != "" {
			if seenChains[id] {
				return nil, apierr.BadRequest(CodeDuplicateChain, "chain %q submitted twice", id)
			}
			seenChains[id] = true
		}
		ids := trimAll(ch.Terms)
		if err := checkChainTerms(ids); err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return dedupe(all), nil
}

func checkChainTerms(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return apierr.BadRequest("", "chain term uuid required")
		}
		if seen[id] {
			return apierr.BadRequest(CodeDuplicateTerm, "term %q appears twice in one chain", id)
		}
		seen[id] = true
	}
	return nil
}

func requireTerms(ctx context.Context, tx graph.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := tx.MissingTerms(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		e := apierr.BadRequest(CodeUnknownTerms, "unknown terms: %s", strings.Join(missing, ", "))
		e.Details = map[string]any{"terms": missing}
		return e
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
