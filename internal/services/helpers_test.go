package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type fixture struct {
	store     *recordingStore
	locations LocationService
	terms     TermService
	coas      CoAService
	search    SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &recordingStore{Store: graph.NewMemoryStore(), termRefs: map[string][]types.TermRef{}}
	log := logger.Nop()
	return &fixture{
		store:     store,
		locations: NewLocationService(store, nil, log),
		terms:     NewTermService(store, nil, log),
		coas:      NewCoAService(store, nil, log),
		search:    NewSearchService(store, nil, log),
	}
}

func (f *fixture) term(t *testing.T, name, parent string) string {
	t.Helper()
	id, err := f.terms.UpsertTerm(context.Background(), "", parent, types.TermAttributes{Name: &name})
	require.NoError(t, err)
	return id
}

func (f *fixture) coa(t *testing.T, id string) *types.CoA {
	t.Helper()
	coas, err := f.coas.AllCoA(context.Background(), []string{id})
	require.NoError(t, err)
	require.Len(t, coas, 1)
	return coas[0]
}

func chainIDs(c *types.CoA) []string {
	out := make([]string, 0, len(c.Chains))
	for _, ch := range c.Chains {
		out = append(out, ch.ID)
	}
	return out
}

func chainTermIDs(ch *types.Chain) []string {
	out := make([]string, 0, len(ch.Terms))
	for _, t := range ch.Terms {
		out = append(out, t.ID)
	}
	return out
}

// recordingStore remembers the last CONTAINS_TERM refs written per chain.
type recordingStore struct {
	graph.Store
	mu       sync.Mutex
	termRefs map[string][]types.TermRef
}

func (s *recordingStore) ExecuteWrite(ctx context.Context, fn func(tx graph.Tx) error) error {
	pending := map[string][]types.TermRef{}
	err := s.Store.ExecuteWrite(ctx, func(tx graph.Tx) error {
		return fn(&recordingTx{Tx: tx, pending: pending})
	})
	if err == nil {
		s.mu.Lock()
		for k, v := range pending {
			s.termRefs[k] = v
		}
		s.mu.Unlock()
	}
	return err
}

func (s *recordingStore) refs(chainID string) []types.TermRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.termRefs[chainID]
}

type recordingTx struct {
	graph.Tx
	pending map[string][]types.TermRef
}

func (tx *recordingTx) SetChainTerms(ctx context.Context, chainID string, refs []types.TermRef) error {
	tx.pending[chainID] = append([]types.TermRef(nil), refs...)
	return tx.Tx.SetChainTerms(ctx, chainID, refs)
}
