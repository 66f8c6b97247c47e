package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
)

func TestUpsertCoAReconcilesOwnedChainSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	t1, t2, t3 := f.term(t, "Lion", ""), f.term(t, "Eagle", ""), f.term(t, "Cross", "")

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "Shield"}, []types.ChainInput{
		{Terms: []string{t1}},
		{Terms: []string{t2}},
		{Terms: []string{t3}},
	})
	require.NoError(t, err)
	before := chainIDs(f.coa(t, id))
	require.Len(t, before, 3)

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{Name: "Shield"}, []types.ChainInput{
		{ID: before[1], Terms: []string{t2, t1}},
		{Terms: []string{t3}},
	})
	require.NoError(t, err)

	after := f.coa(t, id)
	require.Len(t, after.Chains, 2)
	assert.Equal(t, before[1], after.Chains[0].ID)
	assert.NotContains(t, []string{before[0], before[2]}, after.Chains[1].ID)
	assert.Equal(t, []string{t2, t1}, chainTermIDs(after.Chains[0]))
	assert.Equal(t, []string{t3}, chainTermIDs(after.Chains[1]))
}

func TestUpsertCoATermOrdersArePositions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, b, c := f.term(t, "A", ""), f.term(t, "B", ""), f.term(t, "C", "")

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "X"}, []types.ChainInput{{Terms: []string{c, a, b}}})
	require.NoError(t, err)
	chain := f.coa(t, id).Chains[0]

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{Name: "X"}, []types.ChainInput{{ID: chain.ID, Terms: []string{b, c}}})
	require.NoError(t, err)

	refs := f.store.refs(chain.ID)
	require.Len(t, refs, 2)
	orders := []int{refs[0].Order, refs[1].Order}
	sort.Ints(orders)
	assert.Equal(t, []int{0, 1}, orders)
	assert.Equal(t, []string{b, c}, chainTermIDs(f.coa(t, id).Chains[0]))
}

func TestDeleteChainsCompactsOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tid := f.term(t, "Lion", "")

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "Shield"}, []types.ChainInput{
		{Terms: []string{tid}}, {Terms: []string{tid}}, {Terms: []string{tid}},
	})
	require.NoError(t, err)
	inserted, err := f.coas.InsertChains(ctx, id, []types.ChainInsert{{Order: 10, Terms: []types.TermRef{{ID: tid}}}})
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	ids := chainIDs(f.coa(t, id))
	require.Equal(t, inserted[0], ids[3])

	n, err := f.coas.DeleteChains(ctx, id, []string{ids[1], "not-owned"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after := f.coa(t, id)
	assert.Equal(t, []string{ids[0], ids[2], ids[3]}, chainIDs(after))
	for i, ch := range after.Chains {
		assert.Equal(t, i, ch.Order)
	}
}

func TestDeleteChainsWithoutCoAIsNoop(t *testing.T) {
	f := newFixture(t)
	n, err := f.coas.DeleteChains(context.Background(), "", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUpsertCoAIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	t1, t2, t3 := f.term(t, "T1", ""), f.term(t, "T2", ""), f.term(t, "T3", "")
	loc, err := f.locations.UpsertLocation(ctx, "", "Bavaria", "")
	require.NoError(t, err)

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "Shield"}, []types.ChainInput{{Terms: []string{t1, t2}}, {Terms: []string{t3}}})
	require.NoError(t, err)
	current := chainIDs(f.coa(t, id))

	attrs := types.CoAAttributes{Name: "Shield1", Description: "d", LocationID: loc, Attributes: map[string]string{"motto": "x"}}
	payload := []types.ChainInput{
		{ID: current[0], Terms: []string{t2, t1}},
		{Terms: []string{t3, t1}},
	}
	_, err = f.coas.UpsertCoA(ctx, id, attrs, payload)
	require.NoError(t, err)
	first := f.coa(t, id)

	payload[1].ID = first.Chains[1].ID
	_, err = f.coas.UpsertCoA(ctx, id, attrs, payload)
	require.NoError(t, err)
	second := f.coa(t, id)

	assert.Equal(t, first, second)
	assert.Equal(t, "Bavaria", second.LocationName)
}

func TestUpsertCoASwapsChainOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	t1, t2, t3 := f.term(t, "T1", ""), f.term(t, "T2", ""), f.term(t, "T3", "")

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "Shield1"}, []types.ChainInput{{Terms: []string{t1, t2}}, {Terms: []string{t3}}})
	require.NoError(t, err)
	before := f.coa(t, id)
	x, y := before.Chains[0].ID, before.Chains[1].ID

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{Name: "Shield1"}, []types.ChainInput{
		{ID: y, Terms: []string{t3}},
		{ID: x, Terms: []string{t1, t2}},
	})
	require.NoError(t, err)

	after := f.coa(t, id)
	require.Len(t, after.Chains, 2)
	assert.Equal(t, y, after.Chains[0].ID)
	assert.Equal(t, 0, after.Chains[0].Order)
	assert.Equal(t, x, after.Chains[1].ID)
	assert.Equal(t, 1, after.Chains[1].Order)
	assert.Equal(t, []string{t3}, chainTermIDs(after.Chains[0]))
	assert.Equal(t, []string{t1, t2}, chainTermIDs(after.Chains[1]))
}

func TestUpsertCoARejectsInvalidPayloads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tid := f.term(t, "Lion", "")

	tests := []struct {
		name   string
		id     string
		attrs  types.CoAAttributes
		chains []types.ChainInput
		code   string
	}{
		{name: "unknown term", chains: []types.ChainInput{{Terms: []string{tid, "ghost"}}}, code: CodeUnknownTerms},
		{name: "duplicate term", chains: []types.ChainInput{{Terms: []string{tid, tid}}}, code: CodeDuplicateTerm},
		{name: "duplicate chain", chains: []types.ChainInput{{ID: "c", Terms: []string{tid}}, {ID: "c"}}, code: CodeDuplicateChain},
		{name: "bad attribute key", attrs: types.CoAAttributes{Attributes: map[string]string{"no spaces": "x"}}, code: CodeInvalidAttributes},
		{name: "unknown coa", id: "missing", code: apierr.CodeNotFound},
		{name: "unknown location", attrs: types.CoAAttributes{LocationID: "nowhere"}, code: apierr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.coas.UpsertCoA(ctx, tt.id, tt.attrs, tt.chains)
			require.Error(t, err)
			assert.True(t, apierr.Is(err, tt.code), "got %v", err)
		})
	}

	all, err := f.coas.AllCoA(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpsertCoALocationTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, err := f.locations.UpsertLocation(ctx, "", "Augsburg", "")
	require.NoError(t, err)
	b, err := f.locations.UpsertLocation(ctx, "", "Bamberg", "")
	require.NoError(t, err)

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "S", LocationID: a}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Augsburg", f.coa(t, id).LocationName)

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{Name: "S", LocationID: b}, nil)
	require.NoError(t, err)
	assert.Equal(t, b, f.coa(t, id).LocationID)

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{Name: "S"}, nil)
	require.NoError(t, err)
	got := f.coa(t, id)
	assert.Empty(t, got.LocationID)
	assert.Empty(t, got.LocationName)
}

func TestUpsertCoAReplacesAttributes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{
		Name:        "S",
		Description: "argent, a lion",
		Attributes:  map[string]string{"motto": "vigilans", "tincture": "or"},
	}, nil)
	require.NoError(t, err)

	_, err = f.coas.UpsertCoA(ctx, id, types.CoAAttributes{
		Name:       "S2",
		Attributes: map[string]string{"tincture": "gules"},
	}, nil)
	require.NoError(t, err)

	got := f.coa(t, id)
	assert.Equal(t, "S2", got.Name)
	assert.Empty(t, got.Description)
	assert.Equal(t, map[string]string{"tincture": "gules"}, got.Attributes)
}

func TestInsertChainsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coas.InsertChains(ctx, "", nil)
	assert.True(t, apierr.Is(err, apierr.CodeBadRequest))

	_, err = f.coas.InsertChains(ctx, "missing", []types.ChainInsert{{Order: 0}})
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))

	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "S"}, nil)
	require.NoError(t, err)
	_, err = f.coas.InsertChains(ctx, id, []types.ChainInsert{{Order: 0, Terms: []types.TermRef{{ID: "ghost"}}}})
	assert.True(t, apierr.Is(err, CodeUnknownTerms))
	assert.Empty(t, f.coa(t, id).Chains)
}

func TestDeleteCoAKeepsTermsAndLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tid := f.term(t, "Lion", "")
	loc, err := f.locations.UpsertLocation(ctx, "", "Bavaria", "")
	require.NoError(t, err)
	id, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "S", LocationID: loc}, []types.ChainInput{{Terms: []string{tid}}})
	require.NoError(t, err)

	require.NoError(t, f.coas.DeleteCoA(ctx, id))
	assert.True(t, apierr.Is(f.coas.DeleteCoA(ctx, id), apierr.CodeNotFound))

	terms, err := f.terms.AllTerms(ctx)
	require.NoError(t, err)
	assert.Len(t, terms, 1)
	locs, err := f.locations.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	usage, err := f.terms.DeleteTerm(ctx, tid)
	require.NoError(t, err)
	assert.True(t, usage.Deletable())
}

func TestAllCoAIncludesChainlessRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "B"}, nil)
	require.NoError(t, err)
	_, err = f.coas.UpsertCoA(ctx, "", types.CoAAttributes{Name: "A"}, nil)
	require.NoError(t, err)

	all, err := f.coas.AllCoA(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.NotNil(t, all[0].Chains)
}
