package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func strPtr(s string) *string { return &s }

func TestMemoryStoreRollsBackFailedWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	boom := errors.New("boom")
	err := s.ExecuteWrite(ctx, func(tx Tx) error {
		if _, err := tx.CreateLocation(ctx, "l1", "Bavaria", ""); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.ExecuteRead(ctx, func(tx Tx) error {
		locs, err := tx.ListLocations(ctx)
		require.NoError(t, err)
		assert.Empty(t, locs)
		return nil
	}))
}

func TestMemoryStoreReadTxRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	err := s.ExecuteRead(ctx, func(tx Tx) error {
		_, err := tx.CreateLocation(ctx, "l1", "x", "")
		return err
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestMemoryStoreLocationTree(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.ExecuteWrite(ctx, func(tx Tx) error {
		for _, l := range []struct{ id, name, parent string }{
			{"root", "Europe", ""},
			{"de", "Germany", "root"},
			{"by", "Bavaria", "de"},
			{"fr", "France", "root"},
			{"other", "Asia", ""},
		} {
			ok, err := tx.CreateLocation(ctx, l.id, l.name, l.parent)
			require.NoError(t, err)
			require.True(t, ok)
		}
		ok, err := tx.CreateLocation(ctx, "orphan", "Nowhere", "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		return tx.CreateCoA(ctx, "c1", heraldry.CoAAttributes{Name: "Munich"})
	}))

	require.NoError(t, s.ExecuteWrite(ctx, func(tx Tx) error {
		ok, err := tx.LinkCoALocation(ctx, "c1", "by")
		require.NoError(t, err)
		require.True(t, ok)
		n, err := tx.DeleteLocationTree(ctx, "de")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		n, err = tx.DeleteLocationTree(ctx, "de")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		return nil
	}))

	require.NoError(t, s.ExecuteRead(ctx, func(tx Tx) error {
		locs, err := tx.ListLocations(ctx)
		require.NoError(t, err)
		names := []string{}
		for _, l := range locs {
			names = append(names, l.Name)
		}
		assert.Equal(t, []string{"Asia", "Europe", "France"}, names)

		coas, err := tx.ListCoA(ctx, nil)
		require.NoError(t, err)
		require.Len(t, coas, 1)
		assert.Empty(t, coas[0].LocationID)
		return nil
	}))
}

func TestMemoryStoreTermReads(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.ExecuteWrite(ctx, func(tx Tx) error {
		_, err := tx.CreateTerm(ctx, "a", "", heraldry.TermAttributes{Name: strPtr("Animal")})
		require.NoError(t, err)
		_, err = tx.CreateTerm(ctx, "b", "a", heraldry.TermAttributes{Name: strPtr("Lion")})
		require.NoError(t, err)
		_, err = tx.CreateTerm(ctx, "c", "a", heraldry.TermAttributes{Name: strPtr("Eagle")})
		require.NoError(t, err)
		_, err = tx.CreateTerm(ctx, "z", "", heraldry.TermAttributes{Name: strPtr("Colour")})
		require.NoError(t, err)
		ok, err := tx.MergeTerm(ctx, "b", heraldry.TermAttributes{Comment: strPtr("rampant")})
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	}))

	require.NoError(t, s.ExecuteRead(ctx, func(tx Tx) error {
		roots, err := tx.RootTerms(ctx)
		require.NoError(t, err)
		require.Len(t, roots, 2)
		assert.Equal(t, "Animal", roots[0].Name)
		require.Len(t, roots[0].Children, 2)
		assert.Equal(t, "Eagle", roots[0].Children[0].Name)
		assert.Equal(t, "Colour", roots[1].Name)
		assert.Empty(t, roots[1].Children)

		parents, found, err := tx.TermNeighbours(ctx, "b", heraldry.TraverseParents)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, parents, 1)
		assert.Equal(t, "a", parents[0].ID)

		_, found, err = tx.TermNeighbours(ctx, "nope", heraldry.TraverseChildren)
		require.NoError(t, err)
		assert.False(t, found)

		all, err := tx.ListTerms(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "rampant", all[3].Comment)
		assert.Equal(t, "Lion", all[3].Name)
		assert.Equal(t, []string{}, all[3].Synonyms)

		missing, err := tx.MissingTerms(ctx, []string{"a", "x", "c", "y"})
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, missing)
		return nil
	}))
}

func TestMemoryStoreChainsAndCoA(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.ExecuteWrite(ctx, func(tx Tx) error {
		for _, id := range []string{"t1", "t2", "t3"} {
			_, err := tx.CreateTerm(ctx, id, "", heraldry.TermAttributes{Name: strPtr(id)})
			require.NoError(t, err)
		}
		require.NoError(t, tx.CreateCoA(ctx, "c1", heraldry.CoAAttributes{Name: "Shield", Attributes: map[string]string{"tincture": "or"}}))
		require.NoError(t, tx.CreateChain(ctx, "c1", "x", 1))
		require.NoError(t, tx.CreateChain(ctx, "c1", "y", 0))
		require.NoError(t, tx.SetChainTerms(ctx, "x", heraldry.PositionalRefs([]string{"t2", "t1"})))
		require.NoError(t, tx.SetChainTerms(ctx, "y", heraldry.PositionalRefs([]string{"t3"})))
		return nil
	}))

	require.NoError(t, s.ExecuteRead(ctx, func(tx Tx) error {
		coas, err := tx.ListCoA(ctx, []string{"c1"})
		require.NoError(t, err)
		require.Len(t, coas, 1)
		c := coas[0]
		assert.Equal(t, map[string]string{"tincture": "or"}, c.Attributes)
		require.Len(t, c.Chains, 2)
		assert.Equal(t, "y", c.Chains[0].ID)
		assert.Equal(t, "x", c.Chains[1].ID)
		assert.Equal(t, "t2", c.Chains[1].Terms[0].ID)
		assert.Equal(t, "t1", c.Chains[1].Terms[1].ID)

		n, err := tx.ChainsContainingBoth(ctx, "t1", "t2")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		usage, err := tx.TermUsage(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, &heraldry.TermUsage{ChainsReferencing: 1}, usage)

		none, err := tx.ListCoA(ctx, []string{})
		require.NoError(t, err)
		assert.Empty(t, none)
		return nil
	}))

	require.NoError(t, s.ExecuteWrite(ctx, func(tx Tx) error {
		n, err := tx.DeleteChains(ctx, "other", []string{"x"})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		ok, err := tx.DeleteCoA(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	}))

	require.NoError(t, s.ExecuteRead(ctx, func(tx Tx) error {
		usage, err := tx.TermUsage(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, &heraldry.TermUsage{}, usage)
		refs, err := tx.OwnedChains(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, refs)
		return nil
	}))
}
