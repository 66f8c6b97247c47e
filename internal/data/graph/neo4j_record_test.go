package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func TestTermFromProps(t *testing.T) {
	term := termFromProps(map[string]any{
		"uuid":     "t1",
		"name":     "Lion",
		"synonyms": []any{"leo", 7, "löwe"},
		"hide":     true,
	})
	require.NotNil(t, term)
	assert.Equal(t, "t1", term.ID)
	assert.Equal(t, []string{"leo", "löwe"}, term.Synonyms)
	assert.True(t, term.Hide)
	assert.Equal(t, "", term.Comment)
	assert.NotNil(t, term.Children)
	assert.Nil(t, termFromProps(nil))
}

func TestCoAFromRecordOrdersChainsAndTerms(t *testing.T) {
	rec := &neo4j.Record{
		Keys: []string{"coa", "locationId", "locationName", "chains"},
		Values: []any{
			map[string]any{"uuid": "c1", "name": "Shield", "description": "d", heraldry.AttributePrefix + "motto": "vigilans"},
			"l1",
			"Bavaria",
			[]any{
				map[string]any{"uuid": "ch2", "order": int64(1), "terms": []any{}},
				map[string]any{"uuid": "ch1", "order": int64(0), "terms": []any{
					map[string]any{"order": int64(1), "term": map[string]any{"uuid": "t2", "name": "B"}},
					map[string]any{"order": int64(0), "term": map[string]any{"uuid": "t1", "name": "A"}},
				}},
			},
		},
	}

	c := coaFromRecord(rec)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "l1", c.LocationID)
	assert.Equal(t, "Bavaria", c.LocationName)
	assert.Equal(t, map[string]string{"motto": "vigilans"}, c.Attributes)
	require.Len(t, c.Chains, 2)
	assert.Equal(t, "ch1", c.Chains[0].ID)
	require.Len(t, c.Chains[0].Terms, 2)
	assert.Equal(t, "t1", c.Chains[0].Terms[0].ID)
	assert.Equal(t, "t2", c.Chains[0].Terms[1].ID)
	assert.Empty(t, c.Chains[1].Terms)
}

func TestCoAFromRecordWithoutLocationOrChains(t *testing.T) {
	rec := &neo4j.Record{
		Keys:   []string{"coa", "locationId", "locationName", "chains"},
		Values: []any{map[string]any{"uuid": "c1"}, nil, nil, []any{}},
	}
	c := coaFromRecord(rec)
	assert.Equal(t, "", c.LocationID)
	assert.NotNil(t, c.Chains)
	assert.Empty(t, c.Chains)
	assert.Nil(t, c.Attributes)
}

func TestSearchParamsShape(t *testing.T) {
	q := heraldry.NewSearchQuery("A", "", []string{""}, [][]string{{"t1", "t2"}})
	p := searchParams(q)
	assert.Equal(t, "a", p["name"])
	assert.Equal(t, []any{}, p["terms"])
	assert.Equal(t, []any{[]any{"t1", "t2"}}, p["groups"])
}
