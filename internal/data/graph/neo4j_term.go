package graph

import (
	"context"
	"sort"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func (t *neo4jTx) CreateTerm(ctx context.Context, id, parentID string, attrs heraldry.TermAttributes) (bool, error) {
	params := map[string]any{
		"id":     id,
		"parent": parentID,
		"props":  attrs.WithDefaults().Properties(),
	}
	if parentID == "" {
		recs, err := t.write(ctx, `
CREATE (t:Term {uuid: $id})
SET t += $props
RETURN t.uuid AS id
`, params)
		return len(recs) > 0, err
	}
	recs, err := t.write(ctx, `
MATCH (p:Term {uuid: $parent})
CREATE (p)-[:NEXT_TERM]->(t:Term {uuid: $id})
SET t += $props
RETURN t.uuid AS id
`, params)
	return len(recs) > 0, err
}

func (t *neo4jTx) MergeTerm(ctx context.Context, id string, attrs heraldry.TermAttributes) (bool, error) {
	recs, err := t.write(ctx, `
MATCH (t:Term {uuid: $id})
SET t += $props
RETURN t.uuid AS id
`, map[string]any{"id": id, "props": attrs.Properties()})
	return len(recs) > 0, err
}

func (t *neo4jTx) MissingTerms(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	recs, err := t.collect(ctx, `
MATCH (t:Term)
WHERE t.uuid IN $ids
RETURN collect(t.uuid) AS found
`, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}
	found := map[string]bool{}
	if len(recs) > 0 {
		for _, v := range recordList(recs[0], "found") {
			if s, ok := v.(string); ok {
				found[s] = true
			}
		}
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (t *neo4jTx) TermAdjacency(ctx context.Context) (map[string][]string, error) {
	recs, err := t.collect(ctx, `
MATCH (p:Term)-[:NEXT_TERM]->(c:Term)
RETURN p.uuid AS parent, collect(c.uuid) AS children
`, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(recs))
	for _, rec := range recs {
		parent := recordString(rec, "parent")
		for _, v := range recordList(rec, "children") {
			if s, ok := v.(string); ok {
				out[parent] = append(out[parent], s)
			}
		}
		sort.Strings(out[parent])
	}
	return out, nil
}

func (t *neo4jTx) LinkTerms(ctx context.Context, parentID, childID string) error {
	return t.exec(ctx, `
MATCH (p:Term {uuid: $parent}), (c:Term {uuid: $child})
MERGE (p)-[:NEXT_TERM]->(c)
`, map[string]any{"parent": parentID, "child": childID})
}

func (t *neo4jTx) UnlinkTerms(ctx context.Context, parentID, childID string) (int, error) {
	recs, err := t.write(ctx, `
OPTIONAL MATCH (:Term {uuid: $parent})-[r:NEXT_TERM]->(:Term {uuid: $child})
WITH collect(r) AS rels
FOREACH (x IN rels | DELETE x)
RETURN size(rels) AS deleted
`, map[string]any{"parent": parentID, "child": childID})
	if err != nil || len(recs) == 0 {
		return 0, err
	}
	return recordInt(recs[0], "deleted"), nil
}

func (t *neo4jTx) ChainsContainingBoth(ctx context.Context, a, b string) (int, error) {
	recs, err := t.collect(ctx, `
MATCH (ch:Chain)-[:CONTAINS_TERM]->(:Term {uuid: $a})
MATCH (ch)-[:CONTAINS_TERM]->(:Term {uuid: $b})
RETURN count(DISTINCT ch) AS chains
`, map[string]any{"a": a, "b": b})
	if err != nil || len(recs) == 0 {
		return 0, err
	}
	return recordInt(recs[0], "chains"), nil
}

func (t *neo4jTx) TermUsage(ctx context.Context, id string) (*heraldry.TermUsage, error) {
	recs, err := t.collect(ctx, `
MATCH (t:Term {uuid: $id})
RETURN size([(ch:Chain)-[:CONTAINS_TERM]->(t) | ch]) AS chains,
       size([(t)-[:NEXT_TERM]->(c:Term) | c]) AS terms
`, map[string]any{"id": id})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &heraldry.TermUsage{
		ChainsReferencing: recordInt(recs[0], "chains"),
		TermsLinked:       recordInt(recs[0], "terms"),
	}, nil
}

func (t *neo4jTx) DeleteTerm(ctx context.Context, id string) error {
	return t.exec(ctx, `
MATCH (t:Term {uuid: $id})
DETACH DELETE t
`, map[string]any{"id": id})
}

func (t *neo4jTx) RootTerms(ctx context.Context) ([]*heraldry.Term, error) {
	recs, err := t.collect(ctx, `
MATCH (t:Term)
WHERE NOT EXISTS { MATCH (:Term)-[:NEXT_TERM]->(t) }
RETURN t{.*} AS term, [(t)-[:NEXT_TERM]->(c:Term) | c{.*}] AS children
ORDER BY t.name, t.uuid
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*heraldry.Term, 0, len(recs))
	for _, rec := range recs {
		term := termFromProps(recordMap(rec, "term"))
		if term == nil {
			continue
		}
		term.Children = termsFromList(recordList(rec, "children"))
		out = append(out, term)
	}
	return out, nil
}

func (t *neo4jTx) TermNeighbours(ctx context.Context, id string, mode heraldry.TraversalMode) ([]*heraldry.Term, bool, error) {
	cypher := `
MATCH (t:Term {uuid: $id})
RETURN [(t)-[:NEXT_TERM]->(n:Term) | n{.*}] AS terms
`
	if mode == heraldry.TraverseParents {
		cypher = `
MATCH (t:Term {uuid: $id})
RETURN [(n:Term)-[:NEXT_TERM]->(t) | n{.*}] AS terms
`
	}
	recs, err := t.collect(ctx, cypher, map[string]any{"id": id})
	if err != nil || len(recs) == 0 {
		return nil, false, err
	}
	return termsFromList(recordList(recs[0], "terms")), true, nil
}

func (t *neo4jTx) ListTerms(ctx context.Context) ([]*heraldry.Term, error) {
	recs, err := t.collect(ctx, `
MATCH (t:Term)
RETURN t{.*} AS term
ORDER BY t.name, t.uuid
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*heraldry.Term, 0, len(recs))
	for _, rec := range recs {
		if term := termFromProps(recordMap(rec, "term")); term != nil {
			out = append(out, term)
		}
	}
	return out, nil
}
