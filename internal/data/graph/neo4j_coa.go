package graph

import (
	"context"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func (t *neo4jTx) CreateCoA(ctx context.Context, id string, attrs heraldry.CoAAttributes) error {
	return t.exec(ctx, `
CREATE (c:CoA {uuid: $id})
SET c += $props
`, map[string]any{"id": id, "props": attrs.Properties()})
}

func (t *neo4jTx) UpdateCoA(ctx context.Context, id string, attrs heraldry.CoAAttributes) (bool, error) {
	// SET c = $props drops attributes that are no longer submitted.
	recs, err := t.write(ctx, `
MATCH (c:CoA {uuid: $id})
SET c = $props, c.uuid = $id
RETURN c.uuid AS id
`, map[string]any{"id": id, "props": attrs.Properties()})
	return len(recs) > 0, err
}

func (t *neo4jTx) CoAExists(ctx context.Context, id string) (bool, error) {
	recs, err := t.collect(ctx, `
MATCH (c:CoA {uuid: $id})
RETURN c.uuid AS id
LIMIT 1
`, map[string]any{"id": id})
	return len(recs) > 0, err
}

func (t *neo4jTx) LinkCoALocation(ctx context.Context, coaID, locationID string) (bool, error) {
	if err := t.mutate(); err != nil {
		return false, err
	}
	params := map[string]any{"coa": coaID, "loc": locationID}
	if locationID == "" {
		recs, err := t.write(ctx, `
MATCH (c:CoA {uuid: $coa})
OPTIONAL MATCH (c)-[r:AT_LOCATION]->(:Location)
DELETE r
RETURN DISTINCT c.uuid AS id
`, params)
		return len(recs) > 0, err
	}

	recs, err := t.collect(ctx, `
MATCH (c:CoA {uuid: $coa}), (l:Location {uuid: $loc})
RETURN c.uuid AS id
`, params)
	if err != nil || len(recs) == 0 {
		return false, err
	}

	return true, t.exec(ctx, `
MATCH (c:CoA {uuid: $coa})
OPTIONAL MATCH (c)-[r:AT_LOCATION]->(old:Location)
WHERE old.uuid <> $loc
DELETE r
WITH DISTINCT c
MATCH (l:Location {uuid: $loc})
MERGE (c)-[:AT_LOCATION]->(l)
`, params)
}

func (t *neo4jTx) OwnedChains(ctx context.Context, coaID string) ([]heraldry.ChainRef, error) {
	recs, err := t.collect(ctx, `
MATCH (:CoA {uuid: $coa})-[h:HAS_CHAIN]->(ch:Chain)
RETURN ch.uuid AS id, h.order AS order
`, map[string]any{"coa": coaID})
	if err != nil {
		return nil, err
	}
	refs := make([]heraldry.ChainRef, 0, len(recs))
	for _, rec := range recs {
		refs = append(refs, heraldry.ChainRef{ID: recordString(rec, "id"), Order: recordInt(rec, "order")})
	}
	heraldry.SortChainRefs(refs)
	return refs, nil
}

func (t *neo4jTx) CreateChain(ctx context.Context, coaID, chainID string, order int) error {
	return t.exec(ctx, `
MATCH (c:CoA {uuid: $coa})
CREATE (c)-[:HAS_CHAIN {order: $order}]->(:Chain {uuid: $chain})
`, map[string]any{"coa": coaID, "chain": chainID, "order": int64(order)})
}

func (t *neo4jTx) SetChainOrder(ctx context.Context, coaID, chainID string, order int) error {
	return t.exec(ctx, `
MATCH (:CoA {uuid: $coa})-[h:HAS_CHAIN]->(:Chain {uuid: $chain})
SET h.order = $order
`, map[string]any{"coa": coaID, "chain": chainID, "order": int64(order)})
}

func (t *neo4jTx) SetChainTerms(ctx context.Context, chainID string, refs []heraldry.TermRef) error {
	terms := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		terms = append(terms, map[string]any{"id": ref.ID, "order": int64(ref.Order)})
	}
	return t.exec(ctx, `
MATCH (ch:Chain {uuid: $chain})
OPTIONAL MATCH (ch)-[old:CONTAINS_TERM]->()
DELETE old
WITH DISTINCT ch
UNWIND $terms AS ref
MATCH (t:Term {uuid: ref.id})
CREATE (ch)-[:CONTAINS_TERM {order: ref.order}]->(t)
`, map[string]any{"chain": chainID, "terms": terms})
}

func (t *neo4jTx) DeleteChains(ctx context.Context, coaID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, t.mutate()
	}
	recs, err := t.write(ctx, `
OPTIONAL MATCH (:CoA {uuid: $coa})-[:HAS_CHAIN]->(ch:Chain)
WHERE ch.uuid IN $ids
WITH collect(DISTINCT ch) AS doomed
FOREACH (n IN doomed | DETACH DELETE n)
RETURN size(doomed) AS deleted
`, map[string]any{"coa": coaID, "ids": ids})
	if err != nil || len(recs) == 0 {
		return 0, err
	}
	return recordInt(recs[0], "deleted"), nil
}

func (t *neo4jTx) DeleteCoA(ctx context.Context, id string) (bool, error) {
	recs, err := t.write(ctx, `
MATCH (c:CoA {uuid: $id})
OPTIONAL MATCH (c)-[:HAS_CHAIN]->(ch:Chain)
WITH c, collect(ch) AS chains
FOREACH (n IN chains | DETACH DELETE n)
DETACH DELETE c
RETURN 1 AS deleted
`, map[string]any{"id": id})
	return len(recs) > 0, err
}

func (t *neo4jTx) ListCoA(ctx context.Context, ids []string) ([]*heraldry.CoA, error) {
	var idsParam any
	if ids != nil {
		idsParam = ids
	}
	recs, err := t.collect(ctx, `
MATCH (coa:CoA)
WHERE $ids IS NULL OR coa.uuid IN $ids
OPTIONAL MATCH (coa)-[:AT_LOCATION]->(loc:Location)
OPTIONAL MATCH (coa)-[hc:HAS_CHAIN]->(ch:Chain)
OPTIONAL MATCH (ch)-[ct:CONTAINS_TERM]->(t:Term)
WITH coa, loc, hc, ch,
     collect(CASE WHEN t IS NULL THEN NULL ELSE {order: ct.order, term: t{.*}} END) AS terms
WITH coa, loc,
     collect(CASE WHEN ch IS NULL THEN NULL ELSE {uuid: ch.uuid, order: hc.order, terms: terms} END) AS chains
RETURN coa{.*} AS coa, loc.uuid AS locationId, loc.name AS locationName, chains
ORDER BY coa.name, coa.uuid
`, map[string]any{"ids": idsParam})
	if err != nil {
		return nil, err
	}
	out := make([]*heraldry.CoA, 0, len(recs))
	for _, rec := range recs {
		out = append(out, coaFromRecord(rec))
	}
	return out, nil
}
