package graph

import (
	"context"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

// searchCypher mirrors heraldry.SearchQuery.Match; TestSearchPredicateContract
// pins the shared cases.
const searchCypher = `
MATCH (coa:CoA)
OPTIONAL MATCH (coa)-[:AT_LOCATION]->(loc:Location)
WITH coa, loc,
     [(coa)-[:HAS_CHAIN]->(ch:Chain) | [(ch)-[:CONTAINS_TERM]->(t:Term) | t.uuid]] AS chainTerms,
     [(coa)-[:HAS_CHAIN]->(:Chain)-[:CONTAINS_TERM]->(t:Term) | toLower(coalesce(t.name, ''))] AS termNames
WHERE toLower(coalesce(coa.name, '')) CONTAINS $name
  AND ($location = '' OR (loc IS NOT NULL AND toLower(coalesce(loc.name, '')) CONTAINS $location))
  AND ALL(grp IN $groups WHERE ANY(ids IN chainTerms WHERE ALL(tid IN grp WHERE tid IN ids)))
  AND (size($terms) = 0 OR ANY(n IN termNames WHERE ANY(s IN $terms WHERE n CONTAINS s)))
RETURN coa.uuid AS id
ORDER BY id
`

func searchParams(q heraldry.SearchQuery) map[string]any {
	groups := make([]any, 0, len(q.TermGroups))
	for _, g := range q.TermGroups {
		ids := make([]any, 0, len(g))
		for _, id := range g {
			ids = append(ids, id)
		}
		groups = append(groups, ids)
	}
	terms := make([]any, 0, len(q.SingleTerms))
	for _, s := range q.SingleTerms {
		terms = append(terms, s)
	}
	return map[string]any{
		"name":     q.Name,
		"location": q.Location,
		"groups":   groups,
		"terms":    terms,
	}
}

func (t *neo4jTx) SearchCoA(ctx context.Context, q heraldry.SearchQuery) ([]string, error) {
	recs, err := t.collect(ctx, searchCypher, searchParams(q))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, recordString(rec, "id"))
	}
	return ids, nil
}
