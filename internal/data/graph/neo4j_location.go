package graph

import (
	"context"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func (t *neo4jTx) CreateLocation(ctx context.Context, id, name, parentID string) (bool, error) {
	params := map[string]any{"id": id, "name": name, "parent": parentID}
	if parentID == "" {
		recs, err := t.write(ctx, `
CREATE (l:Location {uuid: $id, name: $name})
RETURN l.uuid AS id
`, params)
		return len(recs) > 0, err
	}
	recs, err := t.write(ctx, `
MATCH (p:Location {uuid: $parent})
CREATE (p)-[:HAS_CHILD]->(l:Location {uuid: $id, name: $name})
RETURN l.uuid AS id
`, params)
	return len(recs) > 0, err
}

func (t *neo4jTx) RenameLocation(ctx context.Context, id, name string) (bool, error) {
	recs, err := t.write(ctx, `
MATCH (l:Location {uuid: $id})
SET l.name = $name
RETURN l.uuid AS id
`, map[string]any{"id": id, "name": name})
	return len(recs) > 0, err
}

func (t *neo4jTx) DeleteLocationTree(ctx context.Context, id string) (int, error) {
	recs, err := t.write(ctx, `
MATCH (:Location {uuid: $id})-[:HAS_CHILD*0..]->(d:Location)
WITH collect(DISTINCT d) AS doomed
FOREACH (n IN doomed | DETACH DELETE n)
RETURN size(doomed) AS deleted
`, map[string]any{"id": id})
	if err != nil || len(recs) == 0 {
		return 0, err
	}
	return recordInt(recs[0], "deleted"), nil
}

func (t *neo4jTx) ListLocations(ctx context.Context) ([]*heraldry.Location, error) {
	recs, err := t.collect(ctx, `
MATCH (l:Location)
OPTIONAL MATCH (p:Location)-[:HAS_CHILD]->(l)
RETURN l.uuid AS id, l.name AS name, p.uuid AS parent
ORDER BY name, id
`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*heraldry.Location, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &heraldry.Location{
			ID:       recordString(rec, "id"),
			Name:     recordString(rec, "name"),
			ParentID: recordString(rec, "parent"),
		})
	}
	return out, nil
}
