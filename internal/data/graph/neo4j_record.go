package graph

import (
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

func recordString(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

func recordInt(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	return toInt(val)
}

func recordMap(record *neo4j.Record, key string) map[string]any {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	m, _ := val.(map[string]any)
	return m
}

func recordList(record *neo4j.Record, key string) []any {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	l, _ := val.([]any)
	return l
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func mapString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func mapBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func mapStrings(m map[string]any, key string) []string {
	out := []string{}
	if m == nil {
		return out
	}
	switch v := m[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// termFromProps decodes a `t{.*}` projection.
func termFromProps(props map[string]any) *heraldry.Term {
	if props == nil {
		return nil
	}
	return &heraldry.Term{
		ID:       mapString(props, "uuid"),
		Name:     mapString(props, "name"),
		Synonyms: mapStrings(props, "synonyms"),
		Hide:     mapBool(props, "hide"),
		Comment:  mapString(props, "comment"),
		Children: []*heraldry.Term{},
		Parents:  []*heraldry.Term{},
	}
}

func termsFromList(list []any) []*heraldry.Term {
	out := make([]*heraldry.Term, 0, len(list))
	for _, item := range list {
		props, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t := termFromProps(props); t != nil {
			out = append(out, t)
		}
	}
	sortTerms(out)
	return out
}

// coaFromRecord decodes a row of the CoA listing query: coa, locationId,
// locationName and chains, where chains is a list of
// {uuid, order, terms: [{order, term}]}.
func coaFromRecord(record *neo4j.Record) *heraldry.CoA {
	props := recordMap(record, "coa")
	c := &heraldry.CoA{
		ID:           mapString(props, "uuid"),
		Name:         mapString(props, "name"),
		Description:  mapString(props, "description"),
		LocationID:   recordString(record, "locationId"),
		LocationName: recordString(record, "locationName"),
		Attributes:   heraldry.AttributesFromProperties(props),
		Chains:       []*heraldry.Chain{},
	}
	for _, raw := range recordList(record, "chains") {
		m, ok := raw.(map[string]any)
		if !ok || m == nil {
			continue
		}
		c.Chains = append(c.Chains, chainFromMap(m))
	}
	sort.SliceStable(c.Chains, func(i, j int) bool {
		if c.Chains[i].Order != c.Chains[j].Order {
			return c.Chains[i].Order < c.Chains[j].Order
		}
		return c.Chains[i].ID < c.Chains[j].ID
	})
	return c
}

func chainFromMap(m map[string]any) *heraldry.Chain {
	type ordered struct {
		order int
		term  *heraldry.Term
	}
	var items []ordered
	if list, ok := m["terms"].([]any); ok {
		for _, raw := range list {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			props, _ := entry["term"].(map[string]any)
			t := termFromProps(props)
			if t == nil {
				continue
			}
			items = append(items, ordered{order: toInt(entry["order"]), term: t})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })

	ch := &heraldry.Chain{
		ID:    mapString(m, "uuid"),
		Order: toInt(m["order"]),
		Terms: make([]*heraldry.Term, 0, len(items)),
	}
	for _, it := range items {
		ch.Terms = append(ch.Terms, it.term)
	}
	return ch
}
