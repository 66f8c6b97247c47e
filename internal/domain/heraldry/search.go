package heraldry

import (
	"encoding/json"
	"strings"
)

// SearchQuery is a normalized research request. Name, Location and
// SingleTerms are lower-cased; an empty SingleTerms means the free-text
// predicate is vacuous.
type SearchQuery struct {
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	SingleTerms []string   `json:"singleTerms"`
	TermGroups  [][]string `json:"termGroups"`
}

func NewSearchQuery(name, location string, singleTerms []string, termGroups [][]string) SearchQuery {
	q := SearchQuery{
		Name:     strings.ToLower(name),
		Location: strings.ToLower(location),
	}
	if !(len(singleTerms) == 0 || (len(singleTerms) == 1 && singleTerms[0] == "")) {
		q.SingleTerms = make([]string, 0, len(singleTerms))
		for _, s := range singleTerms {
			q.SingleTerms = append(q.SingleTerms, strings.ToLower(s))
		}
	}
	q.TermGroups = make([][]string, 0, len(termGroups))
	for _, group := range termGroups {
		ids := make([]string, 0, len(group))
		seen := map[string]bool{}
		for _, id := range group {
			id = strings.TrimSpace(id)
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		q.TermGroups = append(q.TermGroups, ids)
	}
	return q
}

// FreeTextVacuous reports whether the single-term predicate accepts every CoA.
func (q SearchQuery) FreeTextVacuous() bool {
	return len(q.SingleTerms) == 0
}

// Key is a stable representation of q, usable as a cache key.
func (q SearchQuery) Key() string {
	raw, _ := json.Marshal(q)
	return string(raw)
}

// Match evaluates the research predicate against a hydrated CoA.
func (q SearchQuery) Match(c *CoA) bool {
	if c == nil {
		return false
	}
	if !strings.Contains(strings.ToLower(c.Name), q.Name) {
		return false
	}
	if q.Location != "" {
		if c.LocationID == "" || !strings.Contains(strings.ToLower(c.LocationName), q.Location) {
			return false
		}
	}
	for _, group := range q.TermGroups {
		if !someChainContainsAll(c.Chains, group) {
			return false
		}
	}
	if !q.FreeTextVacuous() && !someTermNameMatches(c.Chains, q.SingleTerms) {
		return false
	}
	return true
}

func someChainContainsAll(chains []*Chain, ids []string) bool {
	for _, ch := range chains {
		if ch == nil {
			continue
		}
		present := make(map[string]bool, len(ch.Terms))
		for _, t := range ch.Terms {
			if t != nil {
				present[t.ID] = true
			}
		}
		all := true
		for _, id := range ids {
			if !present[id] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func someTermNameMatches(chains []*Chain, needles []string) bool {
	for _, ch := range chains {
		if ch == nil {
			continue
		}
		for _, t := range ch.Terms {
			if t == nil {
				continue
			}
			name := strings.ToLower(t.Name)
			for _, n := range needles {
				if strings.Contains(name, n) {
					return true
				}
			}
		}
	}
	return false
}
