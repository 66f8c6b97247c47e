package heraldry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// AttributePrefix namespaces free-form CoA attributes on the graph node so
// they never collide with the core properties.
const AttributePrefix = "attr_"

var attributeKeyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// CoA is a coat of arms with its ordered chains. LocationID references a
// Location through AT_LOCATION; LocationName is resolved on read.
type CoA struct {
	ID           string            `json:"uuid"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	LocationID   string            `json:"location"`
	LocationName string            `json:"locationName"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Chains       []*Chain          `json:"containedChains"`
}

// Chain is an ordered sequence of term references owned by one CoA.
type Chain struct {
	ID    string  `json:"uuid"`
	Order int     `json:"order"`
	Terms []*Term `json:"containedTerms"`
}

// CoAAttributes are the scalar fields written by an upsert.
type CoAAttributes struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LocationID  string            `json:"location"`
	Attributes  map[string]string `json:"attributes"`
}

func (a CoAAttributes) Validate() error {
	for k := range a.Attributes {
		if !attributeKeyRe.MatchString(k) {
			return fmt.Errorf("invalid attribute key %q", k)
		}
	}
	return nil
}

// Properties returns the node properties for a, with free-form attributes
// prefixed by AttributePrefix.
func (a CoAAttributes) Properties() map[string]any {
	props := map[string]any{
		"name":        a.Name,
		"description": a.Description,
	}
	for k, v := range a.Attributes {
		props[AttributePrefix+k] = v
	}
	return props
}

// AttributesFromProperties extracts the free-form attributes of a node's
// property map.
func AttributesFromProperties(props map[string]any) map[string]string {
	var out map[string]string
	for k, v := range props {
		if !strings.HasPrefix(k, AttributePrefix) {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[strings.TrimPrefix(k, AttributePrefix)] = fmt.Sprint(v)
	}
	return out
}

// ChainInput is a chain as submitted to a CoA upsert: an optional id of an
// already owned chain and the term ids in display order.
type ChainInput struct {
	ID    string   `json:"uuid"`
	Terms []string `json:"containedTerms"`
}

// ChainInsert is a chain appended at a caller chosen order.
type ChainInsert struct {
	Order int       `json:"order"`
	Terms []TermRef `json:"terms"`
}

// TermRef is one CONTAINS_TERM edge: target term and its order.
type TermRef struct {
	ID    string `json:"uuid"`
	Order int    `json:"order"`
}

// ChainRef is an owned chain handle as stored on HAS_CHAIN.
type ChainRef struct {
	ID    string
	Order int
}

// SortChainRefs orders refs by order, then id.
func SortChainRefs(refs []ChainRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Order != refs[j].Order {
			return refs[i].Order < refs[j].Order
		}
		return refs[i].ID < refs[j].ID
	})
}

// PositionalRefs turns an ordered list of term ids into refs whose order is
// the list position.
func PositionalRefs(ids []string) []TermRef {
	out := make([]TermRef, 0, len(ids))
	for i, id := range ids {
		out = append(out, TermRef{ID: id, Order: i})
	}
	return out
}
