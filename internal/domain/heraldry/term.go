package heraldry

import "strings"

// Term is a taxonomy node. Children and Parents are only populated by reads
// that traverse NEXT_TERM; otherwise they are empty.
type Term struct {
	ID       string   `json:"uuid"`
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
	Hide     bool     `json:"hide"`
	Comment  string   `json:"comment"`
	Children []*Term  `json:"children"`
	Parents  []*Term  `json:"parents"`
}

// TermAttributes is a partial term update. Nil fields are left untouched when
// merged onto an existing term.
type TermAttributes struct {
	Name     *string   `json:"name"`
	Synonyms *[]string `json:"synonyms"`
	Hide     *bool     `json:"hide"`
	Comment  *string   `json:"comment"`
}

// WithDefaults fills every unset field so that a freshly created term always
// carries the full property set.
func (a TermAttributes) WithDefaults() TermAttributes {
	out := a
	if out.Name == nil {
		empty := ""
		out.Name = &empty
	}
	if out.Synonyms == nil {
		syn := []string{}
		out.Synonyms = &syn
	}
	if out.Hide == nil {
		hide := false
		out.Hide = &hide
	}
	if out.Comment == nil {
		empty := ""
		out.Comment = &empty
	}
	return out
}

// Properties returns the set fields as graph properties.
func (a TermAttributes) Properties() map[string]any {
	props := map[string]any{}
	if a.Name != nil {
		props["name"] = *a.Name
	}
	if a.Synonyms != nil {
		syn := make([]string, 0, len(*a.Synonyms))
		syn = append(syn, (*a.Synonyms)...)
		props["synonyms"] = syn
	}
	if a.Hide != nil {
		props["hide"] = *a.Hide
	}
	if a.Comment != nil {
		props["comment"] = *a.Comment
	}
	return props
}

// Apply merges the set fields onto t.
func (a TermAttributes) Apply(t *Term) {
	if t == nil {
		return
	}
	if a.Name != nil {
		t.Name = *a.Name
	}
	if a.Synonyms != nil {
		t.Synonyms = append([]string{}, (*a.Synonyms)...)
	}
	if a.Hide != nil {
		t.Hide = *a.Hide
	}
	if a.Comment != nil {
		t.Comment = *a.Comment
	}
}

// TermUsage counts the references that keep a term alive: chains containing
// it and outgoing NEXT_TERM edges.
type TermUsage struct {
	ChainsReferencing int `json:"Chains"`
	TermsLinked       int `json:"Terms"`
}

func (u TermUsage) Deletable() bool {
	return u.ChainsReferencing == 0 && u.TermsLinked == 0
}

type TraversalMode string

const (
	TraverseChildren TraversalMode = "children"
	TraverseParents  TraversalMode = "parents"
)

// ParseTraversalMode accepts the named modes and the numeric ones used by the
// term editor (1 = children, 0 = parents).
func ParseTraversalMode(raw string) (TraversalMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "children", "child":
		return TraverseChildren, true
	case "0", "parents", "parent":
		return TraverseParents, true
	default:
		return "", false
	}
}
