package graph

import (
	"context"
	"sort"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

type memoryTx struct {
	state    *memoryState
	writable bool
}

func (tx *memoryTx) mutate() error {
	if !tx.writable {
		return ErrReadOnly
	}
	return nil
}

// ---- locations ----

func (tx *memoryTx) CreateLocation(_ context.Context, id, name, parentID string) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	if parentID != "" {
		if _, ok := tx.state.locations[parentID]; !ok {
			return false, nil
		}
	}
	tx.state.locations[id] = locationRecord{name: name, parent: parentID}
	return true, nil
}

func (tx *memoryTx) RenameLocation(_ context.Context, id, name string) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	loc, ok := tx.state.locations[id]
	if !ok {
		return false, nil
	}
	loc.name = name
	tx.state.locations[id] = loc
	return true, nil
}

func (tx *memoryTx) DeleteLocationTree(_ context.Context, id string) (int, error) {
	if err := tx.mutate(); err != nil {
		return 0, err
	}
	if _, ok := tx.state.locations[id]; !ok {
		return 0, nil
	}
	children := map[string][]string{}
	for lid, loc := range tx.state.locations {
		if loc.parent != "" {
			children[loc.parent] = append(children[loc.parent], lid)
		}
	}
	doomed := map[string]struct{}{}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, seen := doomed[cur]; seen {
			continue
		}
		doomed[cur] = struct{}{}
		queue = append(queue, children[cur]...)
	}
	for lid := range doomed {
		delete(tx.state.locations, lid)
	}
	for cid, coa := range tx.state.coas {
		if _, gone := doomed[coa.location]; gone {
			coa.location = ""
			tx.state.coas[cid] = coa
		}
	}
	return len(doomed), nil
}

func (tx *memoryTx) ListLocations(context.Context) ([]*heraldry.Location, error) {
	out := make([]*heraldry.Location, 0, len(tx.state.locations))
	for id, loc := range tx.state.locations {
		out = append(out, &heraldry.Location{ID: id, Name: loc.name, ParentID: loc.parent})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ---- terms ----

func (tx *memoryTx) CreateTerm(_ context.Context, id, parentID string, attrs heraldry.TermAttributes) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	if parentID != "" {
		if _, ok := tx.state.terms[parentID]; !ok {
			return false, nil
		}
	}
	t := &heraldry.Term{}
	attrs.WithDefaults().Apply(t)
	tx.state.terms[id] = termRecord{name: t.Name, synonyms: t.Synonyms, hide: t.Hide, comment: t.Comment}
	if parentID != "" {
		tx.link(parentID, id)
	}
	return true, nil
}

func (tx *memoryTx) MergeTerm(_ context.Context, id string, attrs heraldry.TermAttributes) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	rec, ok := tx.state.terms[id]
	if !ok {
		return false, nil
	}
	t := rec.toTerm(id)
	attrs.Apply(t)
	tx.state.terms[id] = termRecord{name: t.Name, synonyms: t.Synonyms, hide: t.Hide, comment: t.Comment}
	return true, nil
}

func (tx *memoryTx) MissingTerms(_ context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := tx.state.terms[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (tx *memoryTx) TermAdjacency(context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(tx.state.nextTerm))
	for parent, children := range tx.state.nextTerm {
		for c := range children {
			out[parent] = append(out[parent], c)
		}
		sort.Strings(out[parent])
	}
	return out, nil
}

func (tx *memoryTx) link(parentID, childID string) {
	set, ok := tx.state.nextTerm[parentID]
	if !ok {
		set = map[string]struct{}{}
		tx.state.nextTerm[parentID] = set
	}
	set[childID] = struct{}{}
}

func (tx *memoryTx) LinkTerms(_ context.Context, parentID, childID string) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	_, okParent := tx.state.terms[parentID]
	_, okChild := tx.state.terms[childID]
	if okParent && okChild {
		tx.link(parentID, childID)
	}
	return nil
}

func (tx *memoryTx) UnlinkTerms(_ context.Context, parentID, childID string) (int, error) {
	if err := tx.mutate(); err != nil {
		return 0, err
	}
	set := tx.state.nextTerm[parentID]
	if _, ok := set[childID]; !ok {
		return 0, nil
	}
	delete(set, childID)
	if len(set) == 0 {
		delete(tx.state.nextTerm, parentID)
	}
	return 1, nil
}

func (tx *memoryTx) ChainsContainingBoth(_ context.Context, a, b string) (int, error) {
	n := 0
	for _, ch := range tx.state.chains {
		if chainHasTerm(ch, a) && chainHasTerm(ch, b) {
			n++
		}
	}
	return n, nil
}

func chainHasTerm(ch chainRecord, id string) bool {
	for _, ref := range ch.terms {
		if ref.ID == id {
			return true
		}
	}
	return false
}

func (tx *memoryTx) TermUsage(_ context.Context, id string) (*heraldry.TermUsage, error) {
	if _, ok := tx.state.terms[id]; !ok {
		return nil, nil
	}
	usage := &heraldry.TermUsage{TermsLinked: len(tx.state.nextTerm[id])}
	for _, ch := range tx.state.chains {
		if chainHasTerm(ch, id) {
			usage.ChainsReferencing++
		}
	}
	return usage, nil
}

func (tx *memoryTx) DeleteTerm(_ context.Context, id string) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	delete(tx.state.terms, id)
	delete(tx.state.nextTerm, id)
	for parent, set := range tx.state.nextTerm {
		delete(set, id)
		if len(set) == 0 {
			delete(tx.state.nextTerm, parent)
		}
	}
	for cid, ch := range tx.state.chains {
		if !chainHasTerm(ch, id) {
			continue
		}
		kept := ch.terms[:0]
		for _, ref := range ch.terms {
			if ref.ID != id {
				kept = append(kept, ref)
			}
		}
		ch.terms = kept
		tx.state.chains[cid] = ch
	}
	return nil
}

func (tx *memoryTx) RootTerms(context.Context) ([]*heraldry.Term, error) {
	hasParent := map[string]bool{}
	for _, children := range tx.state.nextTerm {
		for c := range children {
			hasParent[c] = true
		}
	}
	var roots []*heraldry.Term
	for id, rec := range tx.state.terms {
		if hasParent[id] {
			continue
		}
		t := rec.toTerm(id)
		t.Children = tx.termsByID(setKeys(tx.state.nextTerm[id]))
		roots = append(roots, t)
	}
	sortTerms(roots)
	return emptyIfNil(roots), nil
}

func (tx *memoryTx) TermNeighbours(_ context.Context, id string, mode heraldry.TraversalMode) ([]*heraldry.Term, bool, error) {
	if _, ok := tx.state.terms[id]; !ok {
		return nil, false, nil
	}
	var ids []string
	switch mode {
	case heraldry.TraverseChildren:
		ids = setKeys(tx.state.nextTerm[id])
	case heraldry.TraverseParents:
		for parent, set := range tx.state.nextTerm {
			if _, ok := set[id]; ok {
				ids = append(ids, parent)
			}
		}
	}
	return tx.termsByID(ids), true, nil
}

func (tx *memoryTx) ListTerms(context.Context) ([]*heraldry.Term, error) {
	out := make([]*heraldry.Term, 0, len(tx.state.terms))
	for id, rec := range tx.state.terms {
		out = append(out, rec.toTerm(id))
	}
	sortTerms(out)
	return out, nil
}

func (tx *memoryTx) termsByID(ids []string) []*heraldry.Term {
	out := make([]*heraldry.Term, 0, len(ids))
	for _, id := range ids {
		if rec, ok := tx.state.terms[id]; ok {
			out = append(out, rec.toTerm(id))
		}
	}
	sortTerms(out)
	return out
}

func (r termRecord) toTerm(id string) *heraldry.Term {
	syn := append([]string{}, r.synonyms...)
	return &heraldry.Term{
		ID:       id,
		Name:     r.name,
		Synonyms: syn,
		Hide:     r.hide,
		Comment:  r.comment,
		Children: []*heraldry.Term{},
		Parents:  []*heraldry.Term{},
	}
}

func sortTerms(terms []*heraldry.Term) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Name != terms[j].Name {
			return terms[i].Name < terms[j].Name
		}
		return terms[i].ID < terms[j].ID
	})
}

func setKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func emptyIfNil(terms []*heraldry.Term) []*heraldry.Term {
	if terms == nil {
		return []*heraldry.Term{}
	}
	return terms
}

// ---- coa and chains ----

func (tx *memoryTx) CreateCoA(_ context.Context, id string, attrs heraldry.CoAAttributes) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	tx.state.coas[id] = coaRecord{
		name:        attrs.Name,
		description: attrs.Description,
		attributes:  copyAttributes(attrs.Attributes),
	}
	return nil
}

func (tx *memoryTx) UpdateCoA(_ context.Context, id string, attrs heraldry.CoAAttributes) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	rec, ok := tx.state.coas[id]
	if !ok {
		return false, nil
	}
	rec.name = attrs.Name
	rec.description = attrs.Description
	rec.attributes = copyAttributes(attrs.Attributes)
	tx.state.coas[id] = rec
	return true, nil
}

func (tx *memoryTx) CoAExists(_ context.Context, id string) (bool, error) {
	_, ok := tx.state.coas[id]
	return ok, nil
}

func (tx *memoryTx) LinkCoALocation(_ context.Context, coaID, locationID string) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	rec, ok := tx.state.coas[coaID]
	if !ok {
		return false, nil
	}
	if locationID != "" {
		if _, ok := tx.state.locations[locationID]; !ok {
			return false, nil
		}
	}
	rec.location = locationID
	tx.state.coas[coaID] = rec
	return true, nil
}

func (tx *memoryTx) OwnedChains(_ context.Context, coaID string) ([]heraldry.ChainRef, error) {
	var refs []heraldry.ChainRef
	for id, ch := range tx.state.chains {
		if ch.coa == coaID {
			refs = append(refs, heraldry.ChainRef{ID: id, Order: ch.order})
		}
	}
	heraldry.SortChainRefs(refs)
	return refs, nil
}

func (tx *memoryTx) CreateChain(_ context.Context, coaID, chainID string, order int) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	if _, ok := tx.state.coas[coaID]; !ok {
		return nil
	}
	tx.state.chains[chainID] = chainRecord{coa: coaID, order: order}
	return nil
}

func (tx *memoryTx) SetChainOrder(_ context.Context, coaID, chainID string, order int) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	ch, ok := tx.state.chains[chainID]
	if !ok || ch.coa != coaID {
		return nil
	}
	ch.order = order
	tx.state.chains[chainID] = ch
	return nil
}

func (tx *memoryTx) SetChainTerms(_ context.Context, chainID string, refs []heraldry.TermRef) error {
	if err := tx.mutate(); err != nil {
		return err
	}
	ch, ok := tx.state.chains[chainID]
	if !ok {
		return nil
	}
	ch.terms = ch.terms[:0:0]
	for _, ref := range refs {
		if _, ok := tx.state.terms[ref.ID]; ok {
			ch.terms = append(ch.terms, ref)
		}
	}
	tx.state.chains[chainID] = ch
	return nil
}

func (tx *memoryTx) DeleteChains(_ context.Context, coaID string, ids []string) (int, error) {
	if err := tx.mutate(); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		ch, ok := tx.state.chains[id]
		if !ok || ch.coa != coaID {
			continue
		}
		delete(tx.state.chains, id)
		n++
	}
	return n, nil
}

func (tx *memoryTx) DeleteCoA(_ context.Context, id string) (bool, error) {
	if err := tx.mutate(); err != nil {
		return false, err
	}
	if _, ok := tx.state.coas[id]; !ok {
		return false, nil
	}
	for cid, ch := range tx.state.chains {
		if ch.coa == id {
			delete(tx.state.chains, cid)
		}
	}
	delete(tx.state.coas, id)
	return true, nil
}

func (tx *memoryTx) ListCoA(_ context.Context, ids []string) ([]*heraldry.CoA, error) {
	var wanted map[string]bool
	if ids != nil {
		wanted = make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
	}
	out := make([]*heraldry.CoA, 0, len(tx.state.coas))
	for id := range tx.state.coas {
		if wanted != nil && !wanted[id] {
			continue
		}
		out = append(out, tx.hydrateCoA(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (tx *memoryTx) hydrateCoA(id string) *heraldry.CoA {
	rec := tx.state.coas[id]
	c := &heraldry.CoA{
		ID:          id,
		Name:        rec.name,
		Description: rec.description,
		Attributes:  copyAttributes(rec.attributes),
		Chains:      []*heraldry.Chain{},
	}
	if loc, ok := tx.state.locations[rec.location]; ok && rec.location != "" {
		c.LocationID = rec.location
		c.LocationName = loc.name
	}
	refs, _ := tx.OwnedChains(context.Background(), id)
	for _, ref := range refs {
		ch := tx.state.chains[ref.ID]
		terms := append([]heraldry.TermRef(nil), ch.terms...)
		sort.SliceStable(terms, func(i, j int) bool { return terms[i].Order < terms[j].Order })
		chain := &heraldry.Chain{ID: ref.ID, Order: ref.Order, Terms: make([]*heraldry.Term, 0, len(terms))}
		for _, t := range terms {
			if trec, ok := tx.state.terms[t.ID]; ok {
				chain.Terms = append(chain.Terms, trec.toTerm(t.ID))
			}
		}
		c.Chains = append(c.Chains, chain)
	}
	return c
}

func copyAttributes(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ---- search ----

func (tx *memoryTx) SearchCoA(_ context.Context, q heraldry.SearchQuery) ([]string, error) {
	ids := []string{}
	for id := range tx.state.coas {
		if q.Match(tx.hydrateCoA(id)) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
