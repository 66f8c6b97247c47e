package graph

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

type locationRecord struct {
	name   string
	parent string
}

type termRecord struct {
	name     string
	synonyms []string
	hide     bool
	comment  string
}

type chainRecord struct {
	coa   string
	order int
	terms []heraldry.TermRef
}

type coaRecord struct {
	name        string
	description string
	attributes  map[string]string
	location    string
}

type memoryState struct {
	locations map[string]locationRecord
	terms     map[string]termRecord
	// nextTerm holds NEXT_TERM edges as parent -> set of children.
	nextTerm map[string]map[string]struct{}
	chains   map[string]chainRecord
	coas     map[string]coaRecord
}

func newMemoryState() memoryState {
	return memoryState{
		locations: map[string]locationRecord{},
		terms:     map[string]termRecord{},
		nextTerm:  map[string]map[string]struct{}{},
		chains:    map[string]chainRecord{},
		coas:      map[string]coaRecord{},
	}
}

func (s memoryState) clone() memoryState {
	out := newMemoryState()
	for k, v := range s.locations {
		out.locations[k] = v
	}
	for k, v := range s.terms {
		v.synonyms = append([]string(nil), v.synonyms...)
		out.terms[k] = v
	}
	for k, children := range s.nextTerm {
		set := make(map[string]struct{}, len(children))
		for c := range children {
			set[c] = struct{}{}
		}
		out.nextTerm[k] = set
	}
	for k, v := range s.chains {
		v.terms = append([]heraldry.TermRef(nil), v.terms...)
		out.chains[k] = v
	}
	for k, v := range s.coas {
		if v.attributes != nil {
			attrs := make(map[string]string, len(v.attributes))
			for ak, av := range v.attributes {
				attrs[ak] = av
			}
			v.attributes = attrs
		}
		out.coas[k] = v
	}
	return out
}

// MemoryStore is an in-process Store. Writes are serialized and applied to a
// private copy of the state that replaces the live state only when fn
// succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
	newID func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState(), newID: uuid.NewString}
}

func (s *MemoryStore) ExecuteRead(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryTx{state: &s.state})
}

func (s *MemoryStore) ExecuteWrite(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.state.clone()
	if err := fn(&memoryTx{state: &working, writable: true}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *MemoryStore) NewID() string { return s.newID() }

func (s *MemoryStore) EnsureSchema(context.Context) error { return nil }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctxErr(ctx) }

func (s *MemoryStore) Close(context.Context) error { return nil }

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
