package graph

import (
	"context"
	"errors"

	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

// ErrReadOnly is returned by mutating Tx methods inside ExecuteRead.
var ErrReadOnly = errors.New("graph: write attempted in read transaction")

// Store is the graph persistence port. Every Execute* call opens its own
// session and runs fn in one atomic transaction; a non-nil error from fn
// rolls the transaction back.
type Store interface {
	ExecuteRead(ctx context.Context, fn func(tx Tx) error) error
	ExecuteWrite(ctx context.Context, fn func(tx Tx) error) error
	NewID() string
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tx is the set of graph patterns available inside a transaction.
type Tx interface {
	LocationTx
	TermTx
	CoATx
	SearchTx
}

type LocationTx interface {
	// CreateLocation reports false when parentID is set but unknown; nothing
	// is written in that case.
	CreateLocation(ctx context.Context, id, name, parentID string) (bool, error)
	RenameLocation(ctx context.Context, id, name string) (bool, error)
	// DeleteLocationTree removes id and every HAS_CHILD descendant.
	DeleteLocationTree(ctx context.Context, id string) (int, error)
	ListLocations(ctx context.Context) ([]*heraldry.Location, error)
}

type TermTx interface {
	CreateTerm(ctx context.Context, id, parentID string, attrs heraldry.TermAttributes) (bool, error)
	MergeTerm(ctx context.Context, id string, attrs heraldry.TermAttributes) (bool, error)
	// MissingTerms returns the ids of ids that are not stored terms, in input order.
	MissingTerms(ctx context.Context, ids []string) ([]string, error)
	// TermAdjacency returns the NEXT_TERM edges as parent -> children.
	TermAdjacency(ctx context.Context) (map[string][]string, error)
	LinkTerms(ctx context.Context, parentID, childID string) error
	UnlinkTerms(ctx context.Context, parentID, childID string) (int, error)
	ChainsContainingBoth(ctx context.Context, a, b string) (int, error)
	// TermUsage returns nil when the term does not exist.
	TermUsage(ctx context.Context, id string) (*heraldry.TermUsage, error)
	DeleteTerm(ctx context.Context, id string) error
	RootTerms(ctx context.Context) ([]*heraldry.Term, error)
	// TermNeighbours reports false when id is not a stored term.
	TermNeighbours(ctx context.Context, id string, mode heraldry.TraversalMode) ([]*heraldry.Term, bool, error)
	ListTerms(ctx context.Context) ([]*heraldry.Term, error)
}

type CoATx interface {
	CreateCoA(ctx context.Context, id string, attrs heraldry.CoAAttributes) error
	UpdateCoA(ctx context.Context, id string, attrs heraldry.CoAAttributes) (bool, error)
	CoAExists(ctx context.Context, id string) (bool, error)
	// LinkCoALocation points the CoA at locationID, replacing any previous
	// AT_LOCATION edge. An empty locationID removes the edge. It reports
	// false, writing nothing, when the location does not exist.
	LinkCoALocation(ctx context.Context, coaID, locationID string) (bool, error)
	OwnedChains(ctx context.Context, coaID string) ([]heraldry.ChainRef, error)
	CreateChain(ctx context.Context, coaID, chainID string, order int) error
	SetChainOrder(ctx context.Context, coaID, chainID string, order int) error
	// SetChainTerms replaces every CONTAINS_TERM edge of the chain.
	SetChainTerms(ctx context.Context, chainID string, refs []heraldry.TermRef) error
	// DeleteChains deletes those of ids owned by coaID and returns how many.
	DeleteChains(ctx context.Context, coaID string, ids []string) (int, error)
	DeleteCoA(ctx context.Context, id string) (bool, error)
	// ListCoA hydrates the given CoA, or all of them when ids is nil, ordered
	// by name then id.
	ListCoA(ctx context.Context, ids []string) ([]*heraldry.CoA, error)
}

type SearchTx interface {
	// SearchCoA returns the ids of matching CoA sorted ascending.
	SearchCoA(ctx context.Context, q heraldry.SearchQuery) ([]string, error)
}
