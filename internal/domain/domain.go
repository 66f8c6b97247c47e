package domain

import (
	"github.com/yungbote/heraldry-backend/internal/domain/heraldry"
)

const (
	AttributePrefix = heraldry.AttributePrefix

	TraverseChildren = heraldry.TraverseChildren
	TraverseParents  = heraldry.TraverseParents
)

type (
	Location = heraldry.Location

	Term           = heraldry.Term
	TermAttributes = heraldry.TermAttributes
	TermUsage      = heraldry.TermUsage
	TraversalMode  = heraldry.TraversalMode

	CoA           = heraldry.CoA
	CoAAttributes = heraldry.CoAAttributes
	Chain         = heraldry.Chain
	ChainInput    = heraldry.ChainInput
	ChainInsert   = heraldry.ChainInsert
	ChainRef      = heraldry.ChainRef
	TermRef       = heraldry.TermRef

	SearchQuery = heraldry.SearchQuery
)

var (
	ParseTraversalMode       = heraldry.ParseTraversalMode
	AttributesFromProperties = heraldry.AttributesFromProperties
	SortChainRefs            = heraldry.SortChainRefs
	PositionalRefs           = heraldry.PositionalRefs
	NewSearchQuery           = heraldry.NewSearchQuery
)
