package app

import (
	"context"
	"fmt"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

func wireGraphStore(ctx context.Context, cfg Config, clients Clients, log *logger.Logger, metrics *observability.Metrics) (graph.Store, error) {
	var store graph.Store
	switch cfg.Graph.Backend {
	case GraphBackendMemory:
		log.Warn("Using in-memory graph store; catalog data is lost on exit")
		store = graph.NewMemoryStore()
	case GraphBackendNeo4j:
		if clients.Neo4j == nil {
			return nil, fmt.Errorf("neo4j client not initialized")
		}
		neo, err := graph.NewNeo4jStore(clients.Neo4j, log)
		if err != nil {
			return nil, err
		}
		if cfg.Graph.EnsureSchema {
			if err := neo.EnsureSchema(ctx); err != nil {
				log.Warn("Graph schema bootstrap incomplete (continuing)", "error", err)
			}
		}
		store = neo
	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Graph.Backend)
	}

	store = breakGraphStore(store, cfg.Graph.Breaker, log, metrics)
	return instrumentGraphStore(cfg.Graph.Backend, store), nil
}
