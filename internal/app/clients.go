package app

import (
	"context"
	"fmt"

	"github.com/yungbote/heraldry-backend/internal/clients/redis"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/platform/neo4jdb"
)

type Clients struct {
	Neo4j       *neo4jdb.Client
	SearchCache *redis.SearchCache
}

func wireClients(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients
	if cfg.Graph.Backend == GraphBackendNeo4j {
		client, err := neo4jdb.New(cfg.Graph.Neo4j, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init neo4j: %w", err)
		}
		out.Neo4j = client
	}

	// Redis (optional)
	cache, err := redis.NewSearchCache(cfg.Cache, log, metrics)
	if err != nil {
		out.Close(context.Background())
		return Clients{}, fmt.Errorf("init redis search cache: %w", err)
	}
	if cache == nil {
		log.Info("Search cache disabled (REDIS_ADDR not set)")
	}
	out.SearchCache = cache
	return out, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.SearchCache != nil {
		_ = c.SearchCache.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
