package app

import (
	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/services"
)

type Services struct {
	Location services.LocationService
	Term     services.TermService
	CoA      services.CoAService
	Search   services.SearchService
}

func wireServices(store graph.Store, clients Clients, log *logger.Logger) Services {
	log.Info("Wiring services...")

	var cache services.SearchCache
	if clients.SearchCache != nil {
		cache = clients.SearchCache
	}
	return Services{
		Location: services.NewLocationService(store, cache, log),
		Term:     services.NewTermService(store, cache, log),
		CoA:      services.NewCoAService(store, cache, log),
		Search:   services.NewSearchService(store, cache, log),
	}
}
