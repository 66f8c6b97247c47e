package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/data/graph"
	"github.com/yungbote/heraldry-backend/internal/http"
	httpH "github.com/yungbote/heraldry-backend/internal/http/handlers"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Location   *httpH.LocationHandler
	Term       *httpH.TermHandler
	TermEditor *httpH.TermEditorHandler
	CoA        *httpH.CoAHandler
	Chain      *httpH.ChainHandler
	Research   *httpH.ResearchHandler
}

func wireHandlers(log *logger.Logger, services Services, store graph.Store) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(log, store),
		Location:   httpH.NewLocationHandler(log, services.Location),
		Term:       httpH.NewTermHandler(log, services.Term),
		TermEditor: httpH.NewTermEditorHandler(log, services.Term),
		CoA:        httpH.NewCoAHandler(log, services.CoA),
		Chain:      httpH.NewChainHandler(log, services.CoA),
		Research:   httpH.NewResearchHandler(log, services.Search),
	}
}

func wireRouter(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.Telemetry.ServiceName,
		Tracing:           cfg.Telemetry.Tracing,
		HealthHandler:     handlers.Health,
		LocationHandler:   handlers.Location,
		TermHandler:       handlers.Term,
		TermEditorHandler: handlers.TermEditor,
		CoAHandler:        handlers.CoA,
		ChainHandler:      handlers.Chain,
		ResearchHandler:   handlers.Research,
	})
}
