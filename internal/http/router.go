package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/heraldry-backend/internal/http/handlers"
	httpMW "github.com/yungbote/heraldry-backend/internal/http/middleware"
	"github.com/yungbote/heraldry-backend/internal/observability"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	Tracing     bool

	LocationHandler   *httpH.LocationHandler
	TermHandler       *httpH.TermHandler
	TermEditorHandler *httpH.TermEditorHandler
	CoAHandler        *httpH.CoAHandler
	ChainHandler      *httpH.ChainHandler
	ResearchHandler   *httpH.ResearchHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Locations
	if cfg.LocationHandler != nil {
		loc := r.Group("/locations")
		loc.POST("/upsertLocation", cfg.LocationHandler.UpsertLocation)
		loc.GET("/deleteLocation", cfg.LocationHandler.DeleteLocation)
		loc.GET("/allLocations", cfg.LocationHandler.AllLocations)
	}

	// Terms
	if cfg.TermHandler != nil {
		terms := r.Group("/terms")
		terms.POST("/upsertTerm", cfg.TermHandler.UpsertTerm)
		terms.GET("/addTermRelationship", cfg.TermHandler.AddTermRelationship)
		terms.GET("/removeTermRelationship", cfg.TermHandler.RemoveTermRelationship)
		terms.GET("/deleteTerm", cfg.TermHandler.DeleteTerm)
	}
	if cfg.TermEditorHandler != nil {
		editor := r.Group("/termeditor")
		editor.GET("/firstTerms", cfg.TermEditorHandler.FirstTerms)
		editor.GET("/updateListsOfClicked", cfg.TermEditorHandler.UpdateListsOfClicked)
		editor.GET("/allTerms", cfg.TermEditorHandler.AllTerms)
	}

	// CoA
	if cfg.CoAHandler != nil {
		r.POST("/coa/upsertCoA", cfg.CoAHandler.UpsertCoA)
		r.GET("/coa/deleteCoA", cfg.CoAHandler.DeleteCoA)
		r.GET("/coaeditor/allCoA", cfg.CoAHandler.AllCoA)
		r.POST("/coaeditor/allCoA", cfg.CoAHandler.AllCoA)
	}
	if cfg.ChainHandler != nil {
		r.POST("/chain/insertChains", cfg.ChainHandler.InsertChains)
		r.POST("/chain/deleteChains", cfg.ChainHandler.DeleteChains)
	}

	// Search
	if cfg.ResearchHandler != nil {
		r.POST("/research", cfg.ResearchHandler.Research)
	}

	return r
}
