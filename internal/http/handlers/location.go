package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/http/response"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/services"
)

type LocationHandler struct {
	log *logger.Logger
	svc services.LocationService
}

func NewLocationHandler(log *logger.Logger, svc services.LocationService) *LocationHandler {
	return &LocationHandler{log: log.With("handler", "LocationHandler"), svc: svc}
}

type upsertLocationRequest struct {
	ID     string `json:"uuid"`
	Name   string `json:"name" binding:"required"`
	Parent string `json:"parent"`
}

// POST /locations/upsertLocation
// body: { "UUID": "", "name": "...", "parent": "" }
func (h *LocationHandler) UpsertLocation(c *gin.Context) {
	var req upsertLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	id, err := h.svc.UpsertLocation(c.Request.Context(), req.ID, req.Name, req.Parent)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, id)
}

// GET /locations/deleteLocation?uuid=
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	n, err := h.svc.DeleteLocation(c.Request.Context(), queryParam(c, "uuid"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, n)
}

// GET /locations/allLocations
func (h *LocationHandler) AllLocations(c *gin.Context) {
	locs, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, locs)
}
