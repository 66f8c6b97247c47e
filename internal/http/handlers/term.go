package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/heraldry-backend/internal/domain"
	"github.com/yungbote/heraldry-backend/internal/http/response"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/services"
)

type TermHandler struct {
	log *logger.Logger
	svc services.TermService
}

func NewTermHandler(log *logger.Logger, svc services.TermService) *TermHandler {
	return &TermHandler{log: log.With("handler", "TermHandler"), svc: svc}
}

type upsertTermRequest struct {
	ID     string               `json:"uuid"`
	Parent string               `json:"parent"`
	Term   types.TermAttributes `json:"term"`
}

// POST /terms/upsertTerm
// body: { "uuid": "", "parent": "", "term": { "name", "synonyms", "hide", "comment" } }
func (h *TermHandler) UpsertTerm(c *gin.Context) {
	var req upsertTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	id, err := h.svc.UpsertTerm(c.Request.Context(), req.ID, req.Parent, req.Term)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, id)
}

type termEdgeQuery struct {
	Parent string `form:"parent" binding:"required"`
	Child  string `form:"child" binding:"required"`
}

// GET /terms/addTermRelationship?parent=&child=
func (h *TermHandler) AddTermRelationship(c *gin.Context) {
	var q termEdgeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	if err := h.svc.AddTermRelationship(c.Request.Context(), q.Parent, q.Child); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /terms/removeTermRelationship?parent=&child=
func (h *TermHandler) RemoveTermRelationship(c *gin.Context) {
	var q termEdgeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	n, err := h.svc.RemoveTermRelationship(c.Request.Context(), q.Parent, q.Child)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, n)
}

// GET /terms/deleteTerm?termUUID=
// A refused delete answers 409 with the usage counts in error.details.
func (h *TermHandler) DeleteTerm(c *gin.Context) {
	usage, err := h.svc.DeleteTerm(c.Request.Context(), queryParam(c, "termUUID", "uuid"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, usage)
}
