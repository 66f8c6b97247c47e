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

type CoAHandler struct {
	log *logger.Logger
	svc services.CoAService
}

func NewCoAHandler(log *logger.Logger, svc services.CoAService) *CoAHandler {
	return &CoAHandler{log: log.With("handler", "CoAHandler"), svc: svc}
}

type upsertCoARequest struct {
	ID     string              `json:"uuid"`
	Data   types.CoAAttributes `json:"data"`
	Chains []types.ChainInput  `json:"chains"`
}

// POST /coa/upsertCoA
// body: { "uuid": "", "data": { "name", "description", "location" }, "chains": [{ "uuid", "containedTerms": [] }] }
func (h *CoAHandler) UpsertCoA(c *gin.Context) {
	var req upsertCoARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	id, err := h.svc.UpsertCoA(c.Request.Context(), req.ID, req.Data, req.Chains)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, id)
}

// GET /coa/deleteCoA?uuid=
// termUUID is accepted for older editor builds.
func (h *CoAHandler) DeleteCoA(c *gin.Context) {
	if err := h.svc.DeleteCoA(c.Request.Context(), queryParam(c, "uuid", "termUUID")); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type allCoARequest struct {
	IDs []string `json:"coaUUIDList"`
}

// GET|POST /coaeditor/allCoA
// POST restricts the result to body.coaUUIDList.
func (h *CoAHandler) AllCoA(c *gin.Context) {
	var ids []string
	if c.Request.Method == http.MethodPost {
		var req allCoARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
			return
		}
		ids = req.IDs
		if ids == nil {
			ids = []string{}
		}
	}
	list, err := h.svc.AllCoA(c.Request.Context(), ids)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, list)
}
