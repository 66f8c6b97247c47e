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

type ChainHandler struct {
	log *logger.Logger
	svc services.CoAService
}

func NewChainHandler(log *logger.Logger, svc services.CoAService) *ChainHandler {
	return &ChainHandler{log: log.With("handler", "ChainHandler"), svc: svc}
}

type insertChainsRequest struct {
	CoA    string              `json:"coa"`
	Chains []types.ChainInsert `json:"chains"`
}

// POST /chain/insertChains
// body: { "coa": "...", "chains": [{ "order": 0, "terms": [{ "uuid", "order" }] }] }
func (h *ChainHandler) InsertChains(c *gin.Context) {
	var req insertChainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	ids, err := h.svc.InsertChains(c.Request.Context(), req.CoA, req.Chains)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	response.RespondOK(c, ids)
}

type deleteChainsRequest struct {
	CoA    string   `json:"coa"`
	Chains []string `json:"chains"`
}

// POST /chain/deleteChains
// body: { "coa": "...", "chains": ["chain-uuid", ...] }
func (h *ChainHandler) DeleteChains(c *gin.Context) {
	var req deleteChainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	n, err := h.svc.DeleteChains(c.Request.Context(), req.CoA, req.Chains)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, n)
}
