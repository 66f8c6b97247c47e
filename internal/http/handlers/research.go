package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/http/response"
	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/services"
)

type ResearchHandler struct {
	log *logger.Logger
	svc services.SearchService
}

func NewResearchHandler(log *logger.Logger, svc services.SearchService) *ResearchHandler {
	return &ResearchHandler{log: log.With("handler", "ResearchHandler"), svc: svc}
}

type researchRequest struct {
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	SingleTerms []string   `json:"singleTerms"`
	TermGroups  [][]string `json:"termUUIDs"`
}

// POST /research
// body: { "name", "location", "singleTerms": [""], "termUUIDs": [["term-uuid", ...], ...] }
func (h *ResearchHandler) Research(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	ids, err := h.svc.Research(c.Request.Context(), req.Name, req.Location, req.SingleTerms, req.TermGroups)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	response.RespondOK(c, ids)
}
