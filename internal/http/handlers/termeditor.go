package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/http/response"
	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/services"
)

// TermEditorHandler serves the read side of the term taxonomy browser.
type TermEditorHandler struct {
	log *logger.Logger
	svc services.TermService
}

func NewTermEditorHandler(log *logger.Logger, svc services.TermService) *TermEditorHandler {
	return &TermEditorHandler{log: log.With("handler", "TermEditorHandler"), svc: svc}
}

// GET /termeditor/firstTerms
func (h *TermEditorHandler) FirstTerms(c *gin.Context) {
	terms, err := h.svc.FirstTerms(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, terms)
}

// GET /termeditor/updateListsOfClicked?uuid=&mode=
// mode is 1/children or 0/parents.
func (h *TermEditorHandler) UpdateListsOfClicked(c *gin.Context) {
	terms, err := h.svc.TermChildrenOrParents(c.Request.Context(), queryParam(c, "uuid"), c.Query("mode"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, terms)
}

// GET /termeditor/allTerms
func (h *TermEditorHandler) AllTerms(c *gin.Context) {
	terms, err := h.svc.AllTerms(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, terms)
}
