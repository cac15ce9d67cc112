package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithwan/erecruitment/internal/services"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/wizard"
)

type DraftHandler struct {
	svc services.DraftService
}

func NewDraftHandler(svc services.DraftService) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// entityKey reads ?entity=, "new" when absent.
func entityKey(c *gin.Context) string {
	if k := c.Query("entity"); k != "" {
		return k
	}
	return wizard.NewEntityKey
}

func (h *DraftHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.svc.Get(c.Request.Context(), userID, c.Param("section"), entityKey(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type SaveDraftRequest struct {
	Input       json.RawMessage `json:"input" binding:"required"`
	Attachments []string        `json:"attachments"`
}

func (h *DraftHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DraftHandler.Save", "invalid request body", err))
		return
	}

	d, err := h.svc.Save(c.Request.Context(), userID, c.Param("section"), entityKey(c), req.Input, req.Attachments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) Discard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Discard(c.Request.Context(), userID, c.Param("section"), entityKey(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
