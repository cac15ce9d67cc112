package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codewithwan/erecruitment/internal/services"
)

type ActivityHandler struct {
	svc services.ActivityService
}

func NewActivityHandler(svc services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// List returns the caller's recent mutations, newest first.
// Optional query: ?section=skills&limit=20.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	out, err := h.svc.List(c.Request.Context(), userID, c.Query("section"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
