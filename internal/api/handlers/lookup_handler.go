package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/services"
)

type LookupHandler struct {
	svc     services.LookupService
	clients *apiclient.Factory
}

func NewLookupHandler(svc services.LookupService, clients *apiclient.Factory) *LookupHandler {
	return &LookupHandler{svc: svc, clients: clients}
}

func (h *LookupHandler) Majors(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}

	majors, err := h.svc.Majors(c.Request.Context(), h.clients.ForToken(token))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": majors})
}
