package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"askbuilding/internal/model"
	"askbuilding/internal/service"
)

// AskHandler handles the plain query-router HTTP surface. Failures propagate
// to the caller as structured errors; the persona rendering belongs to the
// tools surface.
type AskHandler struct {
	router *service.QueryRouter
}

// NewAskHandler creates an ask handler.
func NewAskHandler(router *service.QueryRouter) *AskHandler {
	return &AskHandler{router: router}
}

// Ask handles POST /api/v1/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.router.Ask(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, model.ErrRoomNameRequired):
			status = http.StatusBadRequest
		case errors.Is(err, model.ErrNoRoomMatch), errors.Is(err, model.ErrNoSensorMapping):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
