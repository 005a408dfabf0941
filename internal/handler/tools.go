package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askbuilding/internal/model"
	"askbuilding/internal/service"
)

// ToolsHandler exposes the canned toolkit operations. These were host-plugin
// entry points in the original deployment; here they are plain service
// methods fronted by thin routes.
type ToolsHandler struct {
	toolkit *service.Toolkit
}

// NewToolsHandler creates a tools handler.
func NewToolsHandler(toolkit *service.Toolkit) *ToolsHandler {
	return &ToolsHandler{toolkit: toolkit}
}

// QueryTopology handles POST /api/v1/tools/topology
func (h *ToolsHandler) QueryTopology(c *gin.Context) {
	var params model.TopologyParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.toolkit.QueryTopology(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Topology query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type sensorConfigRequest struct {
	RoomName string `json:"room_name" binding:"required"`
}

// CheckSensorConfig handles POST /api/v1/tools/sensor-config
func (h *ToolsHandler) CheckSensorConfig(c *gin.Context) {
	var req sensorConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	message, err := h.toolkit.CheckSensorConfig(c.Request.Context(), req.RoomName)
	if err != nil {
		// The inspector never shows a stack trace; failures stay in
		// character.
		c.JSON(http.StatusOK, gin.H{"message": h.toolkit.Formatter().Failure(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// InspectZoneMetrics handles POST /api/v1/tools/zone-metrics
func (h *ToolsHandler) InspectZoneMetrics(c *gin.Context) {
	var params model.ZoneMetricsParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	message, err := h.toolkit.InspectZoneMetrics(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": h.toolkit.Formatter().Failure(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
