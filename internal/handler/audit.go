package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"askbuilding/internal/repository"
)

// AuditHandler exposes the recent query-audit trail for inspection.
type AuditHandler struct {
	audit *repository.AuditLog
}

// NewAuditHandler creates an audit handler. audit may be nil when auditing is
// disabled; the route then reports it as such.
func NewAuditHandler(audit *repository.AuditLog) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Recent handles GET /api/v1/audit/recent
func (h *AuditHandler) Recent(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Query auditing is disabled (set AUDIT_PG_DSN to enable)"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = v
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
