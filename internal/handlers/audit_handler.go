package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/services"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Recent handles GET /audit?limit=100, newest entries first.
// @Summary     Recent audit entries
// @Description Newest first
// @Tags        audit
// @Produce     json
// @Param       limit query int false "Maximum entries (default 100)"
// @Success     200 {object} map[string][]models.AuditLog
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /audit [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.Recent(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
