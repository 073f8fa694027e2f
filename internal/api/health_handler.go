package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	assessment services.AssessmentService
	db         HealthChecker
}

// NewHealthHandler creates a health handler. db may be nil when submissions are kept
// in memory.
func NewHealthHandler(assessment services.AssessmentService, db HealthChecker) *HealthHandler {
	return &HealthHandler{assessment: assessment, db: db}
}

// GetHealth reports the loaded reference data and the database state
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	response := gin.H{
		"status":    "ok",
		"reference": h.assessment.ReferenceStats(),
		"database":  "disabled",
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			_ = c.Error(err)
			status = http.StatusServiceUnavailable
			response["status"] = "degraded"
			response["database"] = "unavailable"
		} else {
			response["database"] = "ok"
		}
	}

	c.JSON(status, response)
}
