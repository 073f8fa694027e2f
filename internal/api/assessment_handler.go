package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/auth"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

// SubmissionRequest is the body of an assessment submission. An answer is an integer,
// or null or "" when the question was left blank.
type SubmissionRequest struct {
	Answers              map[string]scoring.AnswerValue `json:"answers"`
	BusinessCountries    []string                       `json:"business_countries"`
	SupplyChainCountries []string                       `json:"supply_chain_countries"`
}

// AssessmentHandler scores submissions and serves stored ones
type AssessmentHandler struct {
	assessment services.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessment services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessment: assessment}
}

// Submit scores a submission for the report kind in the path. A submission that
// lacks a category the report needs is answered with 200 and status insufficient_data.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	descending := false
	if raw := c.Query("desc"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "desc must be a boolean", err)
			return
		}
		descending = v
	}

	submit := services.SubmitRequest{
		Kind:                 c.Param("kind"),
		Answers:              scoring.AnswerValues(req.Answers),
		BusinessCountries:    req.BusinessCountries,
		SupplyChainCountries: req.SupplyChainCountries,
		SortBy:               c.Query("sort"),
		Descending:           descending,
	}
	if userID, ok := auth.UserID(c); ok {
		submit.UserID = &userID
	}

	result, err := h.assessment.Submit(c.Request.Context(), submit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListSubmissions returns the caller's submissions, newest first
func (h *AssessmentHandler) ListSubmissions(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	limit, err := queryInt(c, "limit", repository.DefaultListLimit)
	if err != nil {
		badRequest(c, "limit must be an integer", err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		badRequest(c, "offset must be an integer", err)
		return
	}

	subs, err := h.assessment.ListSubmissions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
		"count":       len(subs),
	})
}

// GetSubmission returns one of the caller's submissions with its stored report
func (h *AssessmentHandler) GetSubmission(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid submission ID", err)
		return
	}

	sub, err := h.assessment.GetSubmission(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// ExportSubmission downloads the stored report of one of the caller's submissions
func (h *AssessmentHandler) ExportSubmission(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid submission ID", err)
		return
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		badRequest(c, "Invalid format. Supported formats: json, csv", err)
		return
	}

	export, err := h.assessment.ExportSubmission(c.Request.Context(), id, userID, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
