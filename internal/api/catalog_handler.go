package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

var catalogExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// CatalogHandler serves the question catalog and country list
type CatalogHandler struct {
	assessment services.AssessmentService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(assessment services.AssessmentService) *CatalogHandler {
	return &CatalogHandler{assessment: assessment}
}

// GetQuestions returns the questionnaire grouped by category and issue. The optional
// category query parameter restricts it to one category.
func (h *CatalogHandler) GetQuestions(c *gin.Context) {
	var filter *catalog.Category
	if raw := c.Query("category"); raw != "" {
		cat, err := catalog.ParseCategory(raw)
		if err != nil {
			badRequest(c, "Unknown category", err)
			return
		}
		filter = &cat
	}

	groups := h.assessment.Questions(filter)
	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"count":  len(groups),
	})
}

// GetIssues returns the human rights issues of the catalog
func (h *CatalogHandler) GetIssues(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issues": h.assessment.Issues()})
}

// GetCountries returns the country codes present in the country risk index
func (h *CatalogHandler) GetCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": h.assessment.Countries()})
}

// ValidateCatalog parses an uploaded catalog spreadsheet and reports what it contains
func (h *CatalogHandler) ValidateCatalog(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "No catalog file provided", err)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !catalogExtensions[ext] {
		badRequest(c, "Catalog must be an .xlsx or .csv file", nil)
		return
	}

	summary, err := h.assessment.ValidateCatalog(header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"summary": summary,
	})
}
