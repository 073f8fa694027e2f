package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jamescw/unicef-assessment-tool/internal/auth"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

// SetupRoutes configures all API routes. db may be nil when nothing is persisted.
func SetupRoutes(r *gin.Engine, svc *services.Services, jwtService *auth.JWTService, db HealthChecker) {
	healthHandler := NewHealthHandler(svc.Assessment, db)
	catalogHandler := NewCatalogHandler(svc.Assessment)
	assessmentHandler := NewAssessmentHandler(svc.Assessment)
	authHandler := NewAuthHandler(svc.Auth)

	r.GET("/health", healthHandler.GetHealth)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.GET("/catalog/questions", catalogHandler.GetQuestions)
		public.GET("/catalog/issues", catalogHandler.GetIssues)
		public.GET("/countries", catalogHandler.GetCountries)

		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)
	}

	// Anonymous submissions are scored too; a token links them to the user
	scoring := r.Group("/api/v1")
	scoring.Use(auth.OptionalJWTMiddleware(jwtService))
	{
		scoring.POST("/assessments/:kind", assessmentHandler.Submit)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(jwtService))
	{
		protected.GET("/submissions", assessmentHandler.ListSubmissions)
		protected.GET("/submissions/:id", assessmentHandler.GetSubmission)
		protected.GET("/submissions/:id/export", assessmentHandler.ExportSubmission)
	}

	admin := protected.Group("")
	admin.Use(auth.RequireRole(string(models.RoleAdmin)))
	{
		admin.POST("/catalog/validate", catalogHandler.ValidateCatalog)
	}
}
