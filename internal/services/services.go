package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
	"github.com/jamescw/unicef-assessment-tool/pkg/config"
)

// Services contains all application services
type Services struct {
	Assessment AssessmentService
	Auth       AuthService
}

// AssessmentService scores questionnaire submissions and serves the reference data the
// questionnaire is built from.
type AssessmentService interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	Questions(category *catalog.Category) []QuestionGroup
	Issues() []string
	Countries() []string
	ReferenceStats() ReferenceStats

	GetSubmission(ctx context.Context, id, userID uuid.UUID) (*models.Submission, error)
	ListSubmissions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.SubmissionSummary, error)
	ExportSubmission(ctx context.Context, id, userID uuid.UUID, format ExportFormat) (*Export, error)

	ValidateCatalog(name string, r io.Reader) (*CatalogSummary, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	RefreshToken(ctx context.Context, token string) (*models.LoginResponse, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(repos *repository.Repositories, ref *reference.Reference, cfg *config.Config, log logger.Logger) (*Services, error) {
	policy, err := scoring.ParseCombinePolicy(cfg.CombinePolicy)
	if err != nil {
		return nil, err
	}

	return &Services{
		Assessment: NewAssessmentService(repos, ref, AssessmentOptions{
			Engine:  scoring.EngineOptions{CombinePolicy: policy},
			Catalog: catalog.LoadOptions{Sheet: cfg.CatalogSheet, SkipRows: cfg.CatalogSkipRows},
		}, log),
		Auth: NewAuthService(repos, cfg.JWTSecret, log),
	}, nil
}
