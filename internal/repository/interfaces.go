package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// SubmissionRepository defines the interface for questionnaire submission storage
type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	// ListByUser returns the user's submissions, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Submission, error)
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	User       UserRepository
	Submission SubmissionRepository
	Tx         TransactionManager
}

// DefaultListLimit caps ListByUser when the caller passes no limit.
const DefaultListLimit = 50

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
