package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
)

// NewMemoryRepositories creates repositories that keep everything in process memory.
// They back the server when no DATABASE_URL is configured.
func NewMemoryRepositories() *Repositories {
	repos := &Repositories{
		User:       NewMemoryUserRepository(),
		Submission: NewMemorySubmissionRepository(),
	}
	repos.Tx = &memoryTx{repos: repos}
	return repos
}

// memoryTx runs fn against the same repositories. There is no rollback.
type memoryTx struct {
	repos *Repositories
}

func (m *memoryTx) WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(m.repos)
}

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

// NewMemoryUserRepository creates an in-memory user repository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user not found", nil)
	}
	return &u, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFound("user not found", nil).WithDetails(email)
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return apperrors.Conflict("user with this email already exists", nil)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

type memorySubmissionRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.Submission
}

// NewMemorySubmissionRepository creates an in-memory submission repository
func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{byID: make(map[uuid.UUID]models.Submission)}
}

func (r *memorySubmissionRepository) Create(_ context.Context, s *models.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	stored, err := cloneSubmission(s)
	if err != nil {
		return apperrors.InternalError("failed to store submission", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[s.ID]; exists {
		return apperrors.Conflict("submission already exists", nil)
	}
	r.byID[s.ID] = *stored
	return nil
}

func (r *memorySubmissionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	r.mu.RLock()
	s, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("submission not found", nil)
	}
	return cloneSubmission(&s)
}

func (r *memorySubmissionRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.Submission, error) {
	limit, offset = normalizePage(limit, offset)

	r.mu.RLock()
	var matched []models.Submission
	for _, s := range r.byID {
		if s.UserID != nil && *s.UserID == userID {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	out := []models.Submission{}
	if offset >= len(matched) {
		return out, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	for i := offset; i < end; i++ {
		c, err := cloneSubmission(&matched[i])
		if err != nil {
			return nil, apperrors.InternalError("failed to read submission", err)
		}
		out = append(out, *c)
	}
	return out, nil
}

// cloneSubmission deep-copies s through JSON so callers never share maps or slices
// with the store.
func cloneSubmission(s *models.Submission) (*models.Submission, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var c models.Submission
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
