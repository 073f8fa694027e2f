package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
)

// submissionRepository implements SubmissionRepository on Postgres. Answers and the
// report are JSONB; country lists are text arrays.
type submissionRepository struct {
	db dbExecutor
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db dbExecutor) SubmissionRepository {
	return &submissionRepository{db: db}
}

const submissionColumns = `id, user_id, kind, answers, business_countries, supply_chain_countries,
		status, reason, report, created_at`

// Create stores a submission
func (r *submissionRepository) Create(ctx context.Context, s *models.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return apperrors.InternalError("failed to encode answers", err)
	}

	var userID uuid.NullUUID
	if s.UserID != nil {
		userID = uuid.NullUUID{UUID: *s.UserID, Valid: true}
	}
	var report []byte
	if len(s.Report) > 0 {
		report = s.Report
	}

	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, userID, s.Kind, answers,
		pq.Array(nonNil(s.BusinessCountries)), pq.Array(nonNil(s.SupplyChainCountries)),
		string(s.Status), s.Reason, report, s.CreatedAt,
	)
	if err != nil {
		return apperrors.DatabaseError("failed to create submission", err).WithOperation("submission.create")
	}
	return nil
}

// GetByID retrieves a submission by ID
func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("submission not found", err)
		}
		return nil, apperrors.DatabaseError("failed to get submission", err).WithOperation("submission.get_by_id")
	}
	return s, nil
}

// ListByUser retrieves a page of the user's submissions, newest first
func (r *submissionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Submission, error) {
	limit, offset = normalizePage(limit, offset)
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list submissions", err).WithOperation("submission.list_by_user")
	}
	defer rows.Close()

	out := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, apperrors.DatabaseError("failed to scan submission", err).WithOperation("submission.list_by_user")
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("failed to iterate submissions", err).WithOperation("submission.list_by_user")
	}
	return out, nil
}

// nonNil keeps pq from sending NULL for an empty country list.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		s       models.Submission
		userID  uuid.NullUUID
		status  string
		answers []byte
		report  []byte
	)
	err := row.Scan(
		&s.ID, &userID, &s.Kind, &answers,
		pq.Array(&s.BusinessCountries), pq.Array(&s.SupplyChainCountries),
		&status, &s.Reason, &report, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := userID.UUID
		s.UserID = &id
	}
	s.Status = models.SubmissionStatus(status)
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, err
		}
	}
	if len(report) > 0 {
		s.Report = json.RawMessage(report)
	}
	return &s, nil
}
