package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
)

// SubmitRequest is one questionnaire submission. Answers are keyed
// "{reference_id}-{scope}"; a nil value is a presented but unanswered question.
type SubmitRequest struct {
	Kind                 string
	Answers              map[string]*int
	BusinessCountries    []string
	SupplyChainCountries []string
	SortBy               string
	Descending           bool
	UserID               *uuid.UUID
}

// SubmitResult is the outcome of a submission that was scored or found to lack data.
// SubmissionID is nil for anonymous submissions, which are not stored.
type SubmitResult struct {
	SubmissionID *uuid.UUID              `json:"submission_id,omitempty"`
	Status       models.SubmissionStatus `json:"status"`
	Report       *scoring.Report         `json:"report,omitempty"`
	Insufficient string                  `json:"insufficient_data,omitempty"`
}

// QuestionGroup is the questions of one issue within one category, in reference order.
type QuestionGroup struct {
	Category  catalog.Category   `json:"assessment"`
	Issue     string             `json:"issue"`
	Questions []catalog.Question `json:"questions"`
}

// ReferenceStats describes the loaded reference data.
type ReferenceStats struct {
	Questions        int `json:"questions"`
	Issues           int `json:"issues"`
	IndexEntries     int `json:"country_index_entries"`
	IndexedCountries int `json:"countries"`
}

// CatalogSummary is the result of validating an uploaded catalog.
type CatalogSummary struct {
	Questions  int                      `json:"questions"`
	Issues     []string                 `json:"issues"`
	ByCategory map[catalog.Category]int `json:"by_category"`
}

// AssessmentOptions configures the assessment service.
type AssessmentOptions struct {
	Engine scoring.EngineOptions
	// Catalog locates the question sheet in uploaded catalogs.
	Catalog catalog.LoadOptions
}

// assessmentService implements AssessmentService
type assessmentService struct {
	repos       *repository.Repositories
	ref         *reference.Reference
	collector   *scoring.Collector
	builder     *scoring.Builder
	catalogOpts catalog.LoadOptions
	logger      logger.Logger
}

// NewAssessmentService creates the assessment service over loaded reference data.
func NewAssessmentService(repos *repository.Repositories, ref *reference.Reference, opts AssessmentOptions, log logger.Logger) AssessmentService {
	return &assessmentService{
		repos:       repos,
		ref:         ref,
		collector:   scoring.NewCollector(ref.Catalog),
		builder:     scoring.NewBuilder(scoring.NewEngine(opts.Engine), ref.Index),
		catalogOpts: opts.Catalog,
		logger:      log,
	}
}

// Submit scores a submission and records it for its owner. Anonymous submissions are
// scored but not recorded, since nothing could read them back. A submission that does
// not resolve against the catalog is recorded as rejected and returned as a data
// integrity error. A submission missing a category the report needs is recorded and
// returned with status insufficient_data.
func (s *assessmentService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	kind, err := scoring.ParseReportKind(req.Kind)
	if err != nil {
		return nil, errors.InvalidInput("unknown report kind", err).WithDetails(req.Kind)
	}
	sortCol, err := scoring.ParseSortColumn(req.SortBy)
	if err != nil {
		return nil, errors.InvalidInput("unknown sort column", err).WithDetails(req.SortBy)
	}

	start := time.Now()
	sub := &models.Submission{
		ID:                   uuid.New(),
		UserID:               req.UserID,
		Kind:                 string(kind),
		Answers:              req.Answers,
		BusinessCountries:    req.BusinessCountries,
		SupplyChainCountries: req.SupplyChainCountries,
	}
	log := s.logger.With("submission_id", sub.ID.String(), "kind", string(kind))

	answers, err := s.collector.Collect(req.Answers)
	if err != nil {
		var integrity *scoring.DataIntegrityError
		if !stderrors.As(err, &integrity) {
			return nil, errors.InternalError("failed to collect answers", err).WithOperation("Submit")
		}
		log.Warn("Rejected submission", "key", integrity.Key, "reason", integrity.Reason)
		sub.Status = models.SubmissionRejected
		sub.Reason = integrity.Error()
		if perr := s.store(ctx, sub); perr != nil {
			return nil, perr
		}
		return nil, errors.DataIntegrity("submission does not match the question catalog", err).
			WithDetails(integrity.Error()).WithOperation("Submit")
	}

	report, err := s.builder.Build(kind, answers, scoring.CountrySelection{
		Business:    req.BusinessCountries,
		SupplyChain: req.SupplyChainCountries,
	})
	if err != nil {
		var insufficient *scoring.InsufficientDataError
		if !stderrors.As(err, &insufficient) {
			log.Error("Failed to build report", err)
			return nil, errors.InternalError("failed to build report", err).WithOperation("Submit")
		}
		log.Info("Insufficient data for report", "reason", insufficient.Error())
		sub.Status = models.SubmissionInsufficientData
		sub.Reason = insufficient.Error()
		if perr := s.store(ctx, sub); perr != nil {
			return nil, perr
		}
		return &SubmitResult{SubmissionID: storedID(sub), Status: sub.Status, Insufficient: sub.Reason}, nil
	}

	report.Sort(sortCol, req.Descending)
	body, err := json.Marshal(report)
	if err != nil {
		return nil, errors.InternalError("failed to encode report", err).WithOperation("Submit")
	}
	sub.Status = models.SubmissionCompleted
	sub.Report = body
	if err := s.store(ctx, sub); err != nil {
		return nil, err
	}

	log.Info("Scored submission", "answers", len(answers), "duration", time.Since(start).String())
	return &SubmitResult{SubmissionID: storedID(sub), Status: sub.Status, Report: report}, nil
}

func (s *assessmentService) store(ctx context.Context, sub *models.Submission) error {
	if sub.UserID == nil {
		return nil
	}
	if err := s.repos.Submission.Create(ctx, sub); err != nil {
		s.logger.Error("Failed to store submission", err, "submission_id", sub.ID.String())
		return errors.DatabaseError("failed to store submission", err).WithOperation("Submit")
	}
	return nil
}

func storedID(sub *models.Submission) *uuid.UUID {
	if sub.UserID == nil {
		return nil
	}
	id := sub.ID
	return &id
}

// Questions returns the catalog grouped by category and issue. A nil category returns
// every category.
func (s *assessmentService) Questions(category *catalog.Category) []QuestionGroup {
	groups := []QuestionGroup{}
	for _, cat := range s.ref.Catalog.Categories() {
		if category != nil && *category != cat {
			continue
		}
		index := make(map[string]int)
		for _, q := range s.ref.Catalog.ByCategory(cat) {
			i, ok := index[q.Issue]
			if !ok {
				groups = append(groups, QuestionGroup{Category: cat, Issue: q.Issue})
				i = len(groups) - 1
				index[q.Issue] = i
			}
			groups[i].Questions = append(groups[i].Questions, q)
		}
	}
	return groups
}

func (s *assessmentService) Issues() []string {
	return s.ref.Catalog.Issues()
}

func (s *assessmentService) Countries() []string {
	return s.ref.Index.Countries()
}

func (s *assessmentService) ReferenceStats() ReferenceStats {
	return ReferenceStats{
		Questions:        s.ref.Catalog.Len(),
		Issues:           len(s.ref.Catalog.Issues()),
		IndexEntries:     s.ref.Index.Len(),
		IndexedCountries: len(s.ref.Index.Countries()),
	}
}

// GetSubmission returns a submission owned by userID. Other users' submissions are
// reported as not found.
func (s *assessmentService) GetSubmission(ctx context.Context, id, userID uuid.UUID) (*models.Submission, error) {
	sub, err := s.repos.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("Failed to get submission", err, "submission_id", id.String())
		return nil, errors.DatabaseError("failed to get submission", err).WithOperation("GetSubmission")
	}
	if sub.UserID == nil || *sub.UserID != userID {
		return nil, errors.NotFound("submission not found", nil)
	}
	return sub, nil
}

func (s *assessmentService) ListSubmissions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.SubmissionSummary, error) {
	subs, err := s.repos.Submission.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list submissions", err, "user_id", userID.String())
		return nil, errors.DatabaseError("failed to list submissions", err).WithOperation("ListSubmissions")
	}
	out := make([]models.SubmissionSummary, len(subs))
	for i := range subs {
		out[i] = subs[i].Summary()
	}
	return out, nil
}

// ValidateCatalog parses a catalog spreadsheet without replacing the loaded one.
func (s *assessmentService) ValidateCatalog(name string, r io.Reader) (*CatalogSummary, error) {
	c, err := catalog.LoadReader(name, r, s.catalogOpts)
	if err != nil {
		return nil, errors.Configuration("catalog is invalid", err).WithDetails(err.Error())
	}
	return SummarizeCatalog(c), nil
}

// SummarizeCatalog counts the questions of c per category.
func SummarizeCatalog(c *catalog.Catalog) *CatalogSummary {
	summary := &CatalogSummary{
		Questions:  c.Len(),
		Issues:     c.Issues(),
		ByCategory: make(map[catalog.Category]int),
	}
	for _, cat := range c.Categories() {
		summary.ByCategory[cat] = len(c.ByCategory(cat))
	}
	return summary
}
