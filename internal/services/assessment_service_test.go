package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/countryindex"
	"github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
)

func intp(v int) *int { return &v }

var scale = []catalog.AnswerOption{
	{Label: "None", Value: 0},
	{Label: "Partly", Value: 1},
	{Label: "Mostly", Value: 2},
	{Label: "Fully", Value: 3},
	{Label: "Always", Value: 4},
}

func testReference(t *testing.T) *reference.Reference {
	t.Helper()
	c, err := catalog.New([]catalog.Question{
		{ReferenceID: 1, Category: catalog.Materiality, Issue: "Child Labour", Text: "Do you source cocoa?", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 2, Category: catalog.DueDiligence, Issue: "Child Labour", Text: "Do you audit suppliers?", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 3, Category: catalog.Mitigation, Issue: "Child Labour", Text: "Do you remediate?", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 4, Category: catalog.Materiality, Issue: "Forced Labour", Text: "Do you use agencies?", Options: scale},
		{ReferenceID: 5, Category: catalog.Mitigation, Issue: "Forced Labour", Text: "Do you check fees?", Options: scale},
		{ReferenceID: 6, Category: catalog.Materiality, Issue: "Child Labour", Text: "Seasonal work?", Options: scale},
	})
	require.NoError(t, err)

	idx, err := countryindex.New([]countryindex.Entry{
		{CountryCode: "USA", Issue: "Child Labour", RiskIndex: 2.5},
		{CountryCode: "IND", Issue: "Child Labour", RiskIndex: 7.8},
		{CountryCode: "USA", Issue: "Forced Labour", RiskIndex: 3.1},
	})
	require.NoError(t, err)
	return reference.New(c, idx)
}

func newTestAssessmentService(t *testing.T) (AssessmentService, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	svc := NewAssessmentService(repos, testReference(t), AssessmentOptions{}, logger.NewNopLogger())
	return svc, repos
}

func TestAssessmentService_Submit_Completed(t *testing.T) {
	svc, repos := newTestAssessmentService(t)
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.Submit(ctx, SubmitRequest{
		Kind: "results",
		Answers: map[string]*int{
			"1-Business": intp(3),
			"6-Business": nil,
			"2-Business": intp(2),
			"3-Business": intp(1),
		},
		UserID: &userID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionCompleted, res.Status)
	require.NotNil(t, res.Report)
	require.NotNil(t, res.Report.Full)
	require.Len(t, res.Report.Full.Business.Rows, 1)
	row := res.Report.Full.Business.Rows[0]
	assert.Equal(t, 2.25, row.PriorityScore)
	assert.Equal(t, scoring.PriorityLow, row.Priority)

	require.NotNil(t, res.SubmissionID)
	stored, err := repos.Submission.GetByID(ctx, *res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, "full", stored.Kind)
	assert.Equal(t, models.SubmissionCompleted, stored.Status)

	var decoded scoring.Report
	require.NoError(t, json.Unmarshal(stored.Report, &decoded))
	assert.Equal(t, scoring.ReportFull, decoded.Kind)
	assert.Equal(t, res.Report.Full.Business.Rows, decoded.Full.Business.Rows)
}

func TestAssessmentService_Submit_Rejected(t *testing.T) {
	svc, _ := newTestAssessmentService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Submit(ctx, SubmitRequest{
		Kind:    "full",
		Answers: map[string]*int{"1-Business": intp(2), "99-Business": intp(1)},
		UserID:  &userID,
	})
	require.Error(t, err)
	assert.True(t, errors.IsDataIntegrity(err))
	assert.Contains(t, err.Error(), "99-Business")

	subs, err := svc.ListSubmissions(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, models.SubmissionRejected, subs[0].Status)
}

func TestAssessmentService_Submit_SupplyChainNotApplicable(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Kind:    "full",
		Answers: map[string]*int{"4-SupplyChain": intp(1)},
	})
	assert.True(t, errors.IsDataIntegrity(err))
}

func TestAssessmentService_Submit_InsufficientData(t *testing.T) {
	svc, repos := newTestAssessmentService(t)
	ctx := context.Background()
	owner := uuid.New()

	res, err := svc.Submit(ctx, SubmitRequest{
		Kind:    "full",
		Answers: map[string]*int{"1-Business": intp(3), "3-Business": intp(1)},
		UserID:  &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionInsufficientData, res.Status)
	assert.Nil(t, res.Report)
	assert.Contains(t, res.Insufficient, "Due diligence")

	require.NotNil(t, res.SubmissionID)
	stored, err := repos.Submission.GetByID(ctx, *res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionInsufficientData, stored.Status)
	assert.Equal(t, &owner, stored.UserID)
}

type countingSubmissions struct {
	repository.SubmissionRepository
	creates int
}

func (c *countingSubmissions) Create(ctx context.Context, sub *models.Submission) error {
	c.creates++
	return c.SubmissionRepository.Create(ctx, sub)
}

func TestAssessmentService_Submit_AnonymousNotStored(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	counter := &countingSubmissions{SubmissionRepository: repos.Submission}
	repos.Submission = counter
	svc := NewAssessmentService(repos, testReference(t), AssessmentOptions{}, logger.NewNopLogger())
	ctx := context.Background()

	res, err := svc.Submit(ctx, SubmitRequest{
		Kind:    "materiality",
		Answers: map[string]*int{"1-Business": intp(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionCompleted, res.Status)
	require.NotNil(t, res.Report)
	assert.Nil(t, res.SubmissionID)

	_, err = svc.Submit(ctx, SubmitRequest{
		Kind:    "full",
		Answers: map[string]*int{"4-SupplyChain": intp(1)},
	})
	assert.True(t, errors.IsDataIntegrity(err))
	assert.Zero(t, counter.creates)

	owner := uuid.New()
	res, err = svc.Submit(ctx, SubmitRequest{
		Kind:    "materiality",
		Answers: map[string]*int{"1-Business": intp(4)},
		UserID:  &owner,
	})
	require.NoError(t, err)
	assert.NotNil(t, res.SubmissionID)
	assert.Equal(t, 1, counter.creates)
}

func TestAssessmentService_Submit_Geographic(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	res, err := svc.Submit(context.Background(), SubmitRequest{
		Kind: "geographic",
		Answers: map[string]*int{
			"1-Business": intp(1),
			"2-Business": intp(1),
			"3-Business": intp(1),
		},
		BusinessCountries: []string{"usa", "IND", "ZZZ"},
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionCompleted, res.Status)

	geo := res.Report.Geographic
	require.NotNil(t, geo)
	require.Len(t, geo.Matches, 2)
	assert.Equal(t, "IND", geo.Matches[0].CountryCode)
	assert.Equal(t, "USA", geo.Matches[1].CountryCode)
	assert.Equal(t, []string{"ZZZ"}, geo.UnknownCountries)

	res, err = svc.Submit(context.Background(), SubmitRequest{
		Kind:    "geographic",
		Answers: map[string]*int{"1-Business": intp(1), "2-Business": intp(1), "3-Business": intp(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionInsufficientData, res.Status)
}

func TestAssessmentService_Submit_InvalidInput(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	_, err := svc.Submit(context.Background(), SubmitRequest{Kind: "summary"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))

	_, err = svc.Submit(context.Background(), SubmitRequest{Kind: "full", SortBy: "name"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestAssessmentService_Submit_Sorted(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	res, err := svc.Submit(context.Background(), SubmitRequest{
		Kind: "full",
		Answers: map[string]*int{
			"1-Business": intp(1),
			"2-Business": intp(2),
			"3-Business": intp(2),
			"4-Business": intp(4),
			"5-Business": intp(0),
		},
		SortBy:     "score",
		Descending: true,
	})
	require.NoError(t, err)

	rows := res.Report.Full.Business.Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Forced Labour", rows[0].Issue)
	assert.Equal(t, "Child Labour", rows[1].Issue)
}

func TestAssessmentService_GetSubmission(t *testing.T) {
	svc, _ := newTestAssessmentService(t)
	ctx := context.Background()
	owner := uuid.New()

	res, err := svc.Submit(ctx, SubmitRequest{
		Kind:    "materiality",
		Answers: map[string]*int{"1-Business": intp(4)},
		UserID:  &owner,
	})
	require.NoError(t, err)

	sub, err := svc.GetSubmission(ctx, *res.SubmissionID, owner)
	require.NoError(t, err)
	assert.Equal(t, "materiality", sub.Kind)

	_, err = svc.GetSubmission(ctx, *res.SubmissionID, uuid.New())
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.GetSubmission(ctx, uuid.New(), owner)
	assert.True(t, errors.IsNotFound(err))
}

func TestAssessmentService_Questions(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	groups := svc.Questions(nil)
	require.Len(t, groups, 5)
	assert.Equal(t, catalog.Materiality, groups[0].Category)
	assert.Equal(t, "Child Labour", groups[0].Issue)
	require.Len(t, groups[0].Questions, 2)
	assert.Equal(t, 1, groups[0].Questions[0].ReferenceID)
	assert.Equal(t, 6, groups[0].Questions[1].ReferenceID)
	assert.Equal(t, "Forced Labour", groups[1].Issue)

	mitigation := catalog.Mitigation
	groups = svc.Questions(&mitigation)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, catalog.Mitigation, g.Category)
	}

	assert.Equal(t, []string{"Child Labour", "Forced Labour"}, svc.Issues())
	assert.Equal(t, []string{"IND", "USA"}, svc.Countries())
	assert.Equal(t, ReferenceStats{Questions: 6, Issues: 2, IndexEntries: 3, IndexedCountries: 2}, svc.ReferenceStats())
}

func TestAssessmentService_ValidateCatalog(t *testing.T) {
	svc, _ := newTestAssessmentService(t)

	csv := strings.Join([]string{
		"Reference,Assessment,Issue,Question,Answer options,Supply chain",
		`1,Materiality,Child Labour,Do you source cocoa?,"No = 0` + "\n" + `Yes = 2",x`,
		`2,Mitigation,Child Labour,Do you remediate?,"No = 0` + "\n" + `Yes = 2",`,
	}, "\n")

	summary, err := svc.ValidateCatalog("catalog.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Questions)
	assert.Equal(t, []string{"Child Labour"}, summary.Issues)
	assert.Equal(t, 1, summary.ByCategory[catalog.Mitigation])

	_, err = svc.ValidateCatalog("catalog.csv", strings.NewReader("Reference,Issue\n1,Child Labour"))
	assert.True(t, errors.IsConfiguration(err))

	_, err = svc.ValidateCatalog("catalog.pdf", strings.NewReader("x"))
	assert.True(t, errors.IsConfiguration(err))
}
