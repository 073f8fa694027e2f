package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

func TestParseReportKind(t *testing.T) {
	cases := map[string]ReportKind{
		"full":          ReportFull,
		"results":       ReportFull,
		"Materiality":   ReportMateriality,
		"Due diligence": ReportDueDiligence,
		"due-diligence": ReportDueDiligence,
		"Mitigation":    ReportMitigation,
		"geographic":    ReportGeographic,
	}
	for in, want := range cases {
		got, err := ParseReportKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseReportKind("summary")
	assert.Error(t, err)
}

func TestBuilder_Full(t *testing.T) {
	c := testCatalog(t)
	b := NewBuilder(NewEngine(EngineOptions{}), testIndex(t))

	report, err := b.Build(ReportFull, collect(t, c, map[string]*int{
		"1-Business":    intp(4),
		"1-SupplyChain": intp(2),
		"3-Business":    intp(2),
		"3-SupplyChain": intp(2),
		"4-Business":    intp(1),
		"4-SupplyChain": intp(1),
	}), CountrySelection{})
	require.NoError(t, err)

	require.NotNil(t, report.Full)
	assert.Nil(t, report.Materiality)
	assert.Equal(t, ReportFull, report.Kind)
	assert.Len(t, report.Full.Business.Rows, 1)
	assert.Len(t, report.Full.Combined.Rows, 1)
	assert.False(t, report.Full.SupplyChain.NoData)
	assert.Len(t, report.Full.PriorityChart, 3)
	assert.Len(t, report.Full.MaterialityChart, 3)
	assert.Equal(t, 2.0, report.Full.DueDiligenceAverage)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"scope":"Combined"`)
	assert.NotContains(t, string(body), `"geographic"`)
}

func TestBuilder_CategoryInsufficient(t *testing.T) {
	c := testCatalog(t)
	b := NewBuilder(NewEngine(EngineOptions{}), testIndex(t))

	_, err := b.Build(ReportDueDiligence, collect(t, c, map[string]*int{
		"1-Business": intp(2),
		"4-Business": intp(2),
	}), CountrySelection{})

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, catalog.DueDiligence, insufficient.Category)
}

func TestBuilder_Geographic(t *testing.T) {
	c := testCatalog(t)
	b := NewBuilder(NewEngine(EngineOptions{}), testIndex(t))

	report, err := b.Build(ReportGeographic, collect(t, c, map[string]*int{
		"1-Business": intp(1),
		"3-Business": intp(1),
		"4-Business": intp(1),
	}), CountrySelection{Business: []string{"USA", "FRA"}})
	require.NoError(t, err)

	require.NotNil(t, report.Geographic)
	require.Len(t, report.Geographic.Priorities, 1)
	assert.Equal(t, 1.0, report.Geographic.Priorities[0].PriorityScore)
	assert.Equal(t, PriorityNormal, report.Geographic.Priorities[0].Priority)

	require.Len(t, report.Geographic.Matches, 2)
	assert.Equal(t, "FRA", report.Geographic.Matches[0].CountryCode)
	assert.Equal(t, "USA", report.Geographic.Matches[1].CountryCode)
	assert.Empty(t, report.Geographic.UnknownCountries)
}

func TestReport_Sort(t *testing.T) {
	report := &Report{Kind: ReportFull, Full: &FullReport{
		Business: ScopeTable{Scope: Business, Rows: []IssueResult{
			{Issue: "A", Score: 1, CombinedScore: 3},
			{Issue: "B", Score: 2, CombinedScore: 1},
		}},
	}}

	report.Sort(SortByCombinedScore, false)
	assert.Equal(t, []string{"B", "A"}, issues(report.Full.Business.Rows))

	report.Sort(SortByScore, true)
	assert.Equal(t, []string{"B", "A"}, issues(report.Full.Business.Rows))
}
