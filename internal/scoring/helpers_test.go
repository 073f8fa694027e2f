package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/countryindex"
)

var scale = []catalog.AnswerOption{
	{Label: "None", Value: 0},
	{Label: "Low", Value: 1},
	{Label: "Some", Value: 2},
	{Label: "Most", Value: 3},
	{Label: "All", Value: 4},
}

// testCatalog: Child Labour is asked for both scopes, Forced Labour only for Business.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Question{
		{ReferenceID: 1, Category: catalog.Materiality, Issue: "Child Labour", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 2, Category: catalog.Materiality, Issue: "Child Labour", Options: []catalog.AnswerOption{{Label: "A", Value: 0}, {Label: "B", Value: 2}}, AppliesToSupplyChain: true},
		{ReferenceID: 3, Category: catalog.DueDiligence, Issue: "Child Labour", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 4, Category: catalog.Mitigation, Issue: "Child Labour", Options: scale, AppliesToSupplyChain: true},
		{ReferenceID: 5, Category: catalog.Materiality, Issue: "Forced Labour", Options: scale},
		{ReferenceID: 6, Category: catalog.DueDiligence, Issue: "Forced Labour", Options: scale},
		{ReferenceID: 7, Category: catalog.Mitigation, Issue: "Forced Labour", Options: scale},
	})
	require.NoError(t, err)
	return c
}

func testIndex(t *testing.T) *countryindex.Index {
	t.Helper()
	idx, err := countryindex.New([]countryindex.Entry{
		{CountryCode: "USA", Issue: "Child Labour", RiskIndex: 2.5},
		{CountryCode: "IND", Issue: "Child Labour", RiskIndex: 7.8},
		{CountryCode: "FRA", Issue: "Child Labour", RiskIndex: 1.2},
		{CountryCode: "USA", Issue: "Forced Labour", RiskIndex: 3.1},
		{CountryCode: "CHN", Issue: "Forced Labour", RiskIndex: 8.4},
	})
	require.NoError(t, err)
	return idx
}

func intp(v int) *int { return &v }

func collect(t *testing.T, c *catalog.Catalog, raw map[string]*int) []Answer {
	t.Helper()
	answers, err := NewCollector(c).Collect(raw)
	require.NoError(t, err)
	return answers
}

func findResult(rows []IssueResult, issue string) (IssueResult, bool) {
	for _, r := range rows {
		if r.Issue == issue {
			return r, true
		}
	}
	return IssueResult{}, false
}
