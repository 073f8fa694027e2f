package scoring

import (
	"sort"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/countryindex"
)

// NeedsAttentionThreshold is the priority score below which an issue is matched
// against the selected countries.
const NeedsAttentionThreshold = 2.0

// CountrySelection is the respondent's countries of operation per scope.
type CountrySelection struct {
	Business    []string `json:"business_countries"`
	SupplyChain []string `json:"supply_chain_countries"`
}

// For returns the countries selected for scope.
func (c CountrySelection) For(scope Scope) []string {
	switch scope {
	case Business:
		return c.Business
	case SupplyChain:
		return c.SupplyChain
	}
	return nil
}

// Empty reports whether no country was selected for either scope.
func (c CountrySelection) Empty() bool {
	return len(c.Business) == 0 && len(c.SupplyChain) == 0
}

// GeoMatch is a risk index entry for a selected country and a high-priority issue.
// Scopes lists which selections matched it.
type GeoMatch struct {
	CountryCode string  `json:"country_code"`
	Issue       string  `json:"issue"`
	RiskIndex   float64 `json:"risk_index"`
	Scopes      []Scope `json:"scopes"`
}

// Matcher intersects selected countries with the risk index.
type Matcher struct {
	index *countryindex.Index
}

// NewMatcher creates a matcher over a read-only index.
func NewMatcher(index *countryindex.Index) *Matcher {
	if index == nil {
		index = countryindex.Empty()
	}
	return &Matcher{index: index}
}

// needsAttention is the filter for one scope: low priority score AND the same scope.
func needsAttention(r IssueResult, scope Scope) bool {
	return (r.PriorityScore < NeedsAttentionThreshold) && (r.Scope == scope)
}

// Match returns the index entries whose country is selected for a scope and whose
// issue needs attention in that same scope. Countries the index does not know are
// returned separately.
func (m *Matcher) Match(results []IssueResult, sel CountrySelection) ([]GeoMatch, []string, error) {
	if m.index.Len() == 0 {
		return nil, nil, &InsufficientDataError{Reason: "country risk index is empty"}
	}
	if sel.Empty() {
		return nil, nil, &InsufficientDataError{Reason: "no countries selected"}
	}

	type matchKey struct{ country, issue string }
	merged := make(map[matchKey]*GeoMatch)
	unknown := make(map[string]bool)

	for _, scope := range SubmissionScopes {
		flagged := make(map[string]bool)
		for _, r := range results {
			if needsAttention(r, scope) {
				flagged[catalog.IssueKey(r.Issue)] = true
			}
		}

		for _, raw := range sel.For(scope) {
			code := countryindex.NormalizeCountry(raw)
			if code == "" {
				continue
			}
			if !m.index.HasCountry(code) {
				unknown[code] = true
				continue
			}
			for _, entry := range m.index.ForCountry(code) {
				if !flagged[catalog.IssueKey(entry.Issue)] {
					continue
				}
				k := matchKey{entry.CountryCode, entry.Issue}
				gm, ok := merged[k]
				if !ok {
					gm = &GeoMatch{CountryCode: entry.CountryCode, Issue: entry.Issue, RiskIndex: entry.RiskIndex}
					merged[k] = gm
				}
				if !containsScope(gm.Scopes, scope) {
					gm.Scopes = append(gm.Scopes, scope)
				}
			}
		}
	}

	matches := make([]GeoMatch, 0, len(merged))
	for _, gm := range merged {
		matches = append(matches, *gm)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CountryCode != matches[j].CountryCode {
			return matches[i].CountryCode < matches[j].CountryCode
		}
		return matches[i].Issue < matches[j].Issue
	})

	unknownCodes := make([]string, 0, len(unknown))
	for c := range unknown {
		unknownCodes = append(unknownCodes, c)
	}
	sort.Strings(unknownCodes)
	return matches, unknownCodes, nil
}

// NeedingAttention returns the Business and SupplyChain rows below the threshold,
// lowest priority score first.
func NeedingAttention(card *Scorecard) []IssueResult {
	var out []IssueResult
	for _, scope := range SubmissionScopes {
		for _, r := range card.Table(scope) {
			if needsAttention(r, scope) {
				out = append(out, r)
			}
		}
	}
	SortResults(out, SortByPriorityScore, false)
	return out
}

func containsScope(scopes []Scope, s Scope) bool {
	for _, x := range scopes {
		if x == s {
			return true
		}
	}
	return false
}
