package scoring

import (
	"fmt"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

// Scope says whether a row covers the respondent's own operations, its supply chain,
// or the combination of both.
type Scope int

const (
	Business Scope = iota + 1
	SupplyChain
	Combined
)

// SubmissionScopes are the scopes a respondent can answer for.
var SubmissionScopes = []Scope{Business, SupplyChain}

// Label is the exact label used in answer keys and reports.
func (s Scope) Label() string {
	switch s {
	case Business:
		return "Business"
	case SupplyChain:
		return "SupplyChain"
	case Combined:
		return "Combined"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

func (s Scope) String() string { return s.Label() }

// ParseScope recognises the two submission scope labels, and nothing else.
func ParseScope(label string) (Scope, bool) {
	switch label {
	case "Business":
		return Business, true
	case "SupplyChain":
		return SupplyChain, true
	}
	return 0, false
}

// MarshalText encodes the scope as its label.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

// UnmarshalText decodes any of the three scope labels.
func (s *Scope) UnmarshalText(b []byte) error {
	if string(b) == "Combined" {
		*s = Combined
		return nil
	}
	parsed, ok := ParseScope(string(b))
	if !ok {
		return fmt.Errorf("unknown scope %q", string(b))
	}
	*s = parsed
	return nil
}

// AnswerKey identifies one presented question for one scope.
type AnswerKey struct {
	ReferenceID int
	Scope       Scope
}

// String formats the key the way the questionnaire submits it.
func (k AnswerKey) String() string {
	return fmt.Sprintf("%d-%s", k.ReferenceID, k.Scope.Label())
}

// Answer is one collected answer, joined with its catalog entry.
type Answer struct {
	Key      AnswerKey
	Value    int
	Answered bool // false when the question was presented but left blank
	Issue    string
	Category catalog.Category
}

// IssueAggregate is the summed answer value of one (issue, scope, category).
type IssueAggregate struct {
	Issue    string           `json:"issue"`
	Scope    Scope            `json:"scope"`
	Category catalog.Category `json:"assessment"`
	Score    float64          `json:"score"`
	Answers  int              `json:"answers"`
	Answered int              `json:"answered"` // answers given a value; blanks count in Answers only
}

// IssueResult is a classified issue row of the Business, SupplyChain or Combined table.
type IssueResult struct {
	Issue           string  `json:"issue"`
	Scope           Scope   `json:"scope"`
	Score           float64 `json:"score"`
	Materiality     string  `json:"materiality"`
	MitigationScore float64 `json:"mitigation_score"`
	CombinedScore   float64 `json:"combined_score"`
	CombinedRating  string  `json:"combined_rating"`
	PriorityScore   float64 `json:"priority_score"`
	Priority        string  `json:"priority"`
	Highlight       string  `json:"highlight,omitempty"`
}

// MaterialityRow is a row of the materiality-only tables.
type MaterialityRow struct {
	Issue       string  `json:"issue"`
	Scope       Scope   `json:"scope"`
	Score       float64 `json:"score"`
	Materiality string  `json:"materiality"`
	Highlight   string  `json:"highlight,omitempty"`
}

// CategoryRow is a row of a single-category (Due diligence or Mitigation) report.
type CategoryRow struct {
	Issue     string  `json:"issue"`
	Score     float64 `json:"score"`
	Rating    string  `json:"rating"`
	Highlight string  `json:"highlight,omitempty"`
}

// IncompleteIssue names an issue/scope that could not be given a priority because one
// of the categories it needs had no answers.
type IncompleteIssue struct {
	Issue   string           `json:"issue"`
	Scope   Scope            `json:"scope"`
	Missing catalog.Category `json:"missing"`
}
