package scoring

import (
	"fmt"
	"sort"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

// CombinePolicy decides what the Combined table does with an issue answered for only
// one scope.
type CombinePolicy int

const (
	// CombineSkipMissing leaves the issue out of the Combined table.
	CombineSkipMissing CombinePolicy = iota
	// CombineMissingAsZero averages the present scope with zeros for the missing one.
	CombineMissingAsZero
)

// ParseCombinePolicy accepts "skip" and "zero".
func ParseCombinePolicy(s string) (CombinePolicy, error) {
	switch s {
	case "", "skip":
		return CombineSkipMissing, nil
	case "zero":
		return CombineMissingAsZero, nil
	}
	return 0, fmt.Errorf("unknown combine policy %q", s)
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	CombinePolicy CombinePolicy
}

// Engine scores collected answers. It holds no per-request state, so one Engine is
// shared by all requests.
type Engine struct {
	opts EngineOptions
}

// NewEngine creates a new scoring engine instance
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{opts: opts}
}

// Scorecard is the full scoring of one submission.
type Scorecard struct {
	Aggregates          []IssueAggregate  `json:"aggregates"`
	DueDiligenceAverage float64           `json:"due_diligence_average"`
	Business            []IssueResult     `json:"business"`
	SupplyChain         []IssueResult     `json:"supply_chain"`
	Combined            []IssueResult     `json:"combined"`
	Incomplete          []IncompleteIssue `json:"incomplete,omitempty"`
}

// Table returns the rows of one scope.
func (s *Scorecard) Table(scope Scope) []IssueResult {
	switch scope {
	case Business:
		return s.Business
	case SupplyChain:
		return s.SupplyChain
	case Combined:
		return s.Combined
	}
	return nil
}

type aggKey struct {
	category catalog.Category
	scope    Scope
	issue    string
}

type aggregateSet struct {
	rows  []IssueAggregate
	index map[aggKey]int
}

func (s *aggregateSet) get(cat catalog.Category, scope Scope, issue string) (IssueAggregate, bool) {
	i, ok := s.index[aggKey{cat, scope, issue}]
	if !ok {
		return IssueAggregate{}, false
	}
	return s.rows[i], true
}

func (s *aggregateSet) filter(cat catalog.Category, scope Scope) []IssueAggregate {
	var out []IssueAggregate
	for _, r := range s.rows {
		if r.Category == cat && (scope == 0 || r.Scope == scope) {
			out = append(out, r)
		}
	}
	return out
}

// answered reports whether any question of cat was given a value. A category whose
// questions were all left blank holds no data, even though its rows score 0.
func (s *aggregateSet) answered(cat catalog.Category) bool {
	for _, r := range s.rows {
		if r.Category == cat && r.Answered > 0 {
			return true
		}
	}
	return false
}

// Aggregate sums answer values per (issue, scope, category). Combinations without
// answers have no row. Rows are ordered by category, scope, then issue.
func (e *Engine) Aggregate(answers []Answer) []IssueAggregate {
	return e.aggregate(answers).rows
}

func (e *Engine) aggregate(answers []Answer) *aggregateSet {
	set := &aggregateSet{index: make(map[aggKey]int)}
	for _, a := range answers {
		k := aggKey{a.Category, a.Key.Scope, a.Issue}
		i, ok := set.index[k]
		if !ok {
			set.rows = append(set.rows, IssueAggregate{Issue: a.Issue, Scope: a.Key.Scope, Category: a.Category})
			i = len(set.rows) - 1
			set.index[k] = i
		}
		set.rows[i].Score += float64(a.Value)
		set.rows[i].Answers++
		if a.Answered {
			set.rows[i].Answered++
		}
	}

	sort.Slice(set.rows, func(i, j int) bool {
		a, b := set.rows[i], set.rows[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		return a.Issue < b.Issue
	})
	for i, r := range set.rows {
		set.index[aggKey{r.Category, r.Scope, r.Issue}] = i
	}
	return set
}

// Score computes the materiality, combined and priority scores of every issue and
// scope. Materiality, Due Diligence and Mitigation must each have at least one
// answered question; blank answers inside an answered category still score 0.
func (e *Engine) Score(answers []Answer) (*Scorecard, error) {
	set := e.aggregate(answers)
	for _, cat := range catalog.AllCategories {
		if !set.answered(cat) {
			return nil, insufficientCategory(cat)
		}
	}

	card := &Scorecard{
		Aggregates:          set.rows,
		DueDiligenceAverage: dueDiligenceAverage(set),
	}

	for _, scope := range SubmissionScopes {
		rows, incomplete := e.scoreScope(set, scope, card.DueDiligenceAverage)
		card.Incomplete = append(card.Incomplete, incomplete...)
		switch scope {
		case Business:
			card.Business = rows
		case SupplyChain:
			card.SupplyChain = rows
		}
	}
	card.Combined = e.combineResults(card.Business, card.SupplyChain)

	SortResults(card.Business, SortByScore, false)
	SortResults(card.SupplyChain, SortByScore, false)
	SortResults(card.Combined, SortByScore, false)
	return card, nil
}

// dueDiligenceAverage is one scalar for the whole submission: the mean Due-Diligence
// score over every issue and scope.
func dueDiligenceAverage(set *aggregateSet) float64 {
	rows := set.filter(catalog.DueDiligence, 0)
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	return mean(scores...)
}

func (e *Engine) scoreScope(set *aggregateSet, scope Scope, ddAverage float64) ([]IssueResult, []IncompleteIssue) {
	var (
		rows       []IssueResult
		incomplete []IncompleteIssue
	)

	for _, m := range set.filter(catalog.Materiality, scope) {
		mit, ok := set.get(catalog.Mitigation, scope, m.Issue)
		if !ok {
			incomplete = append(incomplete, IncompleteIssue{Issue: m.Issue, Scope: scope, Missing: catalog.Mitigation})
			continue
		}
		rows = append(rows, classify(m.Issue, scope, m.Score, mit.Score, ddAverage))
	}

	for _, mit := range set.filter(catalog.Mitigation, scope) {
		if _, ok := set.get(catalog.Materiality, scope, mit.Issue); !ok {
			incomplete = append(incomplete, IncompleteIssue{Issue: mit.Issue, Scope: scope, Missing: catalog.Materiality})
		}
	}
	return rows, incomplete
}

func classify(issue string, scope Scope, materiality, mitigation, ddAverage float64) IssueResult {
	combined := mean(mitigation, ddAverage)
	priority := mean(materiality, combined)
	return IssueResult{
		Issue:           issue,
		Scope:           scope,
		Score:           materiality,
		Materiality:     MaterialityBand(materiality),
		MitigationScore: mitigation,
		CombinedScore:   combined,
		CombinedRating:  RatingBand(combined),
		PriorityScore:   priority,
		Priority:        PriorityBand(priority),
		Highlight:       Highlight(materiality),
	}
}

// MaterialityTables scores materiality only; the other categories are not required.
func (e *Engine) MaterialityTables(answers []Answer) (*MaterialityReport, error) {
	set := e.aggregate(answers)
	if !set.answered(catalog.Materiality) {
		return nil, insufficientCategory(catalog.Materiality)
	}

	tables := make(map[Scope][]MaterialityRow, 3)
	for _, scope := range SubmissionScopes {
		for _, m := range set.filter(catalog.Materiality, scope) {
			tables[scope] = append(tables[scope], materialityRow(m.Issue, scope, m.Score))
		}
	}
	tables[Combined] = e.combineMateriality(tables[Business], tables[SupplyChain])

	report := &MaterialityReport{
		Business:    newMaterialityTable(Business, tables[Business]),
		SupplyChain: newMaterialityTable(SupplyChain, tables[SupplyChain]),
		Combined:    newMaterialityTable(Combined, tables[Combined]),
	}
	return report, nil
}

func materialityRow(issue string, scope Scope, score float64) MaterialityRow {
	return MaterialityRow{
		Issue:       issue,
		Scope:       scope,
		Score:       score,
		Materiality: MaterialityBand(score),
		Highlight:   Highlight(score),
	}
}

// CategoryReport lists one category per issue with its rating. An issue answered for
// both scopes is scored as the mean of its two scope sums.
func (e *Engine) CategoryReport(answers []Answer, cat catalog.Category) (*CategoryReport, error) {
	set := e.aggregate(answers)
	if !set.answered(cat) {
		return nil, insufficientCategory(cat)
	}
	rows := set.filter(cat, 0)

	byIssue := make(map[string][]float64)
	var issues []string
	for _, r := range rows {
		if _, ok := byIssue[r.Issue]; !ok {
			issues = append(issues, r.Issue)
		}
		byIssue[r.Issue] = append(byIssue[r.Issue], r.Score)
	}

	report := &CategoryReport{Category: cat}
	for _, issue := range issues {
		score := mean(byIssue[issue]...)
		report.Rows = append(report.Rows, CategoryRow{
			Issue:     issue,
			Score:     score,
			Rating:    RatingBand(score),
			Highlight: CategoryHighlight(score),
		})
	}
	SortCategoryRows(report.Rows, false)
	return report, nil
}
