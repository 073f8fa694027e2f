package scoring

import (
	"fmt"
	"strings"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/countryindex"
)

// ReportKind selects which report a submission produces.
type ReportKind string

const (
	ReportFull         ReportKind = "full"
	ReportMateriality  ReportKind = "materiality"
	ReportDueDiligence ReportKind = "due_diligence"
	ReportMitigation   ReportKind = "mitigation"
	ReportGeographic   ReportKind = "geographic"
)

// ReportKinds lists every kind.
var ReportKinds = []ReportKind{ReportFull, ReportMateriality, ReportDueDiligence, ReportMitigation, ReportGeographic}

// ParseReportKind accepts the kind names and the questionnaire's submit-button names
// ("results", "Materiality", "Due diligence", "Mitigation").
func ParseReportKind(s string) (ReportKind, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "full", "results", "report":
		return ReportFull, nil
	case "materiality":
		return ReportMateriality, nil
	case "due_diligence", "duediligence":
		return ReportDueDiligence, nil
	case "mitigation":
		return ReportMitigation, nil
	case "geographic", "geography", "country":
		return ReportGeographic, nil
	}
	return "", fmt.Errorf("unknown report kind %q", s)
}

// Category returns the assessment category of a single-category report kind.
func (k ReportKind) Category() (catalog.Category, bool) {
	switch k {
	case ReportDueDiligence:
		return catalog.DueDiligence, true
	case ReportMitigation:
		return catalog.Mitigation, true
	}
	return 0, false
}

// ScopeTable is one scope's classified rows. NoData marks a scope without answers.
type ScopeTable struct {
	Scope  Scope         `json:"scope"`
	Rows   []IssueResult `json:"rows"`
	NoData bool          `json:"no_data,omitempty"`
}

func newScopeTable(scope Scope, rows []IssueResult) ScopeTable {
	if rows == nil {
		rows = []IssueResult{}
	}
	return ScopeTable{Scope: scope, Rows: rows, NoData: len(rows) == 0}
}

// MaterialityTable is one scope's materiality rows.
type MaterialityTable struct {
	Scope  Scope            `json:"scope"`
	Rows   []MaterialityRow `json:"rows"`
	NoData bool             `json:"no_data,omitempty"`
}

func newMaterialityTable(scope Scope, rows []MaterialityRow) MaterialityTable {
	if rows == nil {
		rows = []MaterialityRow{}
	}
	SortMaterialityRows(rows, false)
	return MaterialityTable{Scope: scope, Rows: rows, NoData: len(rows) == 0}
}

// ChartPoint is one bar of a chart dataset.
type ChartPoint struct {
	Issue string  `json:"issue"`
	Scope Scope   `json:"scope"`
	Value float64 `json:"value"`
}

// FullReport is the three scope tables plus the priority and materiality chart data.
type FullReport struct {
	Business            ScopeTable        `json:"business"`
	SupplyChain         ScopeTable        `json:"supply_chain"`
	Combined            ScopeTable        `json:"combined"`
	DueDiligenceAverage float64           `json:"due_diligence_average"`
	PriorityChart       []ChartPoint      `json:"priority_chart"`
	MaterialityChart    []ChartPoint      `json:"materiality_chart"`
	Incomplete          []IncompleteIssue `json:"incomplete,omitempty"`
}

// MaterialityReport is the three materiality-only scope tables.
type MaterialityReport struct {
	Business    MaterialityTable `json:"business"`
	SupplyChain MaterialityTable `json:"supply_chain"`
	Combined    MaterialityTable `json:"combined"`
}

// CategoryReport is the single-category table.
type CategoryReport struct {
	Category catalog.Category `json:"assessment"`
	Rows     []CategoryRow    `json:"rows"`
}

// GeographicReport is the map dataset and the issues needing attention.
type GeographicReport struct {
	Matches          []GeoMatch    `json:"matches"`
	Priorities       []IssueResult `json:"priorities"`
	UnknownCountries []string      `json:"unknown_countries,omitempty"`
}

// Report holds exactly one variant, selected by Kind.
type Report struct {
	Kind        ReportKind         `json:"kind"`
	Full        *FullReport        `json:"full,omitempty"`
	Materiality *MaterialityReport `json:"materiality,omitempty"`
	Category    *CategoryReport    `json:"category,omitempty"`
	Geographic  *GeographicReport  `json:"geographic,omitempty"`
}

// Sort reorders every table of the report by col. Materiality and category tables
// only have a score column and sort by it.
func (r *Report) Sort(col SortColumn, desc bool) {
	switch {
	case r.Full != nil:
		SortResults(r.Full.Business.Rows, col, desc)
		SortResults(r.Full.SupplyChain.Rows, col, desc)
		SortResults(r.Full.Combined.Rows, col, desc)
	case r.Materiality != nil:
		SortMaterialityRows(r.Materiality.Business.Rows, desc)
		SortMaterialityRows(r.Materiality.SupplyChain.Rows, desc)
		SortMaterialityRows(r.Materiality.Combined.Rows, desc)
	case r.Category != nil:
		SortCategoryRows(r.Category.Rows, desc)
	case r.Geographic != nil:
		SortResults(r.Geographic.Priorities, col, desc)
	}
}

// Builder runs the engine and matcher for a report kind.
type Builder struct {
	engine  *Engine
	matcher *Matcher
}

// NewBuilder creates a builder sharing the engine and the read-only index.
func NewBuilder(engine *Engine, index *countryindex.Index) *Builder {
	return &Builder{engine: engine, matcher: NewMatcher(index)}
}

// Build produces the report of kind from collected answers. countries is only read by
// the geographic report.
func (b *Builder) Build(kind ReportKind, answers []Answer, countries CountrySelection) (*Report, error) {
	switch kind {
	case ReportFull:
		card, err := b.engine.Score(answers)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: kind, Full: fullReport(card)}, nil

	case ReportMateriality:
		m, err := b.engine.MaterialityTables(answers)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: kind, Materiality: m}, nil

	case ReportDueDiligence, ReportMitigation:
		cat, _ := kind.Category()
		c, err := b.engine.CategoryReport(answers, cat)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: kind, Category: c}, nil

	case ReportGeographic:
		card, err := b.engine.Score(answers)
		if err != nil {
			return nil, err
		}
		priorities := NeedingAttention(card)
		matches, unknown, err := b.matcher.Match(priorities, countries)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: kind, Geographic: &GeographicReport{
			Matches:          matches,
			Priorities:       priorities,
			UnknownCountries: unknown,
		}}, nil
	}
	return nil, fmt.Errorf("unknown report kind %q", kind)
}

func fullReport(card *Scorecard) *FullReport {
	r := &FullReport{
		Business:            newScopeTable(Business, card.Business),
		SupplyChain:         newScopeTable(SupplyChain, card.SupplyChain),
		Combined:            newScopeTable(Combined, card.Combined),
		DueDiligenceAverage: card.DueDiligenceAverage,
		Incomplete:          card.Incomplete,
		PriorityChart:       []ChartPoint{},
		MaterialityChart:    []ChartPoint{},
	}
	for _, t := range []ScopeTable{r.Business, r.SupplyChain, r.Combined} {
		for _, row := range t.Rows {
			r.PriorityChart = append(r.PriorityChart, ChartPoint{Issue: row.Issue, Scope: row.Scope, Value: row.PriorityScore})
			r.MaterialityChart = append(r.MaterialityChart, ChartPoint{Issue: row.Issue, Scope: row.Scope, Value: row.Score})
		}
	}
	return r
}
