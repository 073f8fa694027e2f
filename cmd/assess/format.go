package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
)

// formatReport writes the tables of report to out.
func formatReport(out io.Writer, report *scoring.Report) {
	switch {
	case report.Full != nil:
		for _, t := range []scoring.ScopeTable{report.Full.Business, report.Full.SupplyChain, report.Full.Combined} {
			formatScopeTable(out, t)
		}
		_, _ = fmt.Fprintf(out, "Due diligence average: %.2f\n", report.Full.DueDiligenceAverage)
		for _, inc := range report.Full.Incomplete {
			_, _ = fmt.Fprintf(out, "Incomplete: %s (%s) has no %s answers\n", inc.Issue, inc.Scope, inc.Missing)
		}

	case report.Materiality != nil:
		for _, t := range []scoring.MaterialityTable{report.Materiality.Business, report.Materiality.SupplyChain, report.Materiality.Combined} {
			formatMaterialityTable(out, t)
		}

	case report.Category != nil:
		_, _ = fmt.Fprintf(out, "%s\n", report.Category.Category)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ISSUE\tSCORE\tRATING")
		_, _ = fmt.Fprintln(w, "-----\t-----\t------")
		for _, r := range report.Category.Rows {
			_, _ = fmt.Fprintf(w, "%s\t%.2f\t%s\n", r.Issue, r.Score, r.Rating)
		}
		_ = w.Flush()

	case report.Geographic != nil:
		formatGeographic(out, report.Geographic)
	}
}

func formatScopeTable(out io.Writer, t scoring.ScopeTable) {
	_, _ = fmt.Fprintf(out, "\n%s\n", t.Scope)
	if t.NoData {
		_, _ = fmt.Fprintln(out, "No data")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ISSUE\tSCORE\tMATERIALITY\tMITIGATION\tCOMBINED\tRATING\tPRIORITY_SCORE\tPRIORITY")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-----------\t----------\t--------\t------\t--------------\t--------")
	for _, r := range t.Rows {
		_, _ = fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%.2f\t%s\t%.2f\t%s\n",
			r.Issue,
			r.Score,
			r.Materiality,
			r.MitigationScore,
			r.CombinedScore,
			r.CombinedRating,
			r.PriorityScore,
			r.Priority,
		)
	}
	_ = w.Flush()
}

func formatMaterialityTable(out io.Writer, t scoring.MaterialityTable) {
	_, _ = fmt.Fprintf(out, "\n%s\n", t.Scope)
	if t.NoData {
		_, _ = fmt.Fprintln(out, "No data")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ISSUE\tSCORE\tMATERIALITY")
	_, _ = fmt.Fprintln(w, "-----\t-----\t-----------")
	for _, r := range t.Rows {
		_, _ = fmt.Fprintf(w, "%s\t%.2f\t%s\n", r.Issue, r.Score, r.Materiality)
	}
	_ = w.Flush()
}

func formatGeographic(out io.Writer, g *scoring.GeographicReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COUNTRY\tISSUE\tRISK_INDEX\tSCOPES")
	_, _ = fmt.Fprintln(w, "-------\t-----\t----------\t------")
	for _, m := range g.Matches {
		scopes := make([]string, len(m.Scopes))
		for i, s := range m.Scopes {
			scopes[i] = s.Label()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", m.CountryCode, m.Issue, m.RiskIndex, strings.Join(scopes, ", "))
	}
	_ = w.Flush()

	if len(g.UnknownCountries) > 0 {
		_, _ = fmt.Fprintf(out, "Not in the country index: %s\n", strings.Join(g.UnknownCountries, ", "))
	}
}
