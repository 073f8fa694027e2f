package countryindex

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/jamescw/unicef-assessment-tool/internal/tabular"
)

// Source column names
const (
	ColCountry = "COUNTRY_ISO_3"
	ColIssue   = "INDICATOR_ISSUE"
	ColScore   = "ISSUE_INDEX_SCORE"
)

// LoadOptions locates the index sheet.
type LoadOptions struct {
	Sheet    string
	SkipRows int
}

// Load reads the index from a .xlsx or .csv file.
func Load(path string, opts LoadOptions) (*Index, error) {
	table, err := tabular.ReadFile(path, tabular.Options{Sheet: opts.Sheet, SkipRows: opts.SkipRows})
	if err != nil {
		return nil, eris.Wrapf(err, "country index: read %s", path)
	}
	return FromTable(table)
}

// FromTable converts parsed rows into an index.
func FromTable(table *tabular.Table) (*Index, error) {
	if err := table.Require(ColCountry, ColIssue, ColScore); err != nil {
		return nil, eris.Wrap(err, "country index")
	}

	entries := make([]Entry, 0, len(table.Rows))
	for _, row := range table.Rows {
		raw := row.Get(ColScore)
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, eris.Errorf("country index: row %d: %s %q is not a number", row.Line, ColScore, raw)
		}
		entries = append(entries, Entry{
			CountryCode: row.Get(ColCountry),
			Issue:       row.Get(ColIssue),
			RiskIndex:   score,
		})
	}

	idx, err := New(entries)
	if err != nil {
		return nil, eris.Wrap(err, "country index")
	}
	return idx, nil
}
