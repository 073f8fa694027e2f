package catalog

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/jamescw/unicef-assessment-tool/internal/tabular"
)

// Workbook column names
const (
	ColReference      = "Reference"
	ColAssessment     = "Assessment"
	ColIssue          = "Issue"
	ColQuestionNumber = "Question number"
	ColQuestion       = "Question"
	ColInformation    = "Information"
	ColAnswerOptions  = "Answer options"
	ColSupplyChain    = "Supply chain"
)

// LoadOptions locates the question sheet inside the workbook.
type LoadOptions struct {
	Sheet    string
	SkipRows int
}

// Load reads the catalog from a .xlsx or .csv file.
func Load(path string, opts LoadOptions) (*Catalog, error) {
	table, err := tabular.ReadFile(path, tabular.Options{Sheet: opts.Sheet, SkipRows: opts.SkipRows})
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return FromTable(table)
}

// LoadReader reads the catalog from an uploaded file; name supplies the extension.
func LoadReader(name string, r io.Reader, opts LoadOptions) (*Catalog, error) {
	table, err := tabular.Read(name, r, tabular.Options{Sheet: opts.Sheet, SkipRows: opts.SkipRows})
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", name)
	}
	return FromTable(table)
}

// FromTable converts parsed rows into a catalog. Rows without a reference are skipped.
func FromTable(table *tabular.Table) (*Catalog, error) {
	if err := table.Require(ColReference, ColAssessment, ColIssue, ColAnswerOptions); err != nil {
		return nil, eris.Wrap(err, "catalog")
	}

	var questions []Question
	for _, row := range table.Rows {
		refCell := row.Get(ColReference)
		if refCell == "" {
			continue
		}

		q, err := questionFromRow(row, refCell)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: row %d", row.Line)
		}
		questions = append(questions, q)
	}

	c, err := New(questions)
	if err != nil {
		return nil, eris.Wrap(err, "catalog")
	}
	if c.Len() == 0 {
		return nil, eris.New("catalog: no questions found")
	}
	return c, nil
}

func questionFromRow(row tabular.Row, refCell string) (Question, error) {
	ref, err := parseReference(refCell)
	if err != nil {
		return Question{}, err
	}

	cat, err := ParseCategory(row.Get(ColAssessment))
	if err != nil {
		return Question{}, eris.Wrapf(err, "reference %d", ref)
	}

	options, err := ParseAnswerOptions(row.Raw(ColAnswerOptions))
	if err != nil {
		return Question{}, eris.Wrapf(err, "reference %d", ref)
	}

	return Question{
		ReferenceID:          ref,
		Category:             cat,
		Issue:                strings.Join(strings.Fields(row.Get(ColIssue)), " "),
		Number:               row.Get(ColQuestionNumber),
		Text:                 NormalizeText(row.Raw(ColQuestion)),
		Information:          NormalizeText(row.Raw(ColInformation)),
		Options:              options,
		AppliesToSupplyChain: row.Get(ColSupplyChain) != "",
	}, nil
}

// parseReference accepts "12" and the "12.0" spreadsheets produce for numeric cells.
func parseReference(s string) (int, error) {
	if ref, err := strconv.Atoi(s); err == nil {
		return ref, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, eris.Errorf("reference %q is not an integer", s)
	}
	return int(f), nil
}
