// Package tabular reads spreadsheet and CSV reference data into header-addressed rows.
package tabular

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Options configures how a file is read.
type Options struct {
	Sheet    string // xlsx only; first sheet when blank
	SkipRows int    // rows before the header row
}

// Table is a parsed sheet: a header row and the data rows below it.
type Table struct {
	Header []string
	Rows   []Row
	index  map[string]int
}

// Row is one data row. Line is the 1-based row number in the source file.
type Row struct {
	Line  int
	cells []string
	table *Table
}

// Get returns the trimmed cell under column, or "" when the column or cell is absent.
func (r Row) Get(column string) string {
	i, ok := r.table.index[normalizeHeader(column)]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Raw returns the untrimmed cell under column. Multi-line cells keep their line breaks.
func (r Row) Raw(column string) string {
	i, ok := r.table.index[normalizeHeader(column)]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[normalizeHeader(column)]
	return ok
}

// Require returns an error naming every column the header lacks.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("tabular: missing required columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// NewTable builds a table from raw records. The header is the first record after skipRows.
// Rows whose cells are all blank are dropped.
func NewTable(records [][]string, skipRows int) (*Table, error) {
	if skipRows < 0 {
		skipRows = 0
	}
	if len(records) <= skipRows {
		return nil, eris.Errorf("tabular: no header row after skipping %d rows", skipRows)
	}

	t := &Table{
		Header: records[skipRows],
		index:  make(map[string]int, len(records[skipRows])),
	}
	for i, h := range t.Header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}

	for i := skipRows + 1; i < len(records); i++ {
		if blank(records[i]) {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 1, cells: records[i], table: t})
	}
	return t, nil
}

// ReadFile reads a .xlsx or .csv file into a table.
func ReadFile(path string, opts Options) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		records, err = ReadXLSX(path, opts.Sheet)
	case ".csv":
		records, err = readCSVFile(path)
	default:
		return nil, eris.Errorf("tabular: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return NewTable(records, opts.SkipRows)
}

// Read parses an in-memory upload. name is only used for its extension.
func Read(name string, r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "tabular: read upload")
	}

	var records [][]string
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx":
		records, err = ReadXLSXBinary(data, opts.Sheet)
	case ".csv":
		records, err = ReadCSV(bytes.NewReader(data))
	default:
		return nil, eris.Errorf("tabular: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return NewTable(records, opts.SkipRows)
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
