// Package catalog holds the questionnaire: every question, the human-rights issue it
// belongs to, its assessment category and its answer options.
package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Category is one of the three question groupings that feed separate scoring logic.
type Category int

const (
	Materiality Category = iota + 1
	DueDiligence
	Mitigation
)

// AllCategories lists the categories in questionnaire order.
var AllCategories = []Category{Materiality, DueDiligence, Mitigation}

var folder = cases.Fold()

// ParseCategory accepts the spellings used in the framework workbook.
func ParseCategory(s string) (Category, error) {
	key := strings.Join(strings.FieldsFunc(folder.String(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "")
	switch key {
	case "materiality":
		return Materiality, nil
	case "duediligence":
		return DueDiligence, nil
	case "mitigation":
		return Mitigation, nil
	}
	return 0, fmt.Errorf("unknown assessment category %q", s)
}

// Label is the display name used in the workbook and in reports.
func (c Category) Label() string {
	switch c {
	case Materiality:
		return "Materiality"
	case DueDiligence:
		return "Due diligence"
	case Mitigation:
		return "Mitigation"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) String() string { return c.Label() }

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Label()), nil
}

// UnmarshalText accepts any spelling ParseCategory does.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	return c >= Materiality && c <= Mitigation
}

// Question is one catalog entry. Immutable once loaded.
type Question struct {
	ReferenceID          int            `json:"reference"`
	Category             Category       `json:"assessment"`
	Issue                string         `json:"issue"`
	Number               string         `json:"question_number,omitempty"`
	Text                 string         `json:"question"`
	Information          string         `json:"information,omitempty"`
	Options              []AnswerOption `json:"answer_options"`
	AppliesToSupplyChain bool           `json:"supply_chain"`
}

// HasOption reports whether value is one of the registered option values.
func (q *Question) HasOption(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionValues returns the registered values in option order.
func (q *Question) OptionValues() []int {
	values := make([]int, len(q.Options))
	for i, o := range q.Options {
		values[i] = o.Value
	}
	return values
}

// IssueKey is the case-folded form of an issue name used for matching across data sets.
func IssueKey(issue string) string {
	return folder.String(strings.Join(strings.Fields(issue), " "))
}
