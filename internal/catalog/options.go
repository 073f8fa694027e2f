package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// AnswerOption is one selectable answer and the integer it contributes to the issue score.
type AnswerOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ParseAnswerOptions parses the workbook's "Answer options" cell: one "label = integer"
// entry per line. Blank lines are ignored.
func ParseAnswerOptions(text string) ([]AnswerOption, error) {
	var options []AnswerOption
	for n, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		label, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("answer option line %d %q: missing '='", n+1, line)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("answer option line %d %q: empty label", n+1, line)
		}

		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("answer option line %d %q: value is not an integer", n+1, line)
		}
		if v < 0 {
			return nil, fmt.Errorf("answer option line %d %q: value must not be negative", n+1, line)
		}
		options = append(options, AnswerOption{Label: label, Value: v})
	}
	return options, nil
}
