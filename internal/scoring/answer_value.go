package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerValue is a submitted answer as it arrives in JSON: an integer, or null or ""
// when the question was presented and left blank. Numeric strings are accepted too.
type AnswerValue struct {
	Value *int
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AnswerValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		a.Value = nil
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			a.Value = nil
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("answer %q is not an integer", s)
		}
		a.Value = &v
		return nil
	}

	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("answer %s is not an integer", string(b))
	}
	a.Value = &v
	return nil
}

// MarshalJSON writes the integer, or null for a blank answer.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*a.Value)), nil
}

// AnswerValues converts decoded answers to the collector's input.
func AnswerValues(in map[string]AnswerValue) map[string]*int {
	if in == nil {
		return nil
	}
	out := make(map[string]*int, len(in))
	for k, v := range in {
		out[k] = v.Value
	}
	return out
}
