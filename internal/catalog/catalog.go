package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the read-only question bank. It is built once at startup and shared by
// every request; none of its methods mutate it.
type Catalog struct {
	questions []Question
	byRef     map[int]int
}

// New validates questions and builds a catalog ordered by reference id.
func New(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		byRef:     make(map[int]int, len(questions)),
	}

	for _, q := range questions {
		if _, dup := c.byRef[q.ReferenceID]; dup {
			return nil, fmt.Errorf("duplicate reference %d", q.ReferenceID)
		}
		if !q.Category.Valid() {
			return nil, fmt.Errorf("reference %d: invalid assessment category", q.ReferenceID)
		}
		if strings.TrimSpace(q.Issue) == "" {
			return nil, fmt.Errorf("reference %d: issue is blank", q.ReferenceID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("reference %d: no answer options", q.ReferenceID)
		}
		q.Options = append([]AnswerOption(nil), q.Options...)
		c.byRef[q.ReferenceID] = -1
		c.questions = append(c.questions, q)
	}

	sort.Slice(c.questions, func(i, j int) bool {
		return c.questions[i].ReferenceID < c.questions[j].ReferenceID
	})
	for i, q := range c.questions {
		c.byRef[q.ReferenceID] = i
	}
	return c, nil
}

// Question looks up a question by reference id.
func (c *Catalog) Question(ref int) (*Question, bool) {
	i, ok := c.byRef[ref]
	if !ok {
		return nil, false
	}
	return &c.questions[i], true
}

// Questions returns a copy of all questions ordered by reference id.
func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

// ByCategory returns the questions of one assessment category, ordered by reference id.
func (c *Catalog) ByCategory(cat Category) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Category == cat {
			out = append(out, q)
		}
	}
	return out
}

// Issues returns the distinct issue names, sorted.
func (c *Catalog) Issues() []string {
	seen := make(map[string]bool)
	var issues []string
	for _, q := range c.questions {
		if !seen[q.Issue] {
			seen[q.Issue] = true
			issues = append(issues, q.Issue)
		}
	}
	sort.Strings(issues)
	return issues
}

// Categories returns the categories that have at least one question, in questionnaire order.
func (c *Catalog) Categories() []Category {
	var out []Category
	for _, cat := range AllCategories {
		for _, q := range c.questions {
			if q.Category == cat {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}
