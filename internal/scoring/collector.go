package scoring

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

// SubmittedAnswer is one answer with its key already parsed. A nil Value means the
// question was presented and left unanswered.
type SubmittedAnswer struct {
	Key   AnswerKey
	Value *int
}

// Collector turns submitted answers into catalog-joined Answer records.
type Collector struct {
	catalog *catalog.Catalog
}

// NewCollector creates a collector reading from c.
func NewCollector(c *catalog.Catalog) *Collector {
	return &Collector{catalog: c}
}

// ParseAnswerKey parses "{reference_id}-{scope}". ok is false when the key has no scope
// suffix or the suffix is not a recognised scope label; such rows are not applicable
// and are dropped by the caller. A reference that is not an integer is a data
// integrity error.
func ParseAnswerKey(raw string) (key AnswerKey, ok bool, err error) {
	refPart, scopePart, found := strings.Cut(raw, "-")
	if !found {
		return AnswerKey{}, false, nil
	}
	scope, known := ParseScope(scopePart)
	if !known {
		return AnswerKey{}, false, nil
	}

	ref, convErr := strconv.Atoi(strings.TrimSpace(refPart))
	if convErr != nil {
		return AnswerKey{}, false, &DataIntegrityError{Key: raw, Scope: scope, Reason: "reference is not an integer"}
	}
	return AnswerKey{ReferenceID: ref, Scope: scope}, true, nil
}

// Collect parses the raw questionnaire keys once and validates every answer. Missing
// values count as 0: an unanswered question scores as the lowest possible answer.
func (c *Collector) Collect(raw map[string]*int) ([]Answer, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]SubmittedAnswer, 0, len(keys))
	for _, k := range keys {
		key, ok, err := ParseAnswerKey(k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, SubmittedAnswer{Key: key, Value: raw[k]})
	}
	return c.CollectStructured(items)
}

// CollectStructured validates already-parsed answers against the catalog.
func (c *Collector) CollectStructured(items []SubmittedAnswer) ([]Answer, error) {
	answers := make([]Answer, 0, len(items))
	seen := make(map[AnswerKey]bool, len(items))

	for _, item := range items {
		k := item.Key
		if seen[k] {
			return nil, integrityError(k, "answered more than once")
		}
		seen[k] = true

		q, ok := c.catalog.Question(k.ReferenceID)
		if !ok {
			return nil, integrityError(k, "reference not found in question catalog")
		}
		switch k.Scope {
		case Business:
		case SupplyChain:
			if !q.AppliesToSupplyChain {
				return nil, integrityError(k, "question does not apply to the supply chain")
			}
		default:
			return nil, integrityError(k, "answers can only be given for Business or SupplyChain")
		}

		a := Answer{Key: k, Issue: q.Issue, Category: q.Category}
		if item.Value != nil {
			v := *item.Value
			if v != 0 && !q.HasOption(v) {
				return nil, integrityError(k, "value "+strconv.Itoa(v)+" is not an answer option")
			}
			a.Value = v
			a.Answered = true
		}
		answers = append(answers, a)
	}

	sort.Slice(answers, func(i, j int) bool {
		if answers[i].Key.ReferenceID != answers[j].Key.ReferenceID {
			return answers[i].Key.ReferenceID < answers[j].Key.ReferenceID
		}
		return answers[i].Key.Scope < answers[j].Key.Scope
	})
	return answers, nil
}

func integrityError(k AnswerKey, reason string) error {
	return &DataIntegrityError{Key: k.String(), ReferenceID: k.ReferenceID, Scope: k.Scope, Reason: reason}
}
