package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

func TestParseAnswerKey(t *testing.T) {
	key, ok, err := ParseAnswerKey("12-Business")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, AnswerKey{ReferenceID: 12, Scope: Business}, key)

	key, ok, err = ParseAnswerKey("3-SupplyChain")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SupplyChain, key.Scope)
	assert.Equal(t, "3-SupplyChain", key.String())

	for _, raw := range []string{"12", "12-business", "12-supply", "12-Combined", "12-Business "} {
		_, ok, err := ParseAnswerKey(raw)
		assert.NoError(t, err, raw)
		assert.False(t, ok, raw)
	}

	_, _, err = ParseAnswerKey("abc-Business")
	var integrity *DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "abc-Business", integrity.Key)
}

func TestCollector_Collect(t *testing.T) {
	c := testCatalog(t)

	answers := collect(t, c, map[string]*int{
		"4-SupplyChain": intp(3),
		"1-Business":    intp(4),
		"2-Business":    nil,
		"1-supply":      intp(2), // unrecognised scope label: not applicable
		"note":          intp(1),
	})

	require.Len(t, answers, 3)
	assert.Equal(t, Answer{Key: AnswerKey{1, Business}, Value: 4, Answered: true, Issue: "Child Labour", Category: catalog.Materiality}, answers[0])
	assert.Equal(t, Answer{Key: AnswerKey{2, Business}, Value: 0, Answered: false, Issue: "Child Labour", Category: catalog.Materiality}, answers[1])
	assert.Equal(t, Answer{Key: AnswerKey{4, SupplyChain}, Value: 3, Answered: true, Issue: "Child Labour", Category: catalog.Mitigation}, answers[2])
}

func TestCollector_DataIntegrity(t *testing.T) {
	c := testCatalog(t)

	cases := map[string]struct {
		raw    map[string]*int
		reason string
	}{
		"unknown reference": {
			raw:    map[string]*int{"99-Business": intp(1)},
			reason: "reference not found in question catalog",
		},
		"supply chain not applicable": {
			raw:    map[string]*int{"5-SupplyChain": intp(1)},
			reason: "question does not apply to the supply chain",
		},
		"value not an option": {
			raw:    map[string]*int{"2-Business": intp(1)},
			reason: "value 1 is not an answer option",
		},
		"negative value": {
			raw:    map[string]*int{"1-Business": intp(-2)},
			reason: "value -2 is not an answer option",
		},
		"same key twice": {
			raw:    map[string]*int{"1-Business": intp(1), "01-Business": intp(2)},
			reason: "answered more than once",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCollector(c).Collect(tc.raw)
			var integrity *DataIntegrityError
			require.True(t, errors.As(err, &integrity), "got %v", err)
			assert.Equal(t, tc.reason, integrity.Reason)
		})
	}
}

func TestCollector_UnansweredAlwaysAccepted(t *testing.T) {
	c := testCatalog(t)

	// explicit 0 is accepted even when 0 is the "unanswered" value rather than a listed option
	answers, err := NewCollector(c).CollectStructured([]SubmittedAnswer{
		{Key: AnswerKey{ReferenceID: 2, Scope: Business}, Value: intp(0)},
	})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].Answered)
	assert.Zero(t, answers[0].Value)
}
