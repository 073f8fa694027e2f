// Package countryindex holds the per-country, per-issue risk index used by the
// geographic module.
package countryindex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

// Entry is one index row.
type Entry struct {
	CountryCode string  `json:"country_code"`
	Issue       string  `json:"issue"`
	RiskIndex   float64 `json:"risk_index"`
}

// Index is read-only after construction and safe for concurrent use.
type Index struct {
	entries   []Entry
	byCountry map[string][]int
}

// NormalizeCountry upper-cases and trims an ISO-3 code.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// New validates entries and builds an index ordered by country then issue.
func New(entries []Entry) (*Index, error) {
	idx := &Index{
		entries:   make([]Entry, 0, len(entries)),
		byCountry: make(map[string][]int),
	}

	seen := make(map[[2]string]bool, len(entries))
	for _, e := range entries {
		e.CountryCode = NormalizeCountry(e.CountryCode)
		e.Issue = strings.Join(strings.Fields(e.Issue), " ")
		if e.CountryCode == "" {
			return nil, fmt.Errorf("entry for issue %q has no country code", e.Issue)
		}
		if e.Issue == "" {
			return nil, fmt.Errorf("entry for country %s has no issue", e.CountryCode)
		}
		key := [2]string{e.CountryCode, catalog.IssueKey(e.Issue)}
		if seen[key] {
			return nil, fmt.Errorf("duplicate entry for %s / %s", e.CountryCode, e.Issue)
		}
		seen[key] = true
		idx.entries = append(idx.entries, e)
	}

	sort.Slice(idx.entries, func(i, j int) bool {
		a, b := idx.entries[i], idx.entries[j]
		if a.CountryCode != b.CountryCode {
			return a.CountryCode < b.CountryCode
		}
		return a.Issue < b.Issue
	})
	for i, e := range idx.entries {
		idx.byCountry[e.CountryCode] = append(idx.byCountry[e.CountryCode], i)
	}
	return idx, nil
}

// Empty returns an index with no entries.
func Empty() *Index {
	return &Index{byCountry: map[string][]int{}}
}

// Entries returns a copy of every entry.
func (x *Index) Entries() []Entry {
	return append([]Entry(nil), x.entries...)
}

// ForCountry returns the entries of one country, ordered by issue.
func (x *Index) ForCountry(code string) []Entry {
	positions := x.byCountry[NormalizeCountry(code)]
	out := make([]Entry, len(positions))
	for i, p := range positions {
		out[i] = x.entries[p]
	}
	return out
}

// HasCountry reports whether the index has any entry for code.
func (x *Index) HasCountry(code string) bool {
	return len(x.byCountry[NormalizeCountry(code)]) > 0
}

// Countries returns the sorted country codes present in the index.
func (x *Index) Countries() []string {
	out := make([]string, 0, len(x.byCountry))
	for c := range x.byCountry {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Issues returns the sorted distinct issue names.
func (x *Index) Issues() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range x.entries {
		if !seen[e.Issue] {
			seen[e.Issue] = true
			out = append(out, e.Issue)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}
