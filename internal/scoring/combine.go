package scoring

import "sort"

// combineResults builds the Combined table from the two scope tables. Numbers are
// averaged and every band is derived again from the averaged numbers.
func (e *Engine) combineResults(business, supply []IssueResult) []IssueResult {
	b := make(map[string]IssueResult, len(business))
	for _, r := range business {
		b[r.Issue] = r
	}
	s := make(map[string]IssueResult, len(supply))
	for _, r := range supply {
		s[r.Issue] = r
	}

	var out []IssueResult
	for _, issue := range unionIssues(b, s) {
		br, inB := b[issue]
		sr, inS := s[issue]
		if !(inB && inS) && e.opts.CombinePolicy == CombineSkipMissing {
			continue
		}

		score := mean(br.Score, sr.Score)
		combined := mean(br.CombinedScore, sr.CombinedScore)
		priority := mean(br.PriorityScore, sr.PriorityScore)
		out = append(out, IssueResult{
			Issue:           issue,
			Scope:           Combined,
			Score:           score,
			Materiality:     MaterialityBand(score),
			MitigationScore: mean(br.MitigationScore, sr.MitigationScore),
			CombinedScore:   combined,
			CombinedRating:  RatingBand(combined),
			PriorityScore:   priority,
			Priority:        PriorityBand(priority),
			Highlight:       Highlight(score),
		})
	}
	return out
}

func (e *Engine) combineMateriality(business, supply []MaterialityRow) []MaterialityRow {
	b := make(map[string]MaterialityRow, len(business))
	for _, r := range business {
		b[r.Issue] = r
	}
	s := make(map[string]MaterialityRow, len(supply))
	for _, r := range supply {
		s[r.Issue] = r
	}

	var out []MaterialityRow
	for _, issue := range unionIssues(b, s) {
		br, inB := b[issue]
		sr, inS := s[issue]
		if !(inB && inS) && e.opts.CombinePolicy == CombineSkipMissing {
			continue
		}
		out = append(out, materialityRow(issue, Combined, mean(br.Score, sr.Score)))
	}
	return out
}

func unionIssues[T any](a, b map[string]T) []string {
	issues := make([]string, 0, len(a)+len(b))
	for k := range a {
		issues = append(issues, k)
	}
	for k := range b {
		if _, dup := a[k]; !dup {
			issues = append(issues, k)
		}
	}
	sort.Strings(issues)
	return issues
}
