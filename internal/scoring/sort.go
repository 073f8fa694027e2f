package scoring

import (
	"fmt"
	"sort"
)

// SortColumn names a numeric column of the scope tables.
type SortColumn string

const (
	SortByScore         SortColumn = "score"
	SortByCombinedScore SortColumn = "combined_score"
	SortByPriorityScore SortColumn = "priority_score"
)

// ParseSortColumn accepts the column names; blank means score.
func ParseSortColumn(s string) (SortColumn, error) {
	switch c := SortColumn(s); c {
	case "":
		return SortByScore, nil
	case SortByScore, SortByCombinedScore, SortByPriorityScore:
		return c, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

func (c SortColumn) value(r IssueResult) float64 {
	switch c {
	case SortByCombinedScore:
		return r.CombinedScore
	case SortByPriorityScore:
		return r.PriorityScore
	default:
		return r.Score
	}
}

// SortResults orders rows in place by col. Ties fall back to issue then scope so the
// order is deterministic.
func SortResults(rows []IssueResult, col SortColumn, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := col.value(rows[i]), col.value(rows[j])
		if vi != vj {
			if desc {
				return vi > vj
			}
			return vi < vj
		}
		if rows[i].Issue != rows[j].Issue {
			return rows[i].Issue < rows[j].Issue
		}
		return rows[i].Scope < rows[j].Scope
	})
}

// SortMaterialityRows orders rows in place by score.
func SortMaterialityRows(rows []MaterialityRow, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			if desc {
				return rows[i].Score > rows[j].Score
			}
			return rows[i].Score < rows[j].Score
		}
		return rows[i].Issue < rows[j].Issue
	})
}

// SortCategoryRows orders rows in place by score.
func SortCategoryRows(rows []CategoryRow, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			if desc {
				return rows[i].Score > rows[j].Score
			}
			return rows[i].Score < rows[j].Score
		}
		return rows[i].Issue < rows[j].Issue
	})
}
