package scoring

import (
	"fmt"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
)

// DataIntegrityError reports an answer that does not resolve against the catalog.
type DataIntegrityError struct {
	Key         string
	ReferenceID int
	Scope       Scope
	Reason      string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("answer %q: %s", e.Key, e.Reason)
}

// InsufficientDataError reports that a report needs a category, scope or selection
// that has no data. It is distinct from a score of zero.
type InsufficientDataError struct {
	Category catalog.Category
	Scope    Scope
	Reason   string
}

func (e *InsufficientDataError) Error() string {
	switch {
	case e.Category.Valid() && e.Scope != 0:
		return fmt.Sprintf("insufficient data for category %s in scope %s", e.Category.Label(), e.Scope.Label())
	case e.Category.Valid():
		return fmt.Sprintf("insufficient data for category %s", e.Category.Label())
	case e.Scope != 0:
		return fmt.Sprintf("insufficient data for scope %s", e.Scope.Label())
	}
	return "insufficient data: " + e.Reason
}

func insufficientCategory(cat catalog.Category) error {
	return &InsufficientDataError{Category: cat}
}
