package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus records how a questionnaire submission ended.
type SubmissionStatus string

const (
	SubmissionCompleted        SubmissionStatus = "completed"
	SubmissionInsufficientData SubmissionStatus = "insufficient_data"
	SubmissionRejected         SubmissionStatus = "rejected"
)

// Submission is one submitted questionnaire and the report it produced.
// Report is empty unless Status is completed; Reason explains the other statuses.
type Submission struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	UserID               *uuid.UUID       `json:"user_id,omitempty" db:"user_id"`
	Kind                 string           `json:"kind" db:"kind"`
	Answers              map[string]*int  `json:"answers" db:"answers"`
	BusinessCountries    []string         `json:"business_countries" db:"business_countries"`
	SupplyChainCountries []string         `json:"supply_chain_countries" db:"supply_chain_countries"`
	Status               SubmissionStatus `json:"status" db:"status"`
	Reason               string           `json:"reason,omitempty" db:"reason"`
	Report               json.RawMessage  `json:"report,omitempty" db:"report"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
}

// SubmissionSummary is the listing view of a submission, without answers or report.
type SubmissionSummary struct {
	ID        uuid.UUID        `json:"id"`
	Kind      string           `json:"kind"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// Summary returns the listing view of s.
func (s *Submission) Summary() SubmissionSummary {
	return SubmissionSummary{ID: s.ID, Kind: s.Kind, Status: s.Status, CreatedAt: s.CreatedAt}
}
