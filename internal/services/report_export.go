package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
)

// ExportFormat specifies the format for exporting reports
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts json and csv; blank means json.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Export is an exported report with the file name it should be saved under.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportSubmission exports the stored report of one of userID's submissions.
func (s *assessmentService) ExportSubmission(ctx context.Context, id, userID uuid.UUID, format ExportFormat) (*Export, error) {
	sub, err := s.GetSubmission(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubmissionCompleted || len(sub.Report) == 0 {
		return nil, errors.InvalidInput("submission has no report", nil).WithDetails(string(sub.Status))
	}

	var report scoring.Report
	if err := json.Unmarshal(sub.Report, &report); err != nil {
		s.logger.Error("Stored report is unreadable", err, "submission_id", id.String())
		return nil, errors.InternalError("failed to decode stored report", err).WithOperation("ExportSubmission")
	}

	data, err := ExportReport(&report, format)
	if err != nil {
		return nil, errors.InternalError("failed to export report", err).WithOperation("ExportSubmission")
	}

	filename := fmt.Sprintf("assessment_%s_%s.%s", report.Kind, sub.CreatedAt.UTC().Format("2006-01-02_15-04-05"), format)
	contentType := "application/json"
	if format == FormatCSV {
		contentType = "text/csv"
	}
	return &Export{Filename: filename, ContentType: contentType, Data: data}, nil
}

// ExportReport renders a report as indented JSON or as one CSV table.
func ExportReport(report *scoring.Report, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportToJSON(report)
	case FormatCSV:
		return exportToCSV(report)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportToJSON(report *scoring.Report) ([]byte, error) {
	exportData := map[string]interface{}{
		"report":      report,
		"exported_at": time.Now().UTC(),
	}
	return json.MarshalIndent(exportData, "", "  ")
}

// exportToCSV flattens every table of the report into rows headed by the table they
// came from. A geographic export holds two blocks: the map rows, then the priority rows.
func exportToCSV(report *scoring.Report) ([]byte, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	var rows [][]string
	switch {
	case report.Full != nil:
		rows = append(rows, resultHeader)
		for _, t := range []scoring.ScopeTable{report.Full.Business, report.Full.SupplyChain, report.Full.Combined} {
			for _, r := range t.Rows {
				rows = append(rows, resultRecord(t.Scope.Label(), r))
			}
		}

	case report.Materiality != nil:
		rows = append(rows, []string{"table", "issue", "score", "materiality"})
		for _, t := range []scoring.MaterialityTable{report.Materiality.Business, report.Materiality.SupplyChain, report.Materiality.Combined} {
			for _, r := range t.Rows {
				rows = append(rows, []string{t.Scope.Label(), r.Issue, formatScore(r.Score), r.Materiality})
			}
		}

	case report.Category != nil:
		rows = append(rows, []string{"table", "issue", "score", "rating"})
		for _, r := range report.Category.Rows {
			rows = append(rows, []string{report.Category.Category.Label(), r.Issue, formatScore(r.Score), r.Rating})
		}

	case report.Geographic != nil:
		rows = append(rows, []string{"country_code", "issue", "risk_index", "scopes"})
		for _, m := range report.Geographic.Matches {
			scopes := make([]string, len(m.Scopes))
			for i, sc := range m.Scopes {
				scopes[i] = sc.Label()
			}
			rows = append(rows, []string{m.CountryCode, m.Issue, formatScore(m.RiskIndex), strings.Join(scopes, "; ")})
		}
		// The priority table follows the map rows after an empty line.
		rows = append(rows, []string{}, resultHeader)
		for _, r := range report.Geographic.Priorities {
			rows = append(rows, resultRecord(r.Scope.Label(), r))
		}

	default:
		return nil, fmt.Errorf("report %q has no tables", report.Kind)
	}

	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return []byte(output.String()), nil
}

var resultHeader = []string{
	"table", "issue", "score", "materiality", "mitigation_score",
	"combined_score", "combined_rating", "priority_score", "priority",
}

func resultRecord(table string, r scoring.IssueResult) []string {
	return []string{
		table,
		r.Issue,
		formatScore(r.Score),
		r.Materiality,
		formatScore(r.MitigationScore),
		formatScore(r.CombinedScore),
		r.CombinedRating,
		formatScore(r.PriorityScore),
		r.Priority,
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
