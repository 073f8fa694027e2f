package main

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/scoring"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a submission file",
	Long: `Score a questionnaire submission offline and print the report.

The answers file holds the same body the HTTP API accepts:

  {"answers": {"12-Business": 2, "13-SupplyChain": null},
   "business_countries": ["USA"], "supply_chain_countries": ["CHN"]}

A bare answers object is accepted too.

Examples:
  # Full report as JSON
  assess score --answers answers.json

  # Geographic report for two business countries, as tables
  assess score --answers answers.json --kind geographic --business USA,IND --format table

  # Full report ordered by priority, highest first
  assess score --answers answers.json --sort priority_score --desc

  # Materiality tables as CSV
  assess score --answers answers.json --kind materiality --format csv > materiality.csv`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("answers", "", "path to the submission JSON file (- for stdin)")
	f.String("kind", "full", "report kind: full, materiality, due_diligence, mitigation or geographic")
	f.String("business", "", "comma-separated business country codes (overrides the file)")
	f.String("supply", "", "comma-separated supply chain country codes (overrides the file)")
	f.String("sort", "", "sort column: score, combined_score or priority_score")
	f.Bool("desc", false, "sort descending")
	f.String("format", "json", "output format: json, csv or table")
	_ = scoreCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(scoreCmd)
}

// submissionFile is the answers file layout.
type submissionFile struct {
	Answers              map[string]*int `json:"answers"`
	BusinessCountries    []string        `json:"business_countries"`
	SupplyChainCountries []string        `json:"supply_chain_countries"`
}

// readSubmission decodes the wrapped layout, falling back to a bare answers object.
// Blank answers may be null or "".
func readSubmission(r io.Reader) (*submissionFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "read answers")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, eris.Wrap(err, "decode answers")
	}

	var wire struct {
		Answers              map[string]scoring.AnswerValue `json:"answers"`
		BusinessCountries    []string                       `json:"business_countries"`
		SupplyChainCountries []string                       `json:"supply_chain_countries"`
	}
	if _, wrapped := probe["answers"]; wrapped {
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, eris.Wrap(err, "decode answers")
		}
	} else if err := json.Unmarshal(raw, &wire.Answers); err != nil {
		return nil, eris.Wrap(err, "decode answers")
	}

	return &submissionFile{
		Answers:              scoring.AnswerValues(wire.Answers),
		BusinessCountries:    wire.BusinessCountries,
		SupplyChainCountries: wire.SupplyChainCountries,
	}, nil
}

func splitCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// scoreOptions are the parsed score flags.
type scoreOptions struct {
	Kind       scoring.ReportKind
	SortBy     scoring.SortColumn
	Descending bool
	Business   []string
	Supply     []string
}

// scoreSubmission runs the collector and report builder over sub.
func scoreSubmission(ref *reference.Reference, engine *scoring.Engine, sub *submissionFile, opts scoreOptions) (*scoring.Report, error) {
	answers, err := scoring.NewCollector(ref.Catalog).Collect(sub.Answers)
	if err != nil {
		return nil, eris.Wrap(err, "collect answers")
	}

	countries := scoring.CountrySelection{
		Business:    sub.BusinessCountries,
		SupplyChain: sub.SupplyChainCountries,
	}
	if opts.Business != nil {
		countries.Business = opts.Business
	}
	if opts.Supply != nil {
		countries.SupplyChain = opts.Supply
	}

	report, err := scoring.NewBuilder(engine, ref.Index).Build(opts.Kind, answers, countries)
	if err != nil {
		return nil, eris.Wrap(err, "build report")
	}
	report.Sort(opts.SortBy, opts.Descending)
	return report, nil
}

func runScore(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	path, _ := f.GetString("answers")
	kindFlag, _ := f.GetString("kind")
	sortFlag, _ := f.GetString("sort")
	desc, _ := f.GetBool("desc")
	format, _ := f.GetString("format")
	business, _ := f.GetString("business")
	supply, _ := f.GetString("supply")

	switch format {
	case "json", "csv", "table":
	default:
		return eris.Errorf("unknown format %q (want json, csv or table)", format)
	}
	kind, err := scoring.ParseReportKind(kindFlag)
	if err != nil {
		return err
	}
	sortBy, err := scoring.ParseSortColumn(sortFlag)
	if err != nil {
		return err
	}
	policy, err := scoring.ParseCombinePolicy(cfg.CombinePolicy)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "open %s", path)
		}
		defer file.Close()
		in = file
	}
	sub, err := readSubmission(in)
	if err != nil {
		return err
	}

	ref, err := reference.Load(cmd.Context(), reference.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	opts := scoreOptions{Kind: kind, SortBy: sortBy, Descending: desc}
	if business != "" {
		opts.Business = splitCodes(business)
	}
	if supply != "" {
		opts.Supply = splitCodes(supply)
	}

	report, err := scoreSubmission(ref, scoring.NewEngine(scoring.EngineOptions{CombinePolicy: policy}), sub, opts)
	if err != nil {
		var insufficient *scoring.InsufficientDataError
		if stderrors.As(err, &insufficient) {
			appLog.Warn("Insufficient data for report", "kind", string(kind), "reason", insufficient.Error())
		}
		return err
	}

	appLog.Debug("Scored submission", "kind", string(kind), "answers", len(sub.Answers))

	out := cmd.OutOrStdout()
	switch format {
	case "table":
		formatReport(out, report)
		return nil
	case "csv":
		data, err := services.ExportReport(report, services.FormatCSV)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
