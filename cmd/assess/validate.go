package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamescw/unicef-assessment-tool/internal/reference"
	"github.com/jamescw/unicef-assessment-tool/internal/services"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the configured catalog and country index and print their sizes",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ref, err := reference.Load(cmd.Context(), reference.OptionsFromConfig(cfg))
	if err != nil {
		appLog.Error("Reference data is invalid", err, "catalog", cfg.CatalogPath, "country_index", cfg.CountryIndexPath)
		return err
	}

	summary := services.SummarizeCatalog(ref.Catalog)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Catalog:\t%s\n", cfg.CatalogPath)
	_, _ = fmt.Fprintf(w, "Questions:\t%d\n", summary.Questions)
	for _, cat := range ref.Catalog.Categories() {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", cat, summary.ByCategory[cat])
	}
	_, _ = fmt.Fprintf(w, "Issues:\t%d\n", len(summary.Issues))
	_, _ = fmt.Fprintf(w, "Country index:\t%s\n", cfg.CountryIndexPath)
	_, _ = fmt.Fprintf(w, "Index entries:\t%d\n", ref.Index.Len())
	_, _ = fmt.Fprintf(w, "Countries:\t%d\n", len(ref.Index.Countries()))
	return w.Flush()
}
