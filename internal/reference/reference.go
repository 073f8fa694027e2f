// Package reference loads the static data every scoring request reads: the question
// catalog and the country risk index.
package reference

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jamescw/unicef-assessment-tool/internal/catalog"
	"github.com/jamescw/unicef-assessment-tool/internal/countryindex"
	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/pkg/config"
)

// Reference is constructed once at startup and passed by pointer to everything that
// scores. It is never mutated after Load returns.
type Reference struct {
	Catalog *catalog.Catalog
	Index   *countryindex.Index
}

// Options names the files to load.
type Options struct {
	CatalogPath       string
	CatalogSheet      string
	CatalogSkipRows   int
	CountryIndexPath  string // optional; blank leaves the index empty
	CountryIndexSheet string
}

// OptionsFromConfig maps application configuration onto load options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CatalogPath:       cfg.CatalogPath,
		CatalogSheet:      cfg.CatalogSheet,
		CatalogSkipRows:   cfg.CatalogSkipRows,
		CountryIndexPath:  cfg.CountryIndexPath,
		CountryIndexSheet: cfg.CountryIndexSheet,
	}
}

// Load reads the catalog and index concurrently. Any failure is a configuration error.
func Load(ctx context.Context, opts Options) (*Reference, error) {
	ref := &Reference{Index: countryindex.Empty()}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := catalog.Load(opts.CatalogPath, catalog.LoadOptions{
			Sheet:    opts.CatalogSheet,
			SkipRows: opts.CatalogSkipRows,
		})
		if err != nil {
			return apperrors.Configuration("failed to load question catalog", err).WithOperation("reference.Load")
		}
		ref.Catalog = c
		return nil
	})
	if opts.CountryIndexPath != "" {
		g.Go(func() error {
			idx, err := countryindex.Load(opts.CountryIndexPath, countryindex.LoadOptions{Sheet: opts.CountryIndexSheet})
			if err != nil {
				return apperrors.Configuration("failed to load country risk index", err).WithOperation("reference.Load")
			}
			ref.Index = idx
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ref, nil
}

// New wraps already-built reference data, mainly for tests and the CLI.
func New(c *catalog.Catalog, idx *countryindex.Index) *Reference {
	if idx == nil {
		idx = countryindex.Empty()
	}
	return &Reference{Catalog: c, Index: idx}
}
