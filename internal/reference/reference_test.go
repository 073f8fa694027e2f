package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
)

const catalogCSV = `Reference,Assessment,Issue,Question number,Question,Information,Answer options,Supply chain
1,Materiality,Child Labour,1.1,Are children employed?,,"Yes = 0
No = 4",x
2,Due diligence,Child Labour,2.1,Is age verified?,,"No = 0
Yes = 3",
`

const indexCSV = `COUNTRY_ISO_3,INDICATOR_ISSUE,ISSUE_INDEX_SCORE
USA,Child Labour,1.5
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ref, err := Load(context.Background(), Options{
		CatalogPath:      write(t, dir, "catalog.csv", catalogCSV),
		CountryIndexPath: write(t, dir, "index.csv", indexCSV),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ref.Catalog.Len())
	assert.Equal(t, 1, ref.Index.Len())
}

func TestLoad_WithoutIndex(t *testing.T) {
	ref, err := Load(context.Background(), Options{
		CatalogPath: write(t, t.TempDir(), "catalog.csv", catalogCSV),
	})
	require.NoError(t, err)
	assert.Zero(t, ref.Index.Len())
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), Options{CatalogPath: filepath.Join(dir, "missing.xlsx")})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = Load(context.Background(), Options{
		CatalogPath:      write(t, dir, "catalog.csv", catalogCSV),
		CountryIndexPath: write(t, dir, "index.csv", "COUNTRY_ISO_3\nUSA\n"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "country risk index")
}
