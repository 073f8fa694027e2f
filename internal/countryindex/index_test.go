package countryindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeCSV(t, `COUNTRY_ISO_3,INDICATOR_ISSUE,ISSUE_INDEX_SCORE
ind,Child Labour,7.5
USA,Child Labour,2.25
USA,Forced Labour,3
IND,Forced Labour,6.1
`)

	idx, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{"IND", "USA"}, idx.Countries())
	assert.Equal(t, []string{"Child Labour", "Forced Labour"}, idx.Issues())

	ind := idx.ForCountry(" ind ")
	require.Len(t, ind, 2)
	assert.Equal(t, Entry{CountryCode: "IND", Issue: "Child Labour", RiskIndex: 7.5}, ind[0])
	assert.True(t, idx.HasCountry("usa"))
	assert.False(t, idx.HasCountry("FRA"))
	assert.Empty(t, idx.ForCountry("FRA"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeCSV(t, "COUNTRY,ISSUE\nUSA,Water\n"), LoadOptions{})
	assert.ErrorContains(t, err, "missing required columns")

	_, err = Load(writeCSV(t, "COUNTRY_ISO_3,INDICATOR_ISSUE,ISSUE_INDEX_SCORE\nUSA,Water,high\n"), LoadOptions{})
	assert.ErrorContains(t, err, "row 2")

	_, err = Load(writeCSV(t, "COUNTRY_ISO_3,INDICATOR_ISSUE,ISSUE_INDEX_SCORE\nUSA,Water,1\nusa,water,2\n"), LoadOptions{})
	assert.ErrorContains(t, err, "duplicate entry")

	_, err = Load(writeCSV(t, "COUNTRY_ISO_3,INDICATOR_ISSUE,ISSUE_INDEX_SCORE\n,Water,1\n"), LoadOptions{})
	assert.ErrorContains(t, err, "no country code")
}

func TestEmpty(t *testing.T) {
	idx := Empty()
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Countries())
	assert.Empty(t, idx.ForCountry("USA"))
}
