package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validHeader = "year,month,region,ses,cases,vaccination_rate,vaccine_type,hospital_capacity,hospitalization_requirement,age\n"

func TestLoadDatasetMissingFile(t *testing.T) {
	repo := NewDatasetRepository()

	_, err := repo.LoadDataset(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataUnavailable))
}

func TestLoadDatasetDirectory(t *testing.T) {
	repo := NewDatasetRepository()

	_, err := repo.LoadDataset(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataUnavailable))
}

func TestLoadDatasetMissingColumns(t *testing.T) {
	path := writeCSV(t, "partial.csv", "year,month,region\n2023,1,Urban\n")
	repo := NewDatasetRepository()

	_, err := repo.LoadDataset(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataUnavailable))
	assert.Contains(t, err.Error(), entity.ColCases)
}

func TestLoadDataset(t *testing.T) {
	content := validHeader +
		"2023,1,Urban,High,50,0.3,mRNA,200,40,30\n" +
		",,,,,,,,,\n" + // blank rows are skipped
		"2024,7,Rural,,10,,None,100,5,70\n"
	path := writeCSV(t, "data.csv", content)
	repo := NewDatasetRepository()

	raw, err := repo.LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, path, raw.Path)
	require.Len(t, raw.Records, 2)

	first := raw.Records[0]
	assert.Equal(t, "2023", first.Year)
	assert.Equal(t, "Urban", first.Region)
	assert.Equal(t, "0.3", first.VaccinationRate)
	assert.Equal(t, "200", first.HospitalCap)

	second := raw.Records[1]
	assert.Equal(t, "", second.SES, "missing values stay blank at load time")
	assert.Equal(t, "", second.VaccinationRate)
}

func TestLoadDatasetHeaderByNameNotPosition(t *testing.T) {
	content := "age,region,month,year,cases,SES,vaccination_rate,vaccine_type,hospital_capacity,hospitalization_requirement\n" +
		"30,Urban,1,2023,50,High,0.3,mRNA,200,40\n"
	path := writeCSV(t, "shuffled.csv", content)
	repo := NewDatasetRepository()

	raw, err := repo.LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, raw.Records, 1)
	assert.Equal(t, "2023", raw.Records[0].Year)
	assert.Equal(t, "High", raw.Records[0].SES, "header match is case-insensitive")
	assert.Equal(t, "30", raw.Records[0].Age)
}

func TestLoadDatasetStripsBOM(t *testing.T) {
	content := "\xEF\xBB\xBF" + validHeader + "2023,1,Urban,High,50,0.3,mRNA,200,40,30\n"
	path := writeCSV(t, "bom.csv", content)
	repo := NewDatasetRepository()

	raw, err := repo.LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, raw.Records, 1)
	assert.Equal(t, "2023", raw.Records[0].Year)
}

func TestLoadDatasetShortRows(t *testing.T) {
	content := validHeader + "2023,1,Urban\n"
	path := writeCSV(t, "short.csv", content)
	repo := NewDatasetRepository()

	raw, err := repo.LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, raw.Records, 1)
	assert.Equal(t, "Urban", raw.Records[0].Region)
	assert.Equal(t, "", raw.Records[0].Cases, "absent trailing cells read as blank")
}

func TestGetDataCaveatsStable(t *testing.T) {
	repo := NewDatasetRepository()

	first := repo.GetDataCaveats()
	second := repo.GetDataCaveats()

	assert.Equal(t, first, second)
	assert.Len(t, first.Fields, len(entity.RequiredColumns))
	assert.NotEmpty(t, first.CleaningRules)
	assert.NotEmpty(t, first.Limitations)
}
