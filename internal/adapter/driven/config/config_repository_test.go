package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFileTOML(t *testing.T) {
	content := `
data_file = "surveillance.csv"
year_from = 2023
year_to = 2024
regions = ["Urban", "Rural"]
indicator = "cases"
report_type = ["csv", "pdf"]
charts = true
`
	repo := NewConfigRepository()

	cfg, err := repo.LoadConfigFile(writeConfig(t, "config.toml", content))
	require.NoError(t, err)
	assert.Equal(t, "surveillance.csv", cfg.DataFile)
	assert.Equal(t, 2023, cfg.YearFrom)
	assert.Equal(t, 2024, cfg.YearTo)
	assert.Equal(t, []string{"Urban", "Rural"}, cfg.Regions)
	assert.Equal(t, "cases", cfg.Indicator)
	assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
	assert.True(t, cfg.Charts)
}

func TestLoadConfigFileYAML(t *testing.T) {
	content := `
data_file: surveillance.csv
year_from: 2023
ses_levels:
  - High
  - Low
group_by:
  - region
  - ses
`
	repo := NewConfigRepository()

	cfg, err := repo.LoadConfigFile(writeConfig(t, "config.yaml", content))
	require.NoError(t, err)
	assert.Equal(t, "surveillance.csv", cfg.DataFile)
	assert.Equal(t, 2023, cfg.YearFrom)
	assert.Equal(t, []string{"High", "Low"}, cfg.SESLevels)
	assert.Equal(t, []string{"region", "ses"}, cfg.GroupBy)
}

func TestLoadConfigFileJSON(t *testing.T) {
	content := `{
  "data_file": "surveillance.csv",
  "vaccine_types": ["mRNA", "Vector"],
  "report_name": "monthly",
  "dir": "/tmp/reports"
}`
	repo := NewConfigRepository()

	cfg, err := repo.LoadConfigFile(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	assert.Equal(t, "surveillance.csv", cfg.DataFile)
	assert.Equal(t, []string{"mRNA", "Vector"}, cfg.VaccineTypes)
	assert.Equal(t, "monthly", cfg.ReportName)
	assert.Equal(t, "/tmp/reports", cfg.Dir)
}

func TestLoadConfigFileUnsupportedExtension(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(writeConfig(t, "config.ini", "data_file=x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadConfigFileMissing(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadConfigFileDirectory(t *testing.T) {
	repo := NewConfigRepository()

	dir := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.Mkdir(dir, 0755))

	_, err := repo.LoadConfigFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestLoadConfigFileMalformed(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(writeConfig(t, "bad.json", "{not json"))
	require.Error(t, err)
}
