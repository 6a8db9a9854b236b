package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/repository"
)

func sampleReport() repository.Report {
	return repository.Report{
		Criteria: entity.FilterCriteria{YearFrom: 2023, YearTo: 2024, Regions: []string{"Urban"}},
		KPIs: entity.KPISet{
			TotalCases:         160,
			AvgVaccinationRate: 0.4,
			AvgResourceLoad:    0.3,
			PeakSeasonCases:    100,
			PeakSeason:         entity.SeasonWinter,
			Records:            3,
		},
		Views: []entity.AggregatedView{{
			GroupBy: []string{entity.ColRegion, entity.ColSES},
			Metrics: []entity.Metric{{Field: entity.ColCases, Op: entity.OpSum}},
			Groups: []entity.Group{
				{Key: []string{"Urban", "High"}, Values: map[string]float64{"sum(cases)": 110}, SampleSize: 2},
				{Key: []string{"Urban", "Low"}, Values: map[string]float64{"sum(cases)": 50}, SampleSize: 1},
			},
		}},
		Caveats: entity.Caveats{
			Source:        []string{"Regional surveillance records."},
			CleaningRules: []string{"Blank SES values are filled with the dataset mode."},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	repo := NewExportRepository()
	dir := t.TempDir()

	path, err := repo.ExportToCSV(sampleReport(), "report", dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, ".csv", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Metric,Value,Unit")
	assert.Contains(t, content, "Total Cases,160,cases")
	assert.Contains(t, content, "sum(cases) by region x ses")
	assert.Contains(t, content, "Urban,High,110,2")
}

func TestExportToJSONRoundTrips(t *testing.T) {
	repo := NewExportRepository()
	report := sampleReport()

	path, err := repo.ExportToJSON(report, "report", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded repository.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.KPIs, decoded.KPIs)
	assert.Equal(t, report.Criteria, decoded.Criteria)
	require.Len(t, decoded.Views, 1)
	assert.Equal(t, report.Views[0].Groups, decoded.Views[0].Groups)
}

func TestExportToPDF(t *testing.T) {
	repo := NewExportRepository()

	path, err := repo.ExportToPDF(sampleReport(), "report", t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportToXLSX(t *testing.T) {
	repo := NewExportRepository()

	path, err := repo.ExportToXLSX(sampleReport(), "report", t.TempDir())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "KPIs")
	assert.Contains(t, sheets, "Caveats")
	require.Len(t, sheets, 3)

	total, err := f.GetCellValue("KPIs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "160", total)

	viewSheet := sheets[1]
	region, err := f.GetCellValue(viewSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Urban", region)
}

func TestExportCreatesOutputDir(t *testing.T) {
	repo := NewExportRepository()
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	path, err := repo.ExportToCSV(sampleReport(), "report", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestExportChartToPNGLine(t *testing.T) {
	repo := NewExportRepository()

	spec := entity.ChartSpec{
		Kind:   entity.ChartLine,
		Title:  "Monthly New Cases by Region",
		XLabel: "Period",
		YLabel: "Cases",
		Series: []entity.Series{{
			Name: "Urban",
			Points: []entity.Point{
				{Label: "2023-01", X: 0, Y: 10},
				{Label: "2023-02", X: 1, Y: 20},
			},
		}},
	}

	path, err := repo.ExportChartToPNG(spec, "timeseries", t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportChartToPNGSinglePointSeries(t *testing.T) {
	repo := NewExportRepository()

	spec := entity.ChartSpec{
		Kind:   entity.ChartLine,
		Title:  "Single Period",
		Series: []entity.Series{{Name: "Rural", Points: []entity.Point{{Label: "2023-01", X: 0, Y: 5}}}},
	}

	_, err := repo.ExportChartToPNG(spec, "single", t.TempDir())
	require.NoError(t, err)
}

func TestExportChartToPNGBar(t *testing.T) {
	repo := NewExportRepository()

	spec := entity.ChartSpec{
		Kind:  entity.ChartBar,
		Title: "Cases by Vaccine Type",
		Series: []entity.Series{
			{Name: "mRNA", Points: []entity.Point{{Label: "Adult", X: 0, Y: 12}}},
			{Name: "Vector", Points: []entity.Point{{Label: "Adult", X: 0, Y: 7}}},
		},
	}

	path, err := repo.ExportChartToPNG(spec, "comparison", t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportChartToPNGHeatmapUnsupported(t *testing.T) {
	repo := NewExportRepository()

	spec := entity.ChartSpec{Kind: entity.ChartHeatmap, Title: "Cases Heatmap"}

	_, err := repo.ExportChartToPNG(spec, "heatmap", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be rendered")
}

func TestExportChartToPNGEmptySpec(t *testing.T) {
	repo := NewExportRepository()

	spec := entity.ChartSpec{Kind: entity.ChartLine, Title: "Empty"}

	_, err := repo.ExportChartToPNG(spec, "empty", t.TempDir())
	require.Error(t, err)
}
