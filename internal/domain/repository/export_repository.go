package repository

import (
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
)

// Report bundles everything a single dashboard pass produced, for export.
type Report struct {
	Criteria entity.FilterCriteria   `json:"criteria"`
	KPIs     entity.KPISet           `json:"kpis"`
	Views    []entity.AggregatedView `json:"views"`
	Caveats  entity.Caveats          `json:"caveats"`
}

// ExportRepository defines the interface for writing report files.
type ExportRepository interface {
	ExportToCSV(report Report, filename, outputDir string) (string, error)
	ExportToJSON(report Report, filename, outputDir string) (string, error)
	ExportToPDF(report Report, filename, outputDir string) (string, error)
	ExportToXLSX(report Report, filename, outputDir string) (string, error)

	// ExportChartToPNG renders a line or bar ChartSpec to a PNG image.
	ExportChartToPNG(spec entity.ChartSpec, filename, outputDir string) (string, error)
}
