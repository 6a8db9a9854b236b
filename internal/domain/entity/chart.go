package entity

// ChartKind identifies the renderer-agnostic chart family.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartHeatmap ChartKind = "heatmap"
)

// Point is a single (label, value) observation in a series. X carries a
// numeric position for renderers that need one; Label is what the user
// sees on the axis.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Series is a named, ordered sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// HeatmapCells is a dense X x Y matrix of metric values with axis labels.
// Values[y][x] corresponds to (XLabels[x], YLabels[y]); NaN marks an
// empty cell.
type HeatmapCells struct {
	XLabels []string    `json:"x_labels"`
	YLabels []string    `json:"y_labels"`
	Values  [][]float64 `json:"values"`
	Metric  string      `json:"metric"`
}

// ChartSpec describes a chart independently of any rendering library.
// Series is populated for line/bar charts, Cells for heatmaps.
type ChartSpec struct {
	Kind   ChartKind    `json:"kind"`
	Title  string       `json:"title"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Series []Series     `json:"series,omitempty"`
	Cells  HeatmapCells `json:"cells,omitempty"`
}

// KPISet holds the headline indicators for a (possibly filtered) dataset.
// A KPISet computed over an empty dataset is all zeroes, never an error.
type KPISet struct {
	TotalCases         int     `json:"total_cases"`
	AvgVaccinationRate float64 `json:"avg_vaccination_rate"`
	AvgResourceLoad    float64 `json:"avg_resource_load"`
	PeakSeasonCases    int     `json:"peak_season_cases"`
	PeakSeason         string  `json:"peak_season,omitempty"`
	Records            int     `json:"records"`
}
