package types

// ConsoleInterface defines the interface for terminal output.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	Progress(items []string) ProgressHandle
	ProgressWithTotal(total int) ProgressHandle

	CreateTable() TableInterface
	DisplayKPIPanel(title string, cards []KPICard)
	DisplaySeriesBars(title string, series []BarSeries)
	DisplayHeatmap(title string, grid HeatmapGrid)
}

// StatusHandle updates a transient status message.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// ProgressHandle updates a progress bar.
type ProgressHandle interface {
	Increment()
	Stop()
}

// TableInterface defines the interface for building and rendering tables.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// KPICard is one headline metric rendered as a row of the KPI panel.
type KPICard struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// Bar is a label/value pair for console bar rendering.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarSeries is a named run of bars, one block per series.
type BarSeries struct {
	Name string `json:"name"`
	Bars []Bar  `json:"bars"`
}

// HeatmapGrid carries a color-encoded matrix for console display.
// Values[y][x] maps to (XLabels[x], YLabels[y]); NaN marks an empty cell.
type HeatmapGrid struct {
	XLabels []string    `json:"x_labels"`
	YLabels []string    `json:"y_labels"`
	Values  [][]float64 `json:"values"`
	Metric  string      `json:"metric"`
}
