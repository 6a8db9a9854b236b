package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

// Console is an implementation of ConsoleInterface over pterm.
type Console struct{}

// NewConsole creates a new Console.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo logs an informational message.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning logs a warning message.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError logs an error message.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess logs a success message.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Predefined colors for consistent use.
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed     = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusHandle is an implementation of StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status creates a status spinner with the given message.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle is an implementation of ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// Progress creates a progress bar for the given items.
func (c *Console) Progress(items []string) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.WithTotal(len(items)).Start()
	return &progressHandle{bar: bar}
}

func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Processing surveillance data").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table is an implementation of TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable creates a new table.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adds a column to the table.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renders the table as a string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayKPIPanel renders the headline indicator cards in a boxed table.
func (c *Console) DisplayKPIPanel(title string, cards []types.KPICard) {
	tableData := pterm.TableData{
		{"Metric", "Value", "Unit", "Description"},
	}
	for _, card := range cards {
		tableData = append(tableData, []string{
			card.Metric,
			BrightCyan(card.Value),
			card.Unit,
			card.Description,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Println("\n" + panel)
}

// DisplaySeriesBars renders each series as a block of horizontal bars,
// scaled against the maximum value across all series.
func (c *Console) DisplaySeriesBars(title string, series []types.BarSeries) {
	maxValue := 0.0
	for _, s := range series {
		for _, b := range s.Bars {
			if b.Value > maxValue {
				maxValue = b.Value
			}
		}
	}

	if maxValue == 0 {
		pterm.Warning.Println("All values are zero for this selection")
		return
	}

	tableData := pterm.TableData{
		{"Series", "Label", "Value", ""},
	}
	for _, s := range series {
		for i, b := range s.Bars {
			barLength := int((b.Value / maxValue) * 40)
			bar := strings.Repeat("█", barLength)

			name := ""
			if i == 0 {
				name = s.Name
			}
			tableData = append(tableData, []string{
				name,
				b.Label,
				fmt.Sprintf("%.2f", b.Value),
				pterm.FgBlue.Sprint(bar),
			})
		}
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Println("\n" + panel)
}

// DisplayHeatmap renders a color-encoded matrix: low values green,
// mid-range yellow, high values red. Empty cells print as a dash.
func (c *Console) DisplayHeatmap(title string, grid types.HeatmapGrid) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		pterm.Warning.Println("No data for this selection")
		return
	}

	header := append([]string{grid.Metric}, grid.XLabels...)
	tableData := pterm.TableData{header}
	for y, yLabel := range grid.YLabels {
		row := []string{yLabel}
		for x := range grid.XLabels {
			v := grid.Values[y][x]
			if math.IsNaN(v) {
				row = append(row, "-")
				continue
			}
			row = append(row, heatColor(v, lo, hi)(fmt.Sprintf("%.2f", v)))
		}
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Println("\n" + panel)
}

// heatColor picks the color band for a value within [lo, hi].
func heatColor(v, lo, hi float64) func(a ...interface{}) string {
	if hi <= lo {
		return BrightYellow
	}
	switch t := (v - lo) / (hi - lo); {
	case t < 1.0/3:
		return BrightGreen
	case t < 2.0/3:
		return BrightYellow
	default:
		return BrightRed
	}
}
