package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"
)

// ExportRepositoryImpl implements the ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository creates a new implementation of ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportToCSV(report repository.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Metric", "Value", "Unit"})
	for _, row := range kpiRows(report.KPIs) {
		writer.Write(row)
	}

	for _, view := range report.Views {
		writer.Write(nil)
		writer.Write([]string{viewTitle(view)})

		header := append([]string{}, view.GroupBy...)
		for _, m := range view.Metrics {
			header = append(header, m.Name())
		}
		header = append(header, "sample_size")
		writer.Write(header)

		for _, g := range view.Groups {
			record := append([]string{}, g.Key...)
			for _, m := range view.Metrics {
				record = append(record, formatValue(g.Values[m.Name()]))
			}
			record = append(record, strconv.Itoa(g.SampleSize))
			writer.Write(record)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(report repository.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(report repository.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if content == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, title)
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Public Health Surveillance Report"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr("  Filters: "+criteriaSummary(report.Criteria)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	var kpiText strings.Builder
	for _, row := range kpiRows(report.KPIs) {
		kpiText.WriteString(fmt.Sprintf("%s: %s %s\n", row[0], row[1], row[2]))
	}
	drawSection("Key Indicators", strings.TrimSpace(kpiText.String()))

	for _, view := range report.Views {
		var body strings.Builder
		for _, g := range view.Groups {
			body.WriteString(strings.Join(g.Key, " / "))
			for _, m := range view.Metrics {
				body.WriteString(fmt.Sprintf("  %s=%s", m.Name(), formatValue(g.Values[m.Name()])))
			}
			body.WriteString(fmt.Sprintf("  (n=%d)\n", g.SampleSize))
		}
		drawSection(viewTitle(view), strings.TrimSpace(body.String()))
	}

	drawSection("Dataset Caveats", caveatsText(report.Caveats))

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by Health Surveillance Dashboard | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToXLSX(report repository.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	kpiSheet := "KPIs"
	f.SetSheetName(f.GetSheetName(0), kpiSheet)
	f.SetSheetRow(kpiSheet, "A1", &[]interface{}{"Metric", "Value", "Unit"})
	for i, row := range kpiRows(report.KPIs) {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(kpiSheet, cell, &[]interface{}{row[0], row[1], row[2]})
	}

	for vi, view := range report.Views {
		sheet := fmt.Sprintf("View %d - %s", vi+1, strings.Join(view.GroupBy, " x "))
		if len(sheet) > 31 {
			// Excel sheet names are capped at 31 characters.
			sheet = sheet[:31]
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("error creating sheet %q: %w", sheet, err)
		}

		header := []interface{}{}
		for _, dim := range view.GroupBy {
			header = append(header, dim)
		}
		for _, m := range view.Metrics {
			header = append(header, m.Name())
		}
		header = append(header, "sample_size")
		f.SetSheetRow(sheet, "A1", &header)

		for gi, g := range view.Groups {
			row := []interface{}{}
			for _, k := range g.Key {
				row = append(row, k)
			}
			for _, m := range view.Metrics {
				row = append(row, g.Values[m.Name()])
			}
			row = append(row, g.SampleSize)
			f.SetSheetRow(sheet, fmt.Sprintf("A%d", gi+2), &row)
		}
	}

	caveatSheet := "Caveats"
	if _, err := f.NewSheet(caveatSheet); err != nil {
		return "", fmt.Errorf("error creating caveats sheet: %w", err)
	}
	for i, line := range strings.Split(caveatsText(report.Caveats), "\n") {
		f.SetCellValue(caveatSheet, fmt.Sprintf("A%d", i+1), line)
	}

	if err := f.SaveAs(outputFilename); err != nil {
		return "", fmt.Errorf("error writing XLSX file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportChartToPNG renders a line or bar ChartSpec to a PNG file.
// Heatmaps have no PNG rendering; they are console-only.
func (r *ExportRepositoryImpl) ExportChartToPNG(spec entity.ChartSpec, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "png")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating PNG file: %w", err)
	}
	defer file.Close()

	switch spec.Kind {
	case entity.ChartLine:
		var series []chart.Series
		for _, s := range spec.Series {
			if len(s.Points) == 0 {
				continue
			}
			xs := make([]float64, len(s.Points))
			ys := make([]float64, len(s.Points))
			for i, p := range s.Points {
				xs[i] = p.X
				ys[i] = p.Y
			}
			// go-chart needs at least two X values per series.
			if len(xs) == 1 {
				xs = append(xs, xs[0]+1)
				ys = append(ys, ys[0])
			}
			series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys})
		}
		if len(series) == 0 {
			return "", fmt.Errorf("chart %q has no data points to render", spec.Title)
		}
		graph := chart.Chart{
			Title:  spec.Title,
			XAxis:  chart.XAxis{Name: spec.XLabel},
			YAxis:  chart.YAxis{Name: spec.YLabel},
			Series: series,
		}
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
		if err := graph.Render(chart.PNG, file); err != nil {
			return "", fmt.Errorf("error rendering line chart: %w", err)
		}

	case entity.ChartBar:
		var bars []chart.Value
		multi := len(spec.Series) > 1
		for _, s := range spec.Series {
			for _, p := range s.Points {
				label := p.Label
				if multi {
					label = fmt.Sprintf("%s (%s)", p.Label, s.Name)
				}
				bars = append(bars, chart.Value{Label: label, Value: p.Y})
			}
		}
		if len(bars) == 0 {
			return "", fmt.Errorf("chart %q has no bars to render", spec.Title)
		}
		graph := chart.BarChart{
			Title:    spec.Title,
			Width:    1024,
			Height:   512,
			BarWidth: 40,
			Bars:     bars,
		}
		if err := graph.Render(chart.PNG, file); err != nil {
			return "", fmt.Errorf("error rendering bar chart: %w", err)
		}

	default:
		return "", fmt.Errorf("chart kind %q cannot be rendered to PNG", spec.Kind)
	}

	return filepath.Abs(outputFilename)
}

func kpiRows(kpis entity.KPISet) [][]string {
	return [][]string{
		{"Total Cases", strconv.Itoa(kpis.TotalCases), "cases"},
		{"Average Vaccination Rate", formatValue(kpis.AvgVaccinationRate), "ratio"},
		{"Average Resource Load", formatValue(kpis.AvgResourceLoad), "ratio"},
		{"Peak Season Cases", strconv.Itoa(kpis.PeakSeasonCases), "cases (" + orDash(kpis.PeakSeason) + ")"},
		{"Records", strconv.Itoa(kpis.Records), "rows"},
	}
}

func viewTitle(view entity.AggregatedView) string {
	names := make([]string, len(view.Metrics))
	for i, m := range view.Metrics {
		names[i] = m.Name()
	}
	return fmt.Sprintf("%s by %s", strings.Join(names, ", "), strings.Join(view.GroupBy, " x "))
}

func criteriaSummary(c entity.FilterCriteria) string {
	var parts []string
	if c.YearFrom != 0 || c.YearTo != 0 {
		parts = append(parts, fmt.Sprintf("years %s-%s", orAny(c.YearFrom), orAny(c.YearTo)))
	}
	if len(c.Regions) > 0 {
		parts = append(parts, "regions "+strings.Join(c.Regions, ","))
	}
	if len(c.SESLevels) > 0 {
		parts = append(parts, "ses "+strings.Join(c.SESLevels, ","))
	}
	if len(c.VaccineTypes) > 0 {
		parts = append(parts, "vaccines "+strings.Join(c.VaccineTypes, ","))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

func caveatsText(c entity.Caveats) string {
	var b strings.Builder
	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(title + "\n")
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
		b.WriteString("\n")
	}
	writeList("Data Source", c.Source)
	if len(c.Fields) > 0 {
		b.WriteString("Field Definitions\n")
		for _, f := range c.Fields {
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.Name, f.Definition))
		}
		b.WriteString("\n")
	}
	writeList("Cleaning Rules", c.CleaningRules)
	writeList("Ethics", c.Ethics)
	writeList("Limitations", c.Limitations)
	return strings.TrimSpace(b.String())
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orAny(year int) string {
	if year == 0 {
		return "any"
	}
	return strconv.Itoa(year)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
