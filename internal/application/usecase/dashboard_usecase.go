package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/application/prepare"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/application/visualize"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/repository"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

// DefaultIndicator is used when the requested time-series indicator is
// missing or unknown.
const DefaultIndicator = entity.ColCases

// DashboardUseCase handles the main dashboard functionality: one
// synchronous load -> clean -> filter -> aggregate -> visualize pass per
// invocation.
type DashboardUseCase struct {
	datasetRepo repository.DatasetRepository
	exportRepo  repository.ExportRepository
	configRepo  repository.ConfigRepository
	console     types.ConsoleInterface
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	datasetRepo repository.DatasetRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		datasetRepo: datasetRepo,
		exportRepo:  exportRepo,
		configRepo:  configRepo,
		console:     console,
	}
}

// RunDashboard executes the dashboard's main functionality.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	if args.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return err
		}
		mergeConfig(args, cfg)
	}

	if args.Caveats {
		uc.displayCaveats(uc.datasetRepo.GetDataCaveats())
		return nil
	}

	if args.DataFile == "" {
		return fmt.Errorf("%w: no data file specified (use --data-file or a config file)", types.ErrDataUnavailable)
	}

	status := uc.console.Status("Loading surveillance dataset...")

	raw, err := uc.datasetRepo.LoadDataset(args.DataFile)
	if err != nil {
		status.Stop()
		return err
	}

	status.Update("Cleaning records...")
	ds, err := prepare.Clean(raw)
	if err != nil {
		status.Stop()
		return err
	}
	status.Stop()

	if dropped := len(raw.Records) - ds.Len(); dropped > 0 {
		uc.console.LogWarning("Dropped %d of %d rows during cleaning", dropped, len(raw.Records))
	}
	uc.console.LogSuccess("Loaded %d records from %s", ds.Len(), raw.Path)

	if args.Quality {
		uc.displayQuality(visualize.BuildQualityReport(raw))
	}

	criteria := criteriaFromArgs(args)
	filtered := prepare.Filter(ds, criteria)
	if filtered.Empty() {
		uc.console.LogWarning("No records match the current filters; showing zeroed indicators")
	}

	kpis := visualize.BuildKPIs(filtered)
	uc.console.DisplayKPIPanel("Key Indicators", kpiCards(kpis))

	tsSpec, err := uc.buildTimeSeries(filtered, args.Indicator)
	if err != nil {
		return err
	}
	uc.console.DisplaySeriesBars(tsSpec.Title, specToBars(tsSpec))

	groupBy := args.GroupBy
	if len(groupBy) == 0 {
		groupBy = []string{entity.ColRegion, entity.ColSES}
	}
	heatView, err := prepare.Aggregate(filtered, groupBy, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
		{Field: entity.ColVaccinationRate, Op: entity.OpMean},
		{Field: "resource_load", Op: entity.OpMean},
	}, args.Sorted)
	if err != nil {
		return err
	}

	if heatSpec, err := visualize.BuildHeatmap(heatView); err != nil {
		// More or fewer than two dimensions: show the view as a table instead.
		uc.console.Print(uc.renderViewTable(heatView))
	} else {
		uc.console.DisplayHeatmap(heatSpec.Title, types.HeatmapGrid(heatSpec.Cells))
	}

	cmpView, err := prepare.Aggregate(filtered, []string{"age_group", entity.ColVaccineType}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpMean},
		{Field: entity.ColVaccinationRate, Op: entity.OpMean},
	}, args.Sorted)
	if err != nil {
		return err
	}
	cmpSpec, err := visualize.BuildComparison(cmpView, entity.ColVaccineType)
	if err != nil {
		return err
	}
	uc.console.DisplaySeriesBars(cmpSpec.Title, specToBars(cmpSpec))

	tsView, err := prepare.Aggregate(filtered, []string{entity.ColYear, entity.ColMonth, entity.ColRegion}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
		{Field: entity.ColVaccinationRate, Op: entity.OpMean},
		{Field: "resource_load", Op: entity.OpMean},
	}, true)
	if err != nil {
		return err
	}

	if args.ReportName != "" && len(args.ReportType) > 0 {
		report := repository.Report{
			Criteria: criteria,
			KPIs:     kpis,
			Views:    []entity.AggregatedView{tsView, heatView, cmpView},
			Caveats:  uc.datasetRepo.GetDataCaveats(),
		}
		uc.exportReports(report, args)
	}

	if args.Charts && args.ReportName != "" {
		uc.exportCharts(args, tsSpec, cmpSpec)
	}

	return nil
}

func (uc *DashboardUseCase) buildTimeSeries(ds entity.Dataset, indicator string) (entity.ChartSpec, error) {
	if indicator == "" {
		indicator = DefaultIndicator
	}
	spec, err := visualize.BuildTimeSeries(ds, indicator)
	if errors.Is(err, types.ErrUnknownIndicator) {
		uc.console.LogWarning("Unknown indicator %q, falling back to %q (valid: %s)",
			indicator, DefaultIndicator, strings.Join(visualize.IndicatorNames(), ", "))
		return visualize.BuildTimeSeries(ds, DefaultIndicator)
	}
	return spec, err
}

func (uc *DashboardUseCase) exportReports(report repository.Report, args *types.CLIArgs) {
	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			path, err := uc.exportRepo.ExportToCSV(report, args.ReportName, args.Dir)
			uc.logExport("CSV", path, err)
		case "json":
			path, err := uc.exportRepo.ExportToJSON(report, args.ReportName, args.Dir)
			uc.logExport("JSON", path, err)
		case "pdf":
			path, err := uc.exportRepo.ExportToPDF(report, args.ReportName, args.Dir)
			uc.logExport("PDF", path, err)
		case "xlsx":
			path, err := uc.exportRepo.ExportToXLSX(report, args.ReportName, args.Dir)
			uc.logExport("XLSX", path, err)
		default:
			uc.console.LogWarning("Unknown report type %q (valid: csv, json, pdf, xlsx)", reportType)
		}
	}
}

func (uc *DashboardUseCase) exportCharts(args *types.CLIArgs, specs ...entity.ChartSpec) {
	for _, spec := range specs {
		name := fmt.Sprintf("%s_%s", args.ReportName, slug(spec.Title))
		path, err := uc.exportRepo.ExportChartToPNG(spec, name, args.Dir)
		uc.logExport("PNG", path, err)
	}
}

func (uc *DashboardUseCase) logExport(kind, path string, err error) {
	if err != nil {
		uc.console.LogError("Failed to export to %s: %s", kind, err)
		return
	}
	uc.console.LogSuccess("Successfully exported to %s: %s", kind, path)
}

func (uc *DashboardUseCase) displayCaveats(caveats entity.Caveats) {
	table := uc.console.CreateTable()
	table.AddColumn("Field")
	table.AddColumn("Definition")
	for _, f := range caveats.Fields {
		table.AddRow(f.Name, f.Definition)
	}

	section := func(title string, items []string) {
		uc.console.Println()
		uc.console.Println(title)
		for _, item := range items {
			uc.console.Printf("  - %s\n", item)
		}
	}

	section("Data Source", caveats.Source)
	uc.console.Println()
	uc.console.Print(table.Render())
	section("Cleaning Rules", caveats.CleaningRules)
	section("Ethics", caveats.Ethics)
	section("Limitations", caveats.Limitations)
}

func (uc *DashboardUseCase) displayQuality(spec entity.ChartSpec) {
	table := uc.console.CreateTable()
	table.AddColumn("Field")
	table.AddColumn("Missing Ratio")
	for _, s := range spec.Series {
		for _, p := range s.Points {
			table.AddRow(p.Label, fmt.Sprintf("%.1f%%", p.Y*100))
		}
	}
	uc.console.Print(table.Render())
}

func (uc *DashboardUseCase) renderViewTable(view entity.AggregatedView) string {
	table := uc.console.CreateTable()
	for _, dim := range view.GroupBy {
		table.AddColumn(dim)
	}
	for _, m := range view.Metrics {
		table.AddColumn(m.Name())
	}
	table.AddColumn("n")

	for _, g := range view.Groups {
		cells := make([]interface{}, 0, len(g.Key)+len(view.Metrics)+1)
		for _, k := range g.Key {
			cells = append(cells, k)
		}
		for _, m := range view.Metrics {
			cells = append(cells, fmt.Sprintf("%.3f", g.Values[m.Name()]))
		}
		cells = append(cells, g.SampleSize)
		table.AddRow(cells...)
	}
	return table.Render()
}

func criteriaFromArgs(args *types.CLIArgs) entity.FilterCriteria {
	return entity.FilterCriteria{
		YearFrom:     args.YearFrom,
		YearTo:       args.YearTo,
		Regions:      args.Regions,
		SESLevels:    args.SESLevels,
		VaccineTypes: args.VaccineTypes,
	}
}

func kpiCards(kpis entity.KPISet) []types.KPICard {
	return []types.KPICard{
		{
			Metric:      "Total Cases",
			Value:       strconv.Itoa(kpis.TotalCases),
			Unit:        "cases",
			Description: "Total new cases in the filtered data",
		},
		{
			Metric:      "Average Vaccination Rate",
			Value:       fmt.Sprintf("%.3f", kpis.AvgVaccinationRate),
			Unit:        "ratio",
			Description: "Average vaccination rate across records",
		},
		{
			Metric:      "Average Resource Load",
			Value:       fmt.Sprintf("%.3f", kpis.AvgResourceLoad),
			Unit:        "ratio",
			Description: "Average hospitalization requirement over capacity",
		},
		{
			Metric:      "Peak Season Cases",
			Value:       strconv.Itoa(kpis.PeakSeasonCases),
			Unit:        "cases",
			Description: "Maximum cases in any season" + seasonSuffix(kpis.PeakSeason),
		},
	}
}

func seasonSuffix(season string) string {
	if season == "" {
		return ""
	}
	return " (" + season + ")"
}

// specToBars flattens a line/bar ChartSpec into console bar blocks.
func specToBars(spec entity.ChartSpec) []types.BarSeries {
	out := make([]types.BarSeries, 0, len(spec.Series))
	for _, s := range spec.Series {
		bs := types.BarSeries{Name: s.Name}
		for _, p := range s.Points {
			bs.Bars = append(bs.Bars, types.Bar{Label: p.Label, Value: p.Y})
		}
		out = append(out, bs)
	}
	return out
}

func mergeConfig(args *types.CLIArgs, cfg *types.Config) {
	if args.DataFile == "" {
		args.DataFile = cfg.DataFile
	}
	if args.YearFrom == 0 {
		args.YearFrom = cfg.YearFrom
	}
	if args.YearTo == 0 {
		args.YearTo = cfg.YearTo
	}
	if len(args.Regions) == 0 {
		args.Regions = cfg.Regions
	}
	if len(args.SESLevels) == 0 {
		args.SESLevels = cfg.SESLevels
	}
	if len(args.VaccineTypes) == 0 {
		args.VaccineTypes = cfg.VaccineTypes
	}
	if args.Indicator == "" {
		args.Indicator = cfg.Indicator
	}
	if len(args.GroupBy) == 0 {
		args.GroupBy = cfg.GroupBy
	}
	if args.ReportName == "" {
		args.ReportName = cfg.ReportName
	}
	if len(args.ReportType) == 0 {
		args.ReportType = cfg.ReportType
	}
	if args.Dir == "" {
		args.Dir = cfg.Dir
	}
	if cfg.Charts {
		args.Charts = true
	}
}

func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
