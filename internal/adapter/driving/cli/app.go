package cli

import (
	"context"

	"github.com/epzhu/health-surveillance-dashboard-go/pkg/version"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/application/usecase"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	version          string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "health-dashboard",
		Short:   "Public Health Surveillance Dashboard CLI",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Health Surveillance Dashboard version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("data-file", "f", "", "Path to the surveillance dataset CSV")
	rootCmd.PersistentFlags().Int("year-from", 0, "Lower bound of the year range filter (inclusive)")
	rootCmd.PersistentFlags().Int("year-to", 0, "Upper bound of the year range filter (inclusive)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "Regions to include, e.g. Urban,Rural (comma-separated)")
	rootCmd.PersistentFlags().StringSliceP("ses", "s", nil, "SES levels to include, e.g. High,Low (comma-separated)")
	rootCmd.PersistentFlags().StringSliceP("vaccine-types", "v", nil, "Vaccine types to include (comma-separated)")
	rootCmd.PersistentFlags().StringP("indicator", "i", "", "Time-series indicator: cases, vaccination_rate, resource_load")
	rootCmd.PersistentFlags().StringSliceP("group-by", "g", nil, "Grouping dimensions for the aggregated view (default region,ses)")
	rootCmd.PersistentFlags().Bool("sorted", false, "Sort aggregated groups by key instead of first appearance")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf, xlsx")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().Bool("charts", false, "Also export PNG chart images with the report")
	rootCmd.PersistentFlags().Bool("caveats", false, "Print the dataset caveats and exit")
	rootCmd.PersistentFlags().Bool("quality", false, "Display per-column missing-value ratios of the raw file")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	dataFile, _ := flags.GetString("data-file")
	yearFrom, _ := flags.GetInt("year-from")
	yearTo, _ := flags.GetInt("year-to")
	regions, _ := flags.GetStringSlice("regions")
	sesLevels, _ := flags.GetStringSlice("ses")
	vaccineTypes, _ := flags.GetStringSlice("vaccine-types")
	indicator, _ := flags.GetString("indicator")
	groupBy, _ := flags.GetStringSlice("group-by")
	sorted, _ := flags.GetBool("sorted")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	charts, _ := flags.GetBool("charts")
	caveats, _ := flags.GetBool("caveats")
	quality, _ := flags.GetBool("quality")

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		DataFile:     dataFile,
		YearFrom:     yearFrom,
		YearTo:       yearTo,
		Regions:      regions,
		SESLevels:    sesLevels,
		VaccineTypes: vaccineTypes,
		Indicator:    indicator,
		GroupBy:      groupBy,
		Sorted:       sorted,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
		Charts:       charts,
		Caveats:      caveats,
		Quality:      quality,
	}

	return args, nil
}

// runCommand is the main entry point for the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	ctx := context.Background()
	return app.dashboardUseCase.RunDashboard(ctx, cliArgs)
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}
