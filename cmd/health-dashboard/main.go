package main

import (
	"fmt"
	"os"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/adapter/driven/config"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/adapter/driven/dataset"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/adapter/driven/export"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/adapter/driving/cli"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/application/usecase"
	"github.com/epzhu/health-surveillance-dashboard-go/pkg/console"
	"github.com/epzhu/health-surveillance-dashboard-go/pkg/version"
)

func main() {
	app := cli.NewCLIApp(version.Version)

	datasetRepo := dataset.NewDatasetRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	dashboardUseCase := usecase.NewDashboardUseCase(
		datasetRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)

	app.SetDashboardUseCase(dashboardUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
