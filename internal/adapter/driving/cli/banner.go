package cli

import (
	"fmt"

	"github.com/epzhu/health-surveillance-dashboard-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner shows the welcome banner with version information.
func displayWelcomeBanner(versionStr string) {
	banner := `
         _   _            _ _   _       ____            _
        | | | | ___  __ _| | |_| |__   |  _ \  __ _ ___| |__
        | |_| |/ _ \/ _' | | __| '_ \  | | | |/ _' / __| '_ \
        |  _  |  __/ (_| | | |_| | | | | |_| | (_| \__ \ | | |
        |_| |_|\___|\__,_|_|\__|_| |_| |____/ \__,_|___/_| |_|
        `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Public Health Surveillance Dashboard CLI (v%s)", formattedVersion)))
}
