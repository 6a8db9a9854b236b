package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	DataFile     string
	YearFrom     int
	YearTo       int
	Regions      []string
	SESLevels    []string
	VaccineTypes []string
	Indicator    string
	GroupBy      []string
	Sorted       bool
	ReportName   string
	ReportType   []string
	Dir          string
	Charts       bool
	Caveats      bool
	Quality      bool
}
