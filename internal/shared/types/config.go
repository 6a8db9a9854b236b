package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	DataFile     string   `json:"data_file" yaml:"data_file" toml:"data_file"`
	YearFrom     int      `json:"year_from" yaml:"year_from" toml:"year_from"`
	YearTo       int      `json:"year_to" yaml:"year_to" toml:"year_to"`
	Regions      []string `json:"regions" yaml:"regions" toml:"regions"`
	SESLevels    []string `json:"ses_levels" yaml:"ses_levels" toml:"ses_levels"`
	VaccineTypes []string `json:"vaccine_types" yaml:"vaccine_types" toml:"vaccine_types"`
	Indicator    string   `json:"indicator" yaml:"indicator" toml:"indicator"`
	GroupBy      []string `json:"group_by" yaml:"group_by" toml:"group_by"`
	ReportName   string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir          string   `json:"dir" yaml:"dir" toml:"dir"`
	Charts       bool     `json:"charts" yaml:"charts" toml:"charts"`
}
