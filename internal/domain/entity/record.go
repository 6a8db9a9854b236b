package entity

// Schema columns expected in the surveillance CSV. Column order in the
// file does not matter; all of these must be present in the header.
const (
	ColYear            = "year"
	ColMonth           = "month"
	ColRegion          = "region"
	ColSES             = "ses"
	ColCases           = "cases"
	ColVaccinationRate = "vaccination_rate"
	ColVaccineType     = "vaccine_type"
	ColHospitalCap     = "hospital_capacity"
	ColHospitalReq     = "hospitalization_requirement"
	ColAge             = "age"
)

// RequiredColumns lists every column the loader validates at read time.
var RequiredColumns = []string{
	ColYear, ColMonth, ColRegion, ColSES, ColCases,
	ColVaccinationRate, ColVaccineType, ColHospitalCap, ColHospitalReq, ColAge,
}

// RawRecord is one row of the input file before any type coercion.
// Fields hold the cell text exactly as read.
type RawRecord struct {
	Year            string `json:"year"`
	Month           string `json:"month"`
	Region          string `json:"region"`
	SES             string `json:"ses"`
	Cases           string `json:"cases"`
	VaccinationRate string `json:"vaccination_rate"`
	VaccineType     string `json:"vaccine_type"`
	HospitalCap     string `json:"hospital_capacity"`
	HospitalReq     string `json:"hospitalization_requirement"`
	Age             string `json:"age"`
}

// RawDataset is the loaded but uncleaned table.
type RawDataset struct {
	Path    string      `json:"path"`
	Records []RawRecord `json:"records"`
}

// Record is a cleaned surveillance row with derived features attached.
type Record struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Region          string  `json:"region"`
	SES             string  `json:"ses"`
	Cases           int     `json:"cases"`
	VaccinationRate float64 `json:"vaccination_rate"`
	VaccineType     string  `json:"vaccine_type"`
	HospitalCap     int     `json:"hospital_capacity"`
	HospitalReq     int     `json:"hospitalization_requirement"`
	Age             int     `json:"age"`

	// Derived during cleaning.
	Season       string  `json:"season"`
	AgeGroup     string  `json:"age_group"`
	ResourceLoad float64 `json:"resource_load"`
}

// Dataset is an ordered collection of cleaned records sharing the schema.
type Dataset struct {
	Records []Record `json:"records"`
}

// Len returns the number of records in the dataset.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Empty reports whether the dataset holds no records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Season labels, northern-hemisphere mapping (Dec-Feb winter).
const (
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonAutumn = "Autumn"
)

// SeasonForMonth maps a 1-12 month to its season label.
func SeasonForMonth(month int) string {
	switch month {
	case 12, 1, 2:
		return SeasonWinter
	case 3, 4, 5:
		return SeasonSpring
	case 6, 7, 8:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// Age group labels. The 66+ bucket is kept explicit so elderly cohorts
// never disappear from comparison charts.
const (
	AgeGroupChild   = "Child (0-18)"
	AgeGroupAdult   = "Adult (19-65)"
	AgeGroupElderly = "Elderly (66+)"
)

// AgeGroupFor bins an age into one of the three cohorts.
func AgeGroupFor(age int) string {
	switch {
	case age <= 18:
		return AgeGroupChild
	case age <= 65:
		return AgeGroupAdult
	default:
		return AgeGroupElderly
	}
}
