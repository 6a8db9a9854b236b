package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/repository"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

// DatasetRepositoryImpl implements the DatasetRepository over a local
// delimited file.
type DatasetRepositoryImpl struct{}

// NewDatasetRepository creates a new implementation of DatasetRepository.
func NewDatasetRepository() repository.DatasetRepository {
	return &DatasetRepositoryImpl{}
}

// LoadDataset reads the surveillance CSV at path. The header is matched
// by column name, not position, and every required column must be
// present. All failure modes wrap types.ErrDataUnavailable so callers
// can treat them as one fatal condition.
func (r *DatasetRepositoryImpl) LoadDataset(path string) (entity.RawDataset, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return entity.RawDataset{}, fmt.Errorf("%w: %s", types.ErrDataUnavailable, err)
	}
	if fileInfo.IsDir() {
		return entity.RawDataset{}, fmt.Errorf("%w: %s is a directory, not a file", types.ErrDataUnavailable, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return entity.RawDataset{}, fmt.Errorf("%w: %s", types.ErrDataUnavailable, err)
	}
	defer file.Close()

	reader := csv.NewReader(stripBOM(file))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return entity.RawDataset{}, fmt.Errorf("%w: reading header: %s", types.ErrDataUnavailable, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range entity.RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return entity.RawDataset{}, fmt.Errorf("%w: missing required columns: %s",
			types.ErrDataUnavailable, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		idx := colIndex[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []entity.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entity.RawDataset{}, fmt.Errorf("%w: reading row %d: %s",
				types.ErrDataUnavailable, len(records)+2, err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, entity.RawRecord{
			Year:            cell(row, entity.ColYear),
			Month:           cell(row, entity.ColMonth),
			Region:          cell(row, entity.ColRegion),
			SES:             cell(row, entity.ColSES),
			Cases:           cell(row, entity.ColCases),
			VaccinationRate: cell(row, entity.ColVaccinationRate),
			VaccineType:     cell(row, entity.ColVaccineType),
			HospitalCap:     cell(row, entity.ColHospitalCap),
			HospitalReq:     cell(row, entity.ColHospitalReq),
			Age:             cell(row, entity.ColAge),
		})
	}

	return entity.RawDataset{Path: path, Records: records}, nil
}

// stripBOM removes a UTF-8 byte order mark, common in spreadsheet exports.
func stripBOM(r io.Reader) io.Reader {
	buf := bufio.NewReader(r)
	if b, err := buf.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		buf.Discard(3)
	}
	return buf
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// GetDataCaveats returns the fixed dataset documentation shown to end
// users. Identical content on every call.
func (r *DatasetRepositoryImpl) GetDataCaveats() entity.Caveats {
	return entity.Caveats{
		Source: []string{
			"Public health surveillance records from 2023 to 2024, covering Urban, Suburban, and Rural regions.",
			"Collected from multiple regional health departments, de-identified to protect privacy.",
		},
		Fields: []entity.FieldDoc{
			{Name: entity.ColYear, Definition: "Reporting year of the record (core time dimension)."},
			{Name: entity.ColMonth, Definition: "Reporting month, 1-12."},
			{Name: entity.ColRegion, Definition: "Region type (Urban/Suburban/Rural, case-insensitive)."},
			{Name: entity.ColSES, Definition: "Socio-Economic Status (High/Medium/Low, based on household income)."},
			{Name: entity.ColCases, Definition: "Number of new confirmed cases reported (non-negative)."},
			{Name: entity.ColVaccinationRate, Definition: "Share of the cohort vaccinated, 0 to 1."},
			{Name: entity.ColVaccineType, Definition: "Vaccine product administered to the cohort, or None."},
			{Name: entity.ColHospitalCap, Definition: "Total hospital beds in the region."},
			{Name: entity.ColHospitalReq, Definition: "Patients requiring hospitalization (non-negative)."},
			{Name: entity.ColAge, Definition: "Cohort age, 0-120 years."},
		},
		CleaningRules: []string{
			"Rows with an unparsable year/month or a blank region are dropped.",
			"Rows with negative case counts or an age outside 0-120 are dropped as outliers.",
			"Blank SES values are filled with the dataset mode (Unknown when no mode exists).",
			"Missing case counts and vaccination rates are imputed as zero; rates are clamped to [0,1].",
			"Hospital capacity at or below zero falls back to a 100-bed default.",
		},
		Ethics: []string{
			"All data is aggregated and de-identified; no personal information is included.",
		},
		Limitations: []string{
			"Data only covers 2023-2024, so no long-term trend analysis is possible.",
			"No county-level granularity; records are regional aggregates only.",
		},
	}
}
