package prepare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

func rawRow(year, month, region, ses, cases, rate string) entity.RawRecord {
	return entity.RawRecord{
		Year:            year,
		Month:           month,
		Region:          region,
		SES:             ses,
		Cases:           cases,
		VaccinationRate: rate,
		VaccineType:     "mRNA",
		HospitalCap:     "200",
		HospitalReq:     "40",
		Age:             "30",
	}
}

func rec(year, month int, region, ses string, cases int, rate float64) entity.Record {
	return entity.Record{
		Year:            year,
		Month:           month,
		Region:          region,
		SES:             ses,
		Cases:           cases,
		VaccinationRate: rate,
		VaccineType:     "mRNA",
		HospitalCap:     200,
		HospitalReq:     40,
		Age:             30,
		Season:          entity.SeasonForMonth(month),
		AgeGroup:        entity.AgeGroupFor(30),
		ResourceLoad:    0.2,
	}
}

func TestCleanCoercesAndDrops(t *testing.T) {
	raw := entity.RawDataset{Records: []entity.RawRecord{
		rawRow("2023", "1", "urban", "low", "50", "0.3"),
		rawRow("bad-year", "1", "Urban", "Low", "10", "0.5"), // dropped: year
		rawRow("2023", "13", "Urban", "Low", "10", "0.5"),    // dropped: month
		rawRow("2023", "2", "", "Low", "10", "0.5"),          // dropped: region
		rawRow("2023", "2", "Rural", "High", "-5", "0.5"),    // dropped: negative cases
		rawRow("2024", "7", "RURAL", "high", "", "1.7"),      // kept: cases->0, rate clamped
	}}

	ds, err := Clean(raw)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Records[0]
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, "Urban", first.Region, "region should be title-cased")
	assert.Equal(t, "Low", first.SES)
	assert.Equal(t, 50, first.Cases)
	assert.Equal(t, entity.SeasonWinter, first.Season)
	assert.Equal(t, entity.AgeGroupAdult, first.AgeGroup)
	assert.InDelta(t, 0.2, first.ResourceLoad, 1e-9) // 40 / 200

	second := ds.Records[1]
	assert.Equal(t, "Rural", second.Region)
	assert.Equal(t, 0, second.Cases, "missing cases impute as zero")
	assert.Equal(t, 1.0, second.VaccinationRate, "rate clamps to [0,1]")
	assert.Equal(t, entity.SeasonSummer, second.Season)
}

func TestCleanDefaultsAndSESMode(t *testing.T) {
	missingSES := rawRow("2023", "3", "Urban", "", "5", "0.5")
	missingSES.HospitalCap = "0"   // falls back to 100 beds
	missingSES.HospitalReq = "-10" // clamps to 0
	missingSES.Age = ""            // defaults to 35

	raw := entity.RawDataset{Records: []entity.RawRecord{
		rawRow("2023", "1", "Urban", "High", "1", "0.1"),
		rawRow("2023", "2", "Urban", "High", "1", "0.1"),
		rawRow("2023", "2", "Urban", "Low", "1", "0.1"),
		missingSES,
	}}

	ds, err := Clean(raw)
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())

	filled := ds.Records[3]
	assert.Equal(t, "High", filled.SES, "blank SES takes the dataset mode")
	assert.Equal(t, 100, filled.HospitalCap)
	assert.Equal(t, 0, filled.HospitalReq)
	assert.Equal(t, 35, filled.Age)
	assert.Equal(t, 0.0, filled.ResourceLoad)
}

func TestCleanAllInvalid(t *testing.T) {
	raw := entity.RawDataset{Records: []entity.RawRecord{
		rawRow("", "", "", "", "", ""),
	}}

	_, err := Clean(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataUnavailable))
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	original := rawRow("2023", "1", "urban", "low", "50", "0.3")
	raw := entity.RawDataset{Records: []entity.RawRecord{original}}

	_, err := Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, original, raw.Records[0])
}

func TestFilterEmptyCriteriaReturnsInput(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.9),
		rec(2024, 6, "Rural", "Low", 50, 0.3),
	}}

	got := Filter(ds, entity.FilterCriteria{})
	assert.Equal(t, ds.Records, got.Records)
}

func TestFilterYearRangePreservesOrder(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.9),
		rec(2024, 2, "Urban", "High", 20, 0.9),
		rec(2023, 3, "Rural", "Low", 30, 0.3),
		rec(2024, 4, "Rural", "Low", 40, 0.3),
	}}

	got := Filter(ds, entity.FilterCriteria{YearFrom: 2023, YearTo: 2023})
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 10, got.Records[0].Cases)
	assert.Equal(t, 30, got.Records[1].Cases)
}

func TestFilterCombinesCriteriaWithAND(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.9),
		rec(2023, 1, "Rural", "High", 20, 0.5),
		rec(2024, 1, "Rural", "Low", 30, 0.3),
	}}

	got := Filter(ds, entity.FilterCriteria{
		YearFrom: 2023,
		YearTo:   2023,
		Regions:  []string{"rural"}, // matching is case-insensitive
	})
	require.Equal(t, 1, got.Len())
	assert.Equal(t, 20, got.Records[0].Cases)
}

func TestFilterRelaxingNeverRemovesRecords(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.9),
		rec(2023, 2, "Rural", "Low", 20, 0.5),
		rec(2024, 3, "Suburban", "Medium", 30, 0.3),
	}}

	strict := Filter(ds, entity.FilterCriteria{YearFrom: 2023, YearTo: 2023, Regions: []string{"Rural"}})
	relaxed := Filter(ds, entity.FilterCriteria{YearFrom: 2023, YearTo: 2023})

	for _, want := range strict.Records {
		assert.Contains(t, relaxed.Records, want)
	}
}

func TestAggregateSumByRegion(t *testing.T) {
	// Rural 50, Urban 10, grouped by region.
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Rural", "Low", 50, 0.3),
		rec(2023, 1, "Urban", "High", 10, 0.9),
	}}

	view, err := Aggregate(ds, []string{entity.ColRegion}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
	}, false)
	require.NoError(t, err)
	require.Len(t, view.Groups, 2)

	assert.Equal(t, []string{"Rural"}, view.Groups[0].Key)
	assert.Equal(t, 50.0, view.Groups[0].Values["sum(cases)"])
	assert.Equal(t, []string{"Urban"}, view.Groups[1].Key)
	assert.Equal(t, 10.0, view.Groups[1].Values["sum(cases)"])
}

func TestAggregateSumAcrossGroupsEqualsDirectTotal(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.9),
		rec(2023, 2, "Rural", "Low", 20, 0.5),
		rec(2023, 3, "Rural", "High", 30, 0.5),
		rec(2024, 4, "Suburban", "Medium", 40, 0.3),
	}}

	view, err := Aggregate(ds, []string{entity.ColRegion, entity.ColSES}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
	}, false)
	require.NoError(t, err)

	direct := 0
	for _, r := range ds.Records {
		direct += r.Cases
	}
	grouped := 0.0
	for _, g := range view.Groups {
		grouped += g.Values["sum(cases)"]
	}
	assert.Equal(t, float64(direct), grouped)
}

func TestAggregateFirstAppearanceOrder(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Suburban", "High", 1, 0.5),
		rec(2023, 1, "Urban", "High", 2, 0.5),
		rec(2023, 1, "Suburban", "High", 3, 0.5),
		rec(2023, 1, "Rural", "High", 4, 0.5),
	}}

	view, err := Aggregate(ds, []string{entity.ColRegion}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpCount},
	}, false)
	require.NoError(t, err)

	var order []string
	for _, g := range view.Groups {
		order = append(order, g.Key[0])
	}
	assert.Equal(t, []string{"Suburban", "Urban", "Rural"}, order)
}

func TestAggregateSortedOutput(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 10, "Urban", "High", 1, 0.5),
		rec(2023, 2, "Urban", "High", 2, 0.5),
		rec(2023, 1, "Urban", "High", 3, 0.5),
	}}

	view, err := Aggregate(ds, []string{entity.ColMonth}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
	}, true)
	require.NoError(t, err)

	var months []string
	for _, g := range view.Groups {
		months = append(months, g.Key[0])
	}
	assert.Equal(t, []string{"1", "2", "10"}, months, "numeric keys sort numerically")
}

func TestAggregateMeanAndMedian(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{
		rec(2023, 1, "Urban", "High", 10, 0.2),
		rec(2023, 1, "Urban", "High", 20, 0.4),
		rec(2023, 1, "Urban", "High", 60, 0.9),
	}}

	view, err := Aggregate(ds, []string{entity.ColRegion}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpMean},
		{Field: entity.ColCases, Op: entity.OpMedian},
		{Field: entity.ColVaccinationRate, Op: entity.OpMean},
	}, false)
	require.NoError(t, err)
	require.Len(t, view.Groups, 1)

	g := view.Groups[0]
	assert.Equal(t, 30.0, g.Values["mean(cases)"])
	assert.Equal(t, 20.0, g.Values["median(cases)"])
	assert.Equal(t, 0.5, g.Values["mean(vaccination_rate)"])
	assert.Equal(t, 3, g.SampleSize)
}

func TestAggregateEmptyDataset(t *testing.T) {
	view, err := Aggregate(entity.Dataset{}, []string{entity.ColRegion}, []entity.Metric{
		{Field: entity.ColCases, Op: entity.OpSum},
	}, false)
	require.NoError(t, err)
	assert.Empty(t, view.Groups)
}

func TestAggregateInvalidGrouping(t *testing.T) {
	ds := entity.Dataset{Records: []entity.Record{rec(2023, 1, "Urban", "High", 1, 0.5)}}

	tests := []struct {
		name    string
		groupBy []string
		metrics []entity.Metric
	}{
		{"unknown dimension", []string{"county"}, []entity.Metric{{Field: entity.ColCases, Op: entity.OpSum}}},
		{"unknown metric field", []string{entity.ColRegion}, []entity.Metric{{Field: "deaths", Op: entity.OpSum}}},
		{"unsupported op", []string{entity.ColRegion}, []entity.Metric{{Field: entity.ColCases, Op: "stddev"}}},
		{"no dimensions", nil, []entity.Metric{{Field: entity.ColCases, Op: entity.OpSum}}},
		{"no metrics", []string{entity.ColRegion}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(ds, tt.groupBy, tt.metrics, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidGrouping))
		})
	}
}
