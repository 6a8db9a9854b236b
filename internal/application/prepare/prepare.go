// Package prepare turns the raw loaded table into cleaned, filtered,
// and aggregated views. Every function is a pure function of its
// inputs; datasets are never mutated in place.
package prepare

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

// Defaults applied when a non-critical field is missing. Regions,
// years, and months have no sensible default, so those rows are dropped
// instead.
const (
	defaultHospitalCap = 100
	defaultAge         = 35
	fallbackSES        = "Unknown"
	fallbackVaccine    = "None"
)

// Clean coerces field types, applies the documented missing-value and
// outlier policy, and attaches derived features (season, age group,
// resource load). The input is not modified. Cleaning that leaves zero
// valid records is treated as unavailable data.
func Clean(raw entity.RawDataset) (entity.Dataset, error) {
	type candidate struct {
		rec     entity.Record
		fillSES bool
	}

	var candidates []candidate
	sesCounts := map[string]int{}

	for _, rr := range raw.Records {
		year, err := strconv.Atoi(strings.TrimSpace(rr.Year))
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(strings.TrimSpace(rr.Month))
		if err != nil || month < 1 || month > 12 {
			continue
		}
		region := titleCase(rr.Region)
		if region == "" {
			continue
		}

		cases := parseFloatOr(rr.Cases, 0)
		if cases < 0 {
			continue
		}
		age := int(parseFloatOr(rr.Age, defaultAge))
		if age < 0 || age > 120 {
			continue
		}

		rate := parseFloatOr(rr.VaccinationRate, 0)
		rate = math.Min(math.Max(rate, 0), 1)

		capacity := int(parseFloatOr(rr.HospitalCap, 0))
		if capacity <= 0 {
			capacity = defaultHospitalCap
		}
		requirement := int(parseFloatOr(rr.HospitalReq, 0))
		if requirement < 0 {
			requirement = 0
		}

		vaccine := strings.TrimSpace(rr.VaccineType)
		if vaccine == "" {
			vaccine = fallbackVaccine
		}

		ses := titleCase(rr.SES)
		if ses != "" {
			sesCounts[ses]++
		}

		load := round3(float64(requirement) / float64(capacity))
		if load > 5 {
			load = 5
		}

		candidates = append(candidates, candidate{
			rec: entity.Record{
				Year:            year,
				Month:           month,
				Region:          region,
				SES:             ses,
				Cases:           int(math.Round(cases)),
				VaccinationRate: rate,
				VaccineType:     vaccine,
				HospitalCap:     capacity,
				HospitalReq:     requirement,
				Age:             age,
				Season:          entity.SeasonForMonth(month),
				AgeGroup:        entity.AgeGroupFor(age),
				ResourceLoad:    load,
			},
			fillSES: ses == "",
		})
	}

	sesMode := modeOf(sesCounts)

	records := make([]entity.Record, 0, len(candidates))
	for _, c := range candidates {
		if c.fillSES {
			c.rec.SES = sesMode
		}
		records = append(records, c.rec)
	}

	if len(records) == 0 {
		return entity.Dataset{}, fmt.Errorf("%w: no valid records left after cleaning", types.ErrDataUnavailable)
	}
	return entity.Dataset{Records: records}, nil
}

// Filter returns the subset of records satisfying every present
// criterion, preserving the original relative order. Empty criteria
// return the input unchanged.
func Filter(ds entity.Dataset, criteria entity.FilterCriteria) entity.Dataset {
	if criteria.Empty() {
		return ds
	}

	out := make([]entity.Record, 0, len(ds.Records))
	for _, rec := range ds.Records {
		if criteria.YearFrom != 0 && rec.Year < criteria.YearFrom {
			continue
		}
		if criteria.YearTo != 0 && rec.Year > criteria.YearTo {
			continue
		}
		if !matchesAny(rec.Region, criteria.Regions) {
			continue
		}
		if !matchesAny(rec.SES, criteria.SESLevels) {
			continue
		}
		if !matchesAny(rec.VaccineType, criteria.VaccineTypes) {
			continue
		}
		out = append(out, rec)
	}
	return entity.Dataset{Records: out}
}

// Groupable dimensions and numeric metric fields recognized by Aggregate.
var (
	groupableDims = map[string]func(entity.Record) string{
		entity.ColYear:        func(r entity.Record) string { return strconv.Itoa(r.Year) },
		entity.ColMonth:       func(r entity.Record) string { return strconv.Itoa(r.Month) },
		entity.ColRegion:      func(r entity.Record) string { return r.Region },
		entity.ColSES:         func(r entity.Record) string { return r.SES },
		entity.ColVaccineType: func(r entity.Record) string { return r.VaccineType },
		"season":              func(r entity.Record) string { return r.Season },
		"age_group":           func(r entity.Record) string { return r.AgeGroup },
	}

	metricFields = map[string]func(entity.Record) float64{
		entity.ColCases:           func(r entity.Record) float64 { return float64(r.Cases) },
		entity.ColVaccinationRate: func(r entity.Record) float64 { return r.VaccinationRate },
		entity.ColHospitalCap:     func(r entity.Record) float64 { return float64(r.HospitalCap) },
		entity.ColHospitalReq:     func(r entity.Record) float64 { return float64(r.HospitalReq) },
		entity.ColAge:             func(r entity.Record) float64 { return float64(r.Age) },
		"resource_load":           func(r entity.Record) float64 { return r.ResourceLoad },
	}
)

// Aggregate groups records by the named dimensions and computes each
// requested metric per group. Groups keep the first-appearance order of
// their key in the input unless sorted output is requested.
func Aggregate(ds entity.Dataset, groupBy []string, metrics []entity.Metric, sorted bool) (entity.AggregatedView, error) {
	if len(groupBy) == 0 {
		return entity.AggregatedView{}, fmt.Errorf("%w: at least one grouping dimension is required", types.ErrInvalidGrouping)
	}
	dimFns := make([]func(entity.Record) string, len(groupBy))
	for i, dim := range groupBy {
		fn, ok := groupableDims[dim]
		if !ok {
			return entity.AggregatedView{}, fmt.Errorf("%w: %q is not a groupable dimension", types.ErrInvalidGrouping, dim)
		}
		dimFns[i] = fn
	}
	if len(metrics) == 0 {
		return entity.AggregatedView{}, fmt.Errorf("%w: at least one metric is required", types.ErrInvalidGrouping)
	}
	valueFns := make([]func(entity.Record) float64, len(metrics))
	for i, m := range metrics {
		fn, ok := metricFields[m.Field]
		if !ok {
			return entity.AggregatedView{}, fmt.Errorf("%w: %q is not a numeric field", types.ErrInvalidGrouping, m.Field)
		}
		switch m.Op {
		case entity.OpSum, entity.OpMean, entity.OpCount, entity.OpMedian:
		default:
			return entity.AggregatedView{}, fmt.Errorf("%w: unsupported metric op %q", types.ErrInvalidGrouping, m.Op)
		}
		valueFns[i] = fn
	}

	type bucket struct {
		key    []string
		values [][]float64 // per metric
	}
	var order []string
	buckets := map[string]*bucket{}

	for _, rec := range ds.Records {
		key := make([]string, len(dimFns))
		for i, fn := range dimFns {
			key[i] = fn(rec)
		}
		id := strings.Join(key, "\x1f")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{key: key, values: make([][]float64, len(metrics))}
			buckets[id] = b
			order = append(order, id)
		}
		for i, fn := range valueFns {
			b.values[i] = append(b.values[i], fn(rec))
		}
	}

	if sorted {
		sort.Slice(order, func(a, b int) bool {
			return lessKey(buckets[order[a]].key, buckets[order[b]].key)
		})
	}

	view := entity.AggregatedView{GroupBy: groupBy, Metrics: metrics, Sorted: sorted}
	for _, id := range order {
		b := buckets[id]
		values := make(map[string]float64, len(metrics))
		var size int
		for i, m := range metrics {
			size = len(b.values[i])
			values[m.Name()] = summarize(m.Op, b.values[i])
		}
		view.Groups = append(view.Groups, entity.Group{Key: b.key, Values: values, SampleSize: size})
	}
	return view, nil
}

func summarize(op entity.MetricOp, vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	switch op {
	case entity.OpCount:
		return float64(len(vals))
	case entity.OpSum:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	case entity.OpMean:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return round3(sum / float64(len(vals)))
	case entity.OpMedian:
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return round3((sorted[mid-1] + sorted[mid]) / 2)
		}
		return sorted[mid]
	}
	return 0
}

// lessKey compares composite group keys part-wise, numerically when both
// parts parse as integers (so month "2" sorts before "10").
func lessKey(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] == b[i] {
			continue
		}
		na, errA := strconv.Atoi(a[i])
		nb, errB := strconv.Atoi(b[i])
		if errA == nil && errB == nil {
			return na < nb
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

func matchesAny(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

func parseFloatOr(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func modeOf(counts map[string]int) string {
	mode := fallbackSES
	best := 0
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
