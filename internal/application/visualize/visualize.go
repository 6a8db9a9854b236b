// Package visualize turns prepared datasets and aggregated views into
// renderer-agnostic chart specifications and summary KPIs.
package visualize

import (
	"fmt"
	"math"
	"sort"

	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
	"github.com/epzhu/health-surveillance-dashboard-go/internal/shared/types"
)

// Indicators recognized by BuildTimeSeries, with how monthly values are
// folded: case counts are summed, rates are averaged.
var indicators = map[string]struct {
	label string
	mean  bool
	value func(entity.Record) float64
}{
	entity.ColCases: {
		label: "Monthly New Cases",
		value: func(r entity.Record) float64 { return float64(r.Cases) },
	},
	entity.ColVaccinationRate: {
		label: "Average Vaccination Rate",
		mean:  true,
		value: func(r entity.Record) float64 { return r.VaccinationRate },
	},
	"resource_load": {
		label: "Average Resource Load",
		mean:  true,
		value: func(r entity.Record) float64 { return r.ResourceLoad },
	},
}

// IndicatorNames lists the valid BuildTimeSeries indicators, sorted.
func IndicatorNames() []string {
	names := make([]string, 0, len(indicators))
	for name := range indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildKPIs computes the headline indicators over the given (post-filter)
// dataset. An empty dataset yields zeroed KPIs, never an error.
func BuildKPIs(ds entity.Dataset) entity.KPISet {
	if ds.Empty() {
		return entity.KPISet{}
	}

	var kpis entity.KPISet
	kpis.Records = ds.Len()

	var rateSum, loadSum float64
	seasonCases := map[string]int{}
	for _, rec := range ds.Records {
		kpis.TotalCases += rec.Cases
		rateSum += rec.VaccinationRate
		loadSum += rec.ResourceLoad
		seasonCases[rec.Season] += rec.Cases
	}
	n := float64(ds.Len())
	kpis.AvgVaccinationRate = round3(rateSum / n)
	kpis.AvgResourceLoad = round3(loadSum / n)

	// Ties resolve to the first season in calendar order.
	for _, season := range []string{entity.SeasonWinter, entity.SeasonSpring, entity.SeasonSummer, entity.SeasonAutumn} {
		if cases, ok := seasonCases[season]; ok && (kpis.PeakSeason == "" || cases > kpis.PeakSeasonCases) {
			kpis.PeakSeasonCases = cases
			kpis.PeakSeason = season
		}
	}
	return kpis
}

// BuildTimeSeries produces one chronologically ordered series per region
// for the named indicator. Periods are labeled YYYY-MM. An unrecognized
// indicator fails with types.ErrUnknownIndicator.
func BuildTimeSeries(ds entity.Dataset, indicator string) (entity.ChartSpec, error) {
	ind, ok := indicators[indicator]
	if !ok {
		return entity.ChartSpec{}, fmt.Errorf("%w: %q", types.ErrUnknownIndicator, indicator)
	}

	type cell struct {
		sum float64
		n   int
	}
	type periodKey struct {
		year, month int
	}

	cells := map[string]map[periodKey]*cell{}
	var regions []string
	periods := map[periodKey]bool{}

	for _, rec := range ds.Records {
		pk := periodKey{rec.Year, rec.Month}
		periods[pk] = true
		byPeriod, ok := cells[rec.Region]
		if !ok {
			byPeriod = map[periodKey]*cell{}
			cells[rec.Region] = byPeriod
			regions = append(regions, rec.Region)
		}
		c, ok := byPeriod[pk]
		if !ok {
			c = &cell{}
			byPeriod[pk] = c
		}
		c.sum += ind.value(rec)
		c.n++
	}

	ordered := make([]periodKey, 0, len(periods))
	for pk := range periods {
		ordered = append(ordered, pk)
	}
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].year != ordered[b].year {
			return ordered[a].year < ordered[b].year
		}
		return ordered[a].month < ordered[b].month
	})
	sort.Strings(regions)

	spec := entity.ChartSpec{
		Kind:   entity.ChartLine,
		Title:  fmt.Sprintf("%s by Region", ind.label),
		XLabel: "Period",
		YLabel: ind.label,
	}
	for _, region := range regions {
		series := entity.Series{Name: region}
		for i, pk := range ordered {
			c, ok := cells[region][pk]
			if !ok {
				continue
			}
			v := c.sum
			if ind.mean {
				v = round3(v / float64(c.n))
			}
			series.Points = append(series.Points, entity.Point{
				Label: fmt.Sprintf("%04d-%02d", pk.year, pk.month),
				X:     float64(i),
				Y:     v,
			})
		}
		spec.Series = append(spec.Series, series)
	}
	return spec, nil
}

// BuildHeatmap maps a two-dimensional aggregated view (e.g. region x SES)
// into a heatmap specification over the view's first metric.
func BuildHeatmap(view entity.AggregatedView) (entity.ChartSpec, error) {
	if len(view.GroupBy) != 2 {
		return entity.ChartSpec{}, fmt.Errorf("%w: heatmap requires exactly two grouping dimensions, got %d",
			types.ErrInvalidGrouping, len(view.GroupBy))
	}
	if len(view.Metrics) == 0 {
		return entity.ChartSpec{}, fmt.Errorf("%w: heatmap requires at least one metric", types.ErrInvalidGrouping)
	}
	metric := view.Metrics[0].Name()

	xLabels := view.DimValues(0)
	yLabels := view.DimValues(1)

	values := make([][]float64, len(yLabels))
	for y := range values {
		values[y] = make([]float64, len(xLabels))
		for x := range values[y] {
			values[y][x] = math.NaN()
		}
	}
	xIndex := indexOf(xLabels)
	yIndex := indexOf(yLabels)
	for _, g := range view.Groups {
		values[yIndex[g.Key[1]]][xIndex[g.Key[0]]] = g.Values[metric]
	}

	return entity.ChartSpec{
		Kind:   entity.ChartHeatmap,
		Title:  fmt.Sprintf("%s by %s and %s", metric, view.GroupBy[0], view.GroupBy[1]),
		XLabel: view.GroupBy[0],
		YLabel: view.GroupBy[1],
		Cells: entity.HeatmapCells{
			XLabels: xLabels,
			YLabels: yLabels,
			Values:  values,
			Metric:  metric,
		},
	}, nil
}

// BuildComparison produces grouped side-by-side bars from an aggregated
// view: one series per value of the named dimension, bars keyed by the
// remaining dimensions. The dimension must be part of the view.
func BuildComparison(view entity.AggregatedView, dimension string) (entity.ChartSpec, error) {
	di := -1
	for i, dim := range view.GroupBy {
		if dim == dimension {
			di = i
			break
		}
	}
	if di < 0 {
		return entity.ChartSpec{}, fmt.Errorf("%w: %q is not a dimension of the view", types.ErrInvalidGrouping, dimension)
	}
	if len(view.Metrics) == 0 {
		return entity.ChartSpec{}, fmt.Errorf("%w: comparison requires at least one metric", types.ErrInvalidGrouping)
	}
	metric := view.Metrics[0].Name()

	restKey := func(key []string) string {
		var parts []string
		for i, k := range key {
			if i != di {
				parts = append(parts, k)
			}
		}
		if len(parts) == 0 {
			return metric
		}
		return joinKey(parts)
	}

	var xLabels []string
	seenX := map[string]int{}
	var seriesOrder []string
	seriesIdx := map[string]int{}
	var spec entity.ChartSpec

	for _, g := range view.Groups {
		x := restKey(g.Key)
		if _, ok := seenX[x]; !ok {
			seenX[x] = len(xLabels)
			xLabels = append(xLabels, x)
		}
		name := g.Key[di]
		if _, ok := seriesIdx[name]; !ok {
			seriesIdx[name] = len(seriesOrder)
			seriesOrder = append(seriesOrder, name)
			spec.Series = append(spec.Series, entity.Series{Name: name})
		}
		si := seriesIdx[name]
		spec.Series[si].Points = append(spec.Series[si].Points, entity.Point{
			Label: x,
			X:     float64(seenX[x]),
			Y:     g.Values[metric],
		})
	}

	spec.Kind = entity.ChartBar
	spec.Title = fmt.Sprintf("%s by %s", metric, dimension)
	spec.XLabel = joinKey(remove(view.GroupBy, di))
	spec.YLabel = metric
	return spec, nil
}

// BuildQualityReport summarizes per-column missing-value ratios of the
// raw (pre-clean) table as a bar chart, worst columns first.
func BuildQualityReport(raw entity.RawDataset) entity.ChartSpec {
	total := len(raw.Records)

	counts := map[string]int{}
	for _, rr := range raw.Records {
		for col, val := range map[string]string{
			entity.ColYear:            rr.Year,
			entity.ColMonth:           rr.Month,
			entity.ColRegion:          rr.Region,
			entity.ColSES:             rr.SES,
			entity.ColCases:           rr.Cases,
			entity.ColVaccinationRate: rr.VaccinationRate,
			entity.ColVaccineType:     rr.VaccineType,
			entity.ColHospitalCap:     rr.HospitalCap,
			entity.ColHospitalReq:     rr.HospitalReq,
			entity.ColAge:             rr.Age,
		} {
			if val == "" {
				counts[col]++
			}
		}
	}

	series := entity.Series{Name: "missing_ratio"}
	for i, col := range entity.RequiredColumns {
		ratio := 0.0
		if total > 0 {
			ratio = round3(float64(counts[col]) / float64(total))
		}
		series.Points = append(series.Points, entity.Point{Label: col, X: float64(i), Y: ratio})
	}
	sort.SliceStable(series.Points, func(a, b int) bool {
		return series.Points[a].Y > series.Points[b].Y
	})
	for i := range series.Points {
		series.Points[i].X = float64(i)
	}

	return entity.ChartSpec{
		Kind:   entity.ChartBar,
		Title:  "Data Quality: Missing Value Ratio by Field",
		XLabel: "Field",
		YLabel: "Missing Ratio",
		Series: []entity.Series{series},
	}
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

func joinKey(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " / "
		}
		out += p
	}
	return out
}

func remove(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
