package entity

// MetricOp is a summary statistic computed per group.
type MetricOp string

const (
	OpSum    MetricOp = "sum"
	OpMean   MetricOp = "mean"
	OpCount  MetricOp = "count"
	OpMedian MetricOp = "median"
)

// Metric names a numeric field and the statistic to compute over it.
type Metric struct {
	Field string   `json:"field"`
	Op    MetricOp `json:"op"`
}

// Name returns the column label for the computed metric, e.g. "sum(cases)".
func (m Metric) Name() string {
	return string(m.Op) + "(" + m.Field + ")"
}

// Group holds the computed statistics for one combination of grouping
// dimension values.
type Group struct {
	Key        []string           `json:"key"`
	Values     map[string]float64 `json:"values"`
	SampleSize int                `json:"sample_size"`
}

// AggregatedView is a derived table keyed by one or more grouping
// dimensions. Groups appear in first-appearance order of their key in
// the source dataset unless sorted output was requested.
type AggregatedView struct {
	GroupBy []string `json:"group_by"`
	Metrics []Metric `json:"metrics"`
	Groups  []Group  `json:"groups"`
	Sorted  bool     `json:"sorted,omitempty"`
}

// DimValues returns the distinct values of the dimension at index dim,
// in the order they appear across groups.
func (v AggregatedView) DimValues(dim int) []string {
	seen := map[string]bool{}
	var out []string
	for _, g := range v.Groups {
		if dim >= len(g.Key) {
			continue
		}
		if !seen[g.Key[dim]] {
			seen[g.Key[dim]] = true
			out = append(out, g.Key[dim])
		}
	}
	return out
}
