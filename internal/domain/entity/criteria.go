package entity

// FilterCriteria is a set of optional predicates combined with AND
// semantics. A zero value (or empty slice) means "no restriction" for
// that criterion.
type FilterCriteria struct {
	YearFrom     int      `json:"year_from,omitempty"`
	YearTo       int      `json:"year_to,omitempty"`
	Regions      []string `json:"regions,omitempty"`
	SESLevels    []string `json:"ses_levels,omitempty"`
	VaccineTypes []string `json:"vaccine_types,omitempty"`
}

// Empty reports whether no predicate is set, in which case filtering
// returns the input dataset unchanged.
func (c FilterCriteria) Empty() bool {
	return c.YearFrom == 0 && c.YearTo == 0 &&
		len(c.Regions) == 0 && len(c.SESLevels) == 0 && len(c.VaccineTypes) == 0
}
