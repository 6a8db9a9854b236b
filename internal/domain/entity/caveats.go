package entity

// FieldDoc documents one dataset column for end users.
type FieldDoc struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// Caveats is the static description of the dataset's provenance,
// cleaning protocol, and known limitations. It is produced once at load
// time and never changes between calls.
type Caveats struct {
	Source        []string   `json:"source"`
	Fields        []FieldDoc `json:"fields"`
	CleaningRules []string   `json:"cleaning_rules"`
	Ethics        []string   `json:"ethics"`
	Limitations   []string   `json:"limitations"`
}
