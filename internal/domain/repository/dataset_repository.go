package repository

import (
	"github.com/epzhu/health-surveillance-dashboard-go/internal/domain/entity"
)

// DatasetRepository defines the interface for reading the surveillance
// dataset and its static documentation.
type DatasetRepository interface {
	// LoadDataset reads the delimited file at path into a raw dataset.
	// It fails with types.ErrDataUnavailable when the file is missing,
	// unreadable, or its header does not match the expected schema.
	LoadDataset(path string) (entity.RawDataset, error)

	// GetDataCaveats returns the fixed provenance/cleaning/limitations
	// description. Pure function of no runtime state.
	GetDataCaveats() entity.Caveats
}
