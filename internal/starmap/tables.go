package starmap

import (
	"errors"

	"github.com/dynamicsector/dynamicsector/internal/sector"
	"github.com/dynamicsector/dynamicsector/internal/table"
)

// FromTables loads both parsed tables and builds a scene.
func FromTables(systems, sectors *table.Table, opts Options) (*Scene, error) {
	sys, err := sector.LoadSystems(systems)
	if err != nil {
		return nil, err
	}
	routes, err := sector.LoadRoutes(sectors)
	if err != nil {
		return nil, err
	}
	return Build(sys, routes, opts)
}

// IsDataError reports whether err comes from invalid table contents rather
// than an internal failure.
func IsDataError(err error) bool {
	for _, target := range []error{
		table.ErrUnparseable,
		sector.ErrMissingColumn,
		sector.ErrInvalidNumber,
		sector.ErrDuplicateLabel,
		sector.ErrEmptyLabel,
		ErrZeroWeight,
		ErrInvalidWeight,
		ErrUnknownSystem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
