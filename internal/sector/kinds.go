// Package sector derives presentation attributes for star systems and
// routes, and loads them from parsed tables.
package sector

import "strings"

// BodyKind distinguishes suns from every other body.
type BodyKind int

const (
	BodyOther BodyKind = iota
	BodySun
)

// SunType is the type cell value that marks a sun.
const SunType = "Sun"

// ParseBodyKind maps a system's type cell to a BodyKind.
// Only the exact value "Sun" is a sun.
func ParseBodyKind(typ string) BodyKind {
	switch typ {
	case SunType:
		return BodySun
	default:
		return BodyOther
	}
}

func (k BodyKind) String() string {
	switch k {
	case BodySun:
		return "sun"
	default:
		return "other"
	}
}

// RouteKind classifies a route for styling.
type RouteKind int

const (
	RouteHidden RouteKind = iota
	RouteRegular
	RouteUnpredictable
)

// ParseRouteKind maps a route's type cell to a RouteKind. Unknown values,
// including the empty string, are hidden routes.
func ParseRouteKind(typ string) RouteKind {
	switch typ {
	case "Regular":
		return RouteRegular
	case "Unpredictable":
		return RouteUnpredictable
	default:
		return RouteHidden
	}
}

func (k RouteKind) String() string {
	switch k {
	case RouteRegular:
		return "regular"
	case RouteUnpredictable:
		return "unpredictable"
	default:
		return "hidden"
	}
}

// normalizeCell trims surrounding whitespace from a categorical cell before
// it is parsed, so " Sun" from a padded spreadsheet cell is still a sun.
// Case is kept: "sun" is not a sun and "regular" is a hidden route.
func normalizeCell(s string) string {
	return strings.TrimSpace(s)
}
