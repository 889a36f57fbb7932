package sector

// RouteStyle is the stroke of a route.
type RouteStyle struct {
	Color  string
	Dashes bool
}

// RouteStyleFor maps a route kind to its stroke. Hidden routes are fully
// transparent but still take part in the layout.
func RouteStyleFor(kind RouteKind) RouteStyle {
	switch kind {
	case RouteRegular:
		return RouteStyle{Color: "rgba(27, 235, 124, 0.7)"}
	case RouteUnpredictable:
		return RouteStyle{Color: "rgba(255, 0, 132, 0.7)", Dashes: true}
	default:
		return RouteStyle{Color: transparent}
	}
}
