package pkg

import "math"

// INF_WEIGHT is the distance reported for unreachable or unknown nodes.
var INF_WEIGHT = math.Inf(1)

const (
	EARTH_RADIUS_M float64 = 6371000.0

	// edge plausibility filters applied while loading the road network
	DEFAULT_MAX_EDGE_DISTANCE_M = 5000.0
	DEFAULT_MIN_WEIGHT_RATIO    = 0.1

	// kd-tree pruning. 1 degree latitude ≈ 111km, 1 degree longitude ≈ 85km at ~40°N
	METERS_PER_LAT_DEGREE = 111000.0
	METERS_PER_LNG_DEGREE = 85000.0
)

// NEAREST_SEARCH_RADII are the search radii (meters) tried in order by the kd-tree nearest lookup.
var NEAREST_SEARCH_RADII = [...]float64{100, 500, 1000, 5000, 10000}
