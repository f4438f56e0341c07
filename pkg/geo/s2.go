package geo

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Centroid returns the spherical centroid of coords: the normalized sum of their unit vectors.
// Returns false for an empty input or when the points cancel out (e.g. two antipodal points).
func Centroid(coords []Coordinate) (Coordinate, bool) {
	if len(coords) == 0 {
		return Coordinate{}, false
	}

	sum := r3.Vector{}
	for _, c := range coords {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
		sum = sum.Add(p.Vector)
	}

	if sum.Norm() < 1e-12 {
		return Coordinate{}, false
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees()), true
}
