package geo

import "github.com/twpayne/go-polyline"

// PolylineFromCoords encodes coords with the google encoded polyline algorithm (precision 5).
func PolylineFromCoords(coords []Coordinate) string {
	pc := make([][]float64, 0, len(coords))
	for _, c := range coords {
		pc = append(pc, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(pc))
}

// CoordsFromPolyline decodes an encoded polyline back into coordinates.
func CoordsFromPolyline(line string) ([]Coordinate, error) {
	pc, _, err := polyline.DecodeCoords([]byte(line))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(pc))
	for _, p := range pc {
		coords = append(coords, NewCoordinate(p[0], p[1]))
	}
	return coords, nil
}
