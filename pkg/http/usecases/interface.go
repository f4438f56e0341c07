package usecases

import (
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
)

type CampusEngine interface {
	ShortestPath(start, end string, campuses datastructure.CampusSet) (float64, []string)
	AllDistancesFrom(start string) map[string]float64
	Connected(start, end string) bool
	NearestNode(lat, lng float64, campuses datastructure.CampusSet) (string, bool)
	PathCoords(path []string) [][2]float64
	GetNode(id string) (*datastructure.Vertex, bool)
}

type POIIndex interface {
	SearchNearby(center geo.Coordinate, radius float64) []datastructure.POI
	FindNearest(point geo.Coordinate) (datastructure.POI, bool)
}

type CampusLocator interface {
	Locate(lat, lon float64) []string
}
