package usecases

import (
	"sort"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"go.uber.org/zap"
)

type NearbyPOI struct {
	POI      datastructure.POI
	Distance float64
}

type POIService struct {
	log   *zap.Logger
	index POIIndex
}

func NewPOIService(log *zap.Logger, index POIIndex) *POIService {
	return &POIService{
		log:   log,
		index: index,
	}
}

// Nearby POIs within radius meters of center, closest first. limit <= 0 means no limit.
func (ps *POIService) Nearby(center geo.Coordinate, radius float64, limit int) ([]NearbyPOI, error) {
	if radius < 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "radius must not be negative, got %f", radius)
	}
	return rankByDistance(center, ps.index.SearchNearby(center, radius), limit), nil
}

// Nearest approximate nearest POI (searched up to 10 km away).
func (ps *POIService) Nearest(point geo.Coordinate) (NearbyPOI, error) {
	poi, found := ps.index.FindNearest(point)
	if !found {
		return NearbyPOI{}, util.WrapErrorf(ErrNoNearbyPOI, util.ErrNotFound, "no point of interest within 10 km of %f,%f",
			point.GetLat(), point.GetLon())
	}
	return NearbyPOI{POI: poi, Distance: point.DistanceTo(geo.NewCoordinate(poi.GetLat(), poi.GetLon()))}, nil
}

// rankByDistance sorts pois by distance to center, keeping traversal order among equals.
func rankByDistance(center geo.Coordinate, pois []datastructure.POI, limit int) []NearbyPOI {
	ranked := make([]NearbyPOI, 0, len(pois))
	for _, p := range pois {
		ranked = append(ranked, NearbyPOI{
			POI:      p,
			Distance: center.DistanceTo(geo.NewCoordinate(p.GetLat(), p.GetLon())),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
