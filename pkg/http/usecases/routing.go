package usecases

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"go.uber.org/zap"
)

type Route struct {
	Campus      string
	Source      string
	Destination string
	Distance    float64
	Path        []string
	Coords      [][2]float64
	Polyline    string
}

type routeCacheKey struct {
	source, destination, campus string
}

type RoutingService struct {
	log     *zap.Logger
	engine  CampusEngine
	locator CampusLocator
	cache   *lru.Cache[routeCacheKey, *Route]
}

// NewRoutingService locator may be nil, or a nil *spatialindex.CampusLocator (no campus inference). cacheSize <= 0 disables the route cache.
func NewRoutingService(log *zap.Logger, engine CampusEngine, locator CampusLocator, cacheSize int) (*RoutingService, error) {
	rs := &RoutingService{
		log:     log,
		engine:  engine,
		locator: locator,
	}
	if cacheSize > 0 {
		cache, err := lru.New[routeCacheKey, *Route](cacheSize)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "create route cache")
		}
		rs.cache = cache
	}
	return rs, nil
}

// Route snaps origin and destination to their nearest road nodes and returns the shortest walk between them.
// an empty campus is inferred from the campus boxes shared by both ends, if any.
func (rs *RoutingService) Route(ctx context.Context, origin, destination geo.Coordinate, campus string) (*Route, error) {
	if campus == "" {
		campus = inferCampus(rs.locator, origin, destination)
	}
	campuses := datastructure.NewCampusSet(nonEmpty(campus)...)

	source, err := rs.snap(origin, campuses)
	if err != nil {
		return nil, err
	}
	target, err := rs.snap(destination, campuses)
	if err != nil {
		return nil, err
	}

	key := routeCacheKey{source: source, destination: target, campus: campus}
	if rs.cache != nil {
		if route, ok := rs.cache.Get(key); ok {
			return route, nil
		}
	}

	if util.StopConcurrentOperation(ctx) {
		return nil, ctx.Err()
	}

	dist, path := rs.engine.ShortestPath(source, target, campuses)
	if path == nil {
		return nil, util.WrapErrorf(ErrNoRoute, util.ErrNotFound, "no route from %s to %s", source, target)
	}

	coords := rs.engine.PathCoords(path)
	line := make([]geo.Coordinate, 0, len(coords))
	for _, c := range coords {
		line = append(line, geo.NewCoordinate(c[1], c[0]))
	}

	route := &Route{
		Campus:      campus,
		Source:      source,
		Destination: target,
		Distance:    dist,
		Path:        path,
		Coords:      coords,
		Polyline:    geo.PolylineFromCoords(line),
	}
	if rs.cache != nil {
		rs.cache.Add(key, route)
	}
	rs.log.Debug("route computed", zap.String("source", source), zap.String("destination", target),
		zap.Float64("distance", dist), zap.Int("nodes", len(path)))
	return route, nil
}

// NearestNode nearest road node to point, restricted to campus when not empty.
func (rs *RoutingService) NearestNode(point geo.Coordinate, campus string) (*datastructure.Vertex, error) {
	id, err := rs.snap(point, datastructure.NewCampusSet(nonEmpty(campus)...))
	if err != nil {
		return nil, err
	}
	v, _ := rs.engine.GetNode(id)
	return v, nil
}

func (rs *RoutingService) snap(point geo.Coordinate, campuses datastructure.CampusSet) (string, error) {
	id, found := rs.engine.NearestNode(point.GetLat(), point.GetLon(), campuses)
	if !found {
		return "", util.WrapErrorf(ErrNoNearbyNode, util.ErrNotFound, "no road node near %f,%f",
			point.GetLat(), point.GetLon())
	}
	return id, nil
}

func nonEmpty(campus string) []string {
	if campus == "" {
		return nil
	}
	return []string{campus}
}
