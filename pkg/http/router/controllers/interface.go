package controllers

import (
	"context"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/http/usecases"
)

type RoutingService interface {
	Route(ctx context.Context, origin, destination geo.Coordinate, campus string) (*usecases.Route, error)
	NearestNode(point geo.Coordinate, campus string) (*datastructure.Vertex, error)
}

type POIService interface {
	Nearby(center geo.Coordinate, radius float64, limit int) ([]usecases.NearbyPOI, error)
	Nearest(point geo.Coordinate) (usecases.NearbyPOI, error)
}

type MeetingPointService interface {
	Recommend(ctx context.Context, participants []geo.Coordinate, opts usecases.MeetingOptions) ([]usecases.MeetingPoint, error)
}

type CampusService interface {
	Locate(point geo.Coordinate) []string
}

type Services struct {
	Routing      RoutingService
	POI          POIService
	MeetingPoint MeetingPointService
	Campus       CampusService
}
