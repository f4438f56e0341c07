package controllers

import (
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/http/usecases"
)

type coordinateDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

func (c coordinateDTO) toCoordinate() geo.Coordinate {
	return geo.NewCoordinate(c.Lat, c.Lng)
}

type routeRequest struct {
	Origin      coordinateDTO
	Destination coordinateDTO
	Campus      string `validate:"max=64"`
}

type routeResponse struct {
	Campus      string       `json:"campus,omitempty"`
	Source      string       `json:"source"`
	Destination string       `json:"destination"`
	Distance    float64      `json:"distance"`
	Path        []string     `json:"path"`
	Coords      [][2]float64 `json:"coords"`
	Polyline    string       `json:"polyline"`
}

func NewRouteResponse(route *usecases.Route) routeResponse {
	return routeResponse{
		Campus:      route.Campus,
		Source:      route.Source,
		Destination: route.Destination,
		Distance:    route.Distance,
		Path:        route.Path,
		Coords:      route.Coords,
		Polyline:    route.Polyline,
	}
}

type nearestNodeRequest struct {
	Point  coordinateDTO
	Campus string `validate:"max=64"`
}

type nodeResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Campus   string  `json:"campus,omitempty"`
	Distance float64 `json:"distance"`
}

func NewNodeResponse(v *datastructure.Vertex, from geo.Coordinate) nodeResponse {
	return nodeResponse{
		ID:       v.GetID(),
		Name:     v.GetName(),
		Lat:      v.GetLat(),
		Lng:      v.GetLon(),
		Campus:   v.GetCampus(),
		Distance: from.DistanceTo(geo.NewCoordinate(v.GetLat(), v.GetLon())),
	}
}

type nearbyPOIsRequest struct {
	Center coordinateDTO
	Radius float64 `validate:"min=0,max=50000"`
	Limit  int     `validate:"min=0,max=500"`
}

type poiResponse struct {
	POI      datastructure.POI `json:"poi"`
	Distance float64           `json:"distance"`
}

func NewPOIResponse(p usecases.NearbyPOI) poiResponse {
	return poiResponse{POI: p.POI, Distance: p.Distance}
}

func NewPOIsResponse(pois []usecases.NearbyPOI) []poiResponse {
	res := make([]poiResponse, 0, len(pois))
	for _, p := range pois {
		res = append(res, NewPOIResponse(p))
	}
	return res
}

type meetingPointRequest struct {
	Participants  []coordinateDTO `json:"participants" validate:"required,min=1,max=50,dive"`
	Campus        string          `json:"campus" validate:"max=64"`
	Radius        float64         `json:"radius" validate:"min=0,max=50000"`
	MaxCandidates int             `json:"max_candidates" validate:"min=0,max=500"`
	TopK          int             `json:"top_k" validate:"min=0,max=50"`
}

func (r meetingPointRequest) participants() []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(r.Participants))
	for _, p := range r.Participants {
		coords = append(coords, p.toCoordinate())
	}
	return coords
}

func (r meetingPointRequest) options() usecases.MeetingOptions {
	return usecases.MeetingOptions{
		Campus:        r.Campus,
		SearchRadius:  r.Radius,
		MaxCandidates: r.MaxCandidates,
		TopK:          r.TopK,
	}
}

type meetingPointResponse struct {
	POI           datastructure.POI `json:"poi"`
	Node          string            `json:"node"`
	Campus        string            `json:"campus,omitempty"`
	Distances     []float64         `json:"distances"`
	MaxDistance   float64           `json:"max_distance"`
	TotalDistance float64           `json:"total_distance"`
}

func NewMeetingPointsResponse(points []usecases.MeetingPoint) []meetingPointResponse {
	res := make([]meetingPointResponse, 0, len(points))
	for _, mp := range points {
		res = append(res, meetingPointResponse{
			POI:           mp.POI,
			Node:          mp.NodeID,
			Campus:        mp.Campus,
			Distances:     mp.Distances,
			MaxDistance:   mp.MaxDistance,
			TotalDistance: mp.TotalDistance,
		})
	}
	return res
}

type campusLocateResponse struct {
	Campuses []string `json:"campuses"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
