package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/smartmeet/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type campusAPI struct {
	services Services
	log      *zap.Logger
}

func New(services Services, log *zap.Logger) *campusAPI {
	return &campusAPI{
		services: services,
		log:      log,
	}
}

func (api *campusAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
	group.GET("/nearestNode", api.nearestNode)
	group.GET("/pois/nearby", api.nearbyPOIs)
	group.GET("/pois/nearest", api.nearestPOI)
	group.POST("/meetingPoint", api.meetingPoint)
	group.GET("/campus/locate", api.locateCampus)
}

// route
//
//	@Summary	shortest walking route between two coordinates, both snapped to their nearest road node
//	@Tags		routing
//	@Param		origin_lat		query	number	true	"origin latitude"
//	@Param		origin_lng		query	number	true	"origin longitude"
//	@Param		destination_lat	query	number	true	"destination latitude"
//	@Param		destination_lng	query	number	true	"destination longitude"
//	@Param		campus			query	string	false	"restrict the route to one campus"
//	@Produce	application/json
//	@Success	200	{object}	routeResponse
//	@Router		/route [get]
func (api *campusAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request routeRequest
		err     error
	)

	query := r.URL.Query()
	request.Origin, err = parseCoordinateQuery(query, "origin_lat", "origin_lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Destination, err = parseCoordinateQuery(query, "destination_lat", "destination_lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Campus = query.Get("campus")

	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.services.Routing.Route(r.Context(), request.Origin.toCoordinate(),
		request.Destination.toCoordinate(), request.Campus)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// nearestNode
//
//	@Summary	nearest road node to a coordinate
//	@Tags		routing
//	@Param		lat		query	number	true	"latitude"
//	@Param		lng		query	number	true	"longitude"
//	@Param		campus	query	string	false	"only consider nodes of this campus"
//	@Produce	application/json
//	@Success	200	{object}	nodeResponse
//	@Router		/nearestNode [get]
func (api *campusAPI) nearestNode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestNodeRequest
		err     error
	)

	query := r.URL.Query()
	request.Point, err = parseCoordinateQuery(query, "lat", "lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Campus = query.Get("campus")

	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	point := request.Point.toCoordinate()
	v, err := api.services.Routing.NearestNode(point, request.Campus)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodeResponse(v, point)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// nearbyPOIs
//
//	@Summary	points of interest within a radius, closest first
//	@Tags		poi
//	@Param		lat		query	number	true	"latitude"
//	@Param		lng		query	number	true	"longitude"
//	@Param		radius	query	number	false	"radius in meters (default 500)"
//	@Param		limit	query	int		false	"max number of results (default 20)"
//	@Produce	application/json
//	@Success	200	{array}	poiResponse
//	@Router		/pois/nearby [get]
func (api *campusAPI) nearbyPOIs(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyPOIsRequest
		err     error
	)

	query := r.URL.Query()
	request.Center, err = parseCoordinateQuery(query, "lat", "lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Radius, err = parseOptionalFloatQuery(query, "radius", 500)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Limit, err = parseOptionalIntQuery(query, "limit", 20)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	pois, err := api.services.POI.Nearby(request.Center.toCoordinate(), request.Radius, request.Limit)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewPOIsResponse(pois)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// nearestPOI
//
//	@Summary	approximate nearest point of interest, searched up to 10 km away
//	@Tags		poi
//	@Param		lat	query	number	true	"latitude"
//	@Param		lng	query	number	true	"longitude"
//	@Produce	application/json
//	@Success	200	{object}	poiResponse
//	@Router		/pois/nearest [get]
func (api *campusAPI) nearestPOI(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	point, err := parseCoordinateQuery(r.URL.Query(), "lat", "lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(point); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	poi, err := api.services.POI.Nearest(point.toCoordinate())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewPOIResponse(poi)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// meetingPoint
//
//	@Summary	fair meeting places for a group: minimizes the longest walk of any participant
//	@Tags		meeting
//	@Param		body	body	meetingPointRequest	true	"participants and search options"
//	@Accept		application/json
//	@Produce	application/json
//	@Success	200	{array}	meetingPointResponse
//	@Router		/meetingPoint [post]
func (api *campusAPI) meetingPoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request meetingPointRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		api.BadRequestResponse(w, r, errors.New("body must be a valid meeting point request"))
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	points, err := api.services.MeetingPoint.Recommend(r.Context(), request.participants(), request.options())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewMeetingPointsResponse(points)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// locateCampus
//
//	@Summary	campuses whose bounding box contains a coordinate
//	@Tags		campus
//	@Param		lat	query	number	true	"latitude"
//	@Param		lng	query	number	true	"longitude"
//	@Produce	application/json
//	@Success	200	{object}	campusLocateResponse
//	@Router		/campus/locate [get]
func (api *campusAPI) locateCampus(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	point, err := parseCoordinateQuery(r.URL.Query(), "lat", "lng")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(point); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	campuses := api.services.Campus.Locate(point.toCoordinate())
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": campusLocateResponse{Campuses: campuses}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
