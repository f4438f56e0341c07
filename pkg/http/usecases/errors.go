package usecases

import "errors"

var (
	ErrNoRoute        = errors.New("no route between origin and destination")
	ErrNoNearbyNode   = errors.New("no road node near the given location")
	ErrNoNearbyPOI    = errors.New("no point of interest near the given location")
	ErrNoMeetingPoint = errors.New("no meeting point reachable by every participant")
)
