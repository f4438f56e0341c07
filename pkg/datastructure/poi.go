package datastructure

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// POI is a point of interest. only lat/lng are interpreted, every other field is kept as raw json
// and written back unchanged by MarshalJSON.
type POI struct {
	lat        float64
	lon        float64
	attributes map[string]json.RawMessage
}

// NewPOI builds a POI from its coordinates and extra fields. attribute values are json encoded.
func NewPOI(lat, lon float64, attributes map[string]any) (POI, error) {
	raw := make(map[string]json.RawMessage, len(attributes)+2)
	for k, v := range attributes {
		b, err := json.Marshal(v)
		if err != nil {
			return POI{}, err
		}
		raw[k] = b
	}
	raw["lat"] = json.RawMessage(strconv.FormatFloat(lat, 'f', -1, 64))
	raw["lng"] = json.RawMessage(strconv.FormatFloat(lon, 'f', -1, 64))
	return POI{lat: lat, lon: lon, attributes: raw}, nil
}

func (p POI) GetLat() float64 {
	return p.lat
}

func (p POI) GetLon() float64 {
	return p.lon
}

func (p POI) GetAttribute(key string) (json.RawMessage, bool) {
	v, ok := p.attributes[key]
	return v, ok
}

// GetString returns a string attribute, "" when absent or not a string.
func (p POI) GetString(key string) string {
	raw, ok := p.attributes[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (p POI) MarshalJSON() ([]byte, error) {
	if p.attributes == nil {
		return json.Marshal(map[string]float64{"lat": p.lat, "lng": p.lon})
	}
	return json.Marshal(p.attributes)
}

func (p *POI) UnmarshalJSON(data []byte) error {
	poi, ok := parsePOI(data)
	if !ok {
		return errInvalidPOI
	}
	*p = poi
	return nil
}

var errInvalidPOI = errors.New("poi must be an object with numeric lat and lng")

func parsePOI(raw json.RawMessage) (POI, bool) {
	var attributes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &attributes); err != nil || attributes == nil {
		return POI{}, false
	}

	lat, ok := parseCoordinate(attributes["lat"])
	if !ok {
		return POI{}, false
	}
	lon, ok := parseCoordinate(attributes["lng"])
	if !ok {
		return POI{}, false
	}
	return POI{lat: lat, lon: lon, attributes: attributes}, true
}

// parseCoordinate accepts a json number or a numeric string (some map APIs quote coordinates).
func parseCoordinate(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var (
		val float64
		err error
	)
	if err = json.Unmarshal(raw, &val); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		val, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}

	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}
