package spatialindex

import (
	"math"
	"sort"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// CampusBounds bounding box of one campus, padded by the locator padding.
type CampusBounds struct {
	campus string
	minLat float64
	minLon float64
	maxLat float64
	maxLon float64
}

func (cb CampusBounds) GetCampus() string {
	return cb.campus
}

func (cb CampusBounds) Contains(lat, lon float64) bool {
	return lat >= cb.minLat && lat <= cb.maxLat && lon >= cb.minLon && lon <= cb.maxLon
}

// CampusLocator r-tree over campus bounding boxes, used to guess which campus a coordinate belongs to.
type CampusLocator struct {
	tr     *rtree.RTreeG[string]
	bounds map[string]CampusBounds
}

// NewCampusLocator builds one box per campus tag from the coordinates of its vertices.
// each box is padded by paddingMeters (southwest and northeast corners). untagged vertices are ignored.
func NewCampusLocator(graph *datastructure.Graph, paddingMeters float64, log *zap.Logger) *CampusLocator {
	log.Info("Building campus locator r-tree...")
	raw := make(map[string]CampusBounds)
	graph.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		campus := v.GetCampus()
		if campus == "" {
			return
		}
		lat, lon := v.GetLat(), v.GetLon()
		b, ok := raw[campus]
		if !ok {
			raw[campus] = CampusBounds{campus: campus, minLat: lat, minLon: lon, maxLat: lat, maxLon: lon}
			return
		}
		b.minLat = math.Min(b.minLat, lat)
		b.minLon = math.Min(b.minLon, lon)
		b.maxLat = math.Max(b.maxLat, lat)
		b.maxLon = math.Max(b.maxLon, lon)
		raw[campus] = b
	})

	var tr rtree.RTreeG[string]
	cl := &CampusLocator{
		tr:     &tr,
		bounds: make(map[string]CampusBounds, len(raw)),
	}
	for campus, b := range raw {
		lowerLat, lowerLon := geo.GetDestinationPoint(b.minLat, b.minLon, 225, paddingMeters)
		upperLat, upperLon := geo.GetDestinationPoint(b.maxLat, b.maxLon, 45, paddingMeters)
		padded := CampusBounds{campus: campus, minLat: lowerLat, minLon: lowerLon, maxLat: upperLat, maxLon: upperLon}
		cl.bounds[campus] = padded
		cl.tr.Insert([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}, campus)
	}

	log.Info("Campus locator built.", zap.Int("campuses", len(cl.bounds)))
	return cl
}

// Locate campuses whose padded box contains lat,lon, sorted by name. empty when none.
func (cl *CampusLocator) Locate(lat, lon float64) []string {
	if cl == nil {
		return []string{}
	}
	campuses := make([]string, 0, 2)
	cl.tr.Search([2]float64{lon, lat}, [2]float64{lon, lat},
		func(min, max [2]float64, campus string) bool {
			campuses = append(campuses, campus)
			return true
		})
	sort.Strings(campuses)
	return campuses
}

func (cl *CampusLocator) GetBounds(campus string) (CampusBounds, bool) {
	if cl == nil {
		return CampusBounds{}, false
	}
	b, ok := cl.bounds[campus]
	return b, ok
}

func (cl *CampusLocator) NumberOfCampuses() int {
	if cl == nil {
		return 0
	}
	return len(cl.bounds)
}
