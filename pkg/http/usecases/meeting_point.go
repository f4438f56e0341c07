package usecases

import (
	"context"
	"math"
	"sort"

	"github.com/lintang-b-s/smartmeet/pkg/concurrent"
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"go.uber.org/zap"
)

type MeetingOptions struct {
	Campus        string
	SearchRadius  float64
	MaxCandidates int
	TopK          int
}

type MeetingPoint struct {
	POI    datastructure.POI
	NodeID string
	Campus string
	// Distances walking distance from each participant, in participant order.
	Distances     []float64
	MaxDistance   float64
	TotalDistance float64
}

type MeetingPointService struct {
	log     *zap.Logger
	engine  CampusEngine
	index   POIIndex
	locator CampusLocator

	defaults MeetingOptions
	workers  int
}

// NewMeetingPointService defaults fill the zero fields of the options passed to Recommend.
func NewMeetingPointService(log *zap.Logger, engine CampusEngine, index POIIndex, locator CampusLocator,
	defaults MeetingOptions, workers int) *MeetingPointService {
	return &MeetingPointService{
		log:      log,
		engine:   engine,
		index:    index,
		locator:  locator,
		defaults: defaults,
		workers:  util.MaxG(workers, 1),
	}
}

// Recommend ranks candidate POIs around the participants' centroid by the longest walk any participant
// has to make (then by the total walk). candidates some participant cannot reach are discarded.
func (ms *MeetingPointService) Recommend(ctx context.Context, participants []geo.Coordinate, opts MeetingOptions) ([]MeetingPoint, error) {
	opts = ms.withDefaults(opts)
	if len(participants) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "at least one participant is required")
	}

	center, ok := geo.Centroid(participants)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "participants have no well defined center")
	}

	campus := opts.Campus
	if campus == "" {
		campus = inferCampus(ms.locator, center)
	}
	campuses := datastructure.NewCampusSet(nonEmpty(campus)...)

	candidates := rankByDistance(center, ms.index.SearchNearby(center, opts.SearchRadius), opts.MaxCandidates)
	if len(candidates) == 0 {
		poi, found := ms.index.FindNearest(center)
		if !found {
			return nil, util.WrapErrorf(ErrNoNearbyPOI, util.ErrNotFound, "no candidate meeting place near %f,%f",
				center.GetLat(), center.GetLon())
		}
		candidates = []NearbyPOI{{POI: poi}}
	}

	sources := make([]string, len(participants))
	for i, p := range participants {
		id, found := ms.engine.NearestNode(p.GetLat(), p.GetLon(), campuses)
		if !found {
			return nil, util.WrapErrorf(ErrNoNearbyNode, util.ErrNotFound, "no road node near participant %d", i)
		}
		sources[i] = id
	}
	for _, source := range sources[1:] {
		if !ms.engine.Connected(sources[0], source) {
			return nil, util.WrapErrorf(ErrNoMeetingPoint, util.ErrNotFound, "participants %s and %s are not connected",
				sources[0], source)
		}
	}

	distances, err := concurrent.Map(ctx, ms.workers, sources, func(ctx context.Context, source string) map[string]float64 {
		return ms.engine.AllDistancesFrom(source)
	})
	if err != nil {
		return nil, err
	}

	points := make([]MeetingPoint, 0, len(candidates))
	for _, c := range candidates {
		node, found := ms.engine.NearestNode(c.POI.GetLat(), c.POI.GetLon(), campuses)
		if !found {
			continue
		}
		mp, reachable := score(c.POI, node, distances)
		if !reachable {
			continue
		}
		mp.Campus = campus
		points = append(points, mp)
	}

	if len(points) == 0 {
		return nil, util.WrapErrorf(ErrNoMeetingPoint, util.ErrNotFound, "none of %d candidates is reachable by every participant",
			len(candidates))
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].MaxDistance != points[j].MaxDistance {
			return points[i].MaxDistance < points[j].MaxDistance
		}
		return points[i].TotalDistance < points[j].TotalDistance
	})

	k := util.ClampG(opts.TopK, 1, len(points))
	ms.log.Debug("meeting points ranked", zap.Int("participants", len(participants)),
		zap.Int("candidates", len(candidates)), zap.Int("reachable", len(points)), zap.String("campus", campus))
	return points[:k], nil
}

func score(poi datastructure.POI, node string, distances []map[string]float64) (MeetingPoint, bool) {
	mp := MeetingPoint{
		POI:       poi,
		NodeID:    node,
		Distances: make([]float64, len(distances)),
	}
	for i, d := range distances {
		dist, ok := d[node]
		if !ok || math.IsInf(dist, 1) {
			return MeetingPoint{}, false
		}
		mp.Distances[i] = dist
		mp.MaxDistance = util.MaxG(mp.MaxDistance, dist)
		mp.TotalDistance += dist
	}
	return mp, true
}

func (ms *MeetingPointService) withDefaults(opts MeetingOptions) MeetingOptions {
	if opts.SearchRadius <= 0 {
		opts.SearchRadius = ms.defaults.SearchRadius
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = ms.defaults.MaxCandidates
	}
	if opts.TopK <= 0 {
		opts.TopK = ms.defaults.TopK
	}
	return opts
}
