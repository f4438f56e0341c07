package usecases

import (
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"go.uber.org/zap"
)

type CampusService struct {
	log     *zap.Logger
	locator CampusLocator
}

func NewCampusService(log *zap.Logger, locator CampusLocator) *CampusService {
	return &CampusService{
		log:     log,
		locator: locator,
	}
}

// Locate campuses whose padded bounding box contains point, sorted by name.
func (cs *CampusService) Locate(point geo.Coordinate) []string {
	if cs.locator == nil {
		return []string{}
	}
	return cs.locator.Locate(point.GetLat(), point.GetLon())
}

// inferCampus first campus (by name) whose box contains every point. "" when there is none or locator is nil.
func inferCampus(locator CampusLocator, points ...geo.Coordinate) string {
	if locator == nil || len(points) == 0 {
		return ""
	}

	common := append([]string(nil), locator.Locate(points[0].GetLat(), points[0].GetLon())...)
	for _, p := range points[1:] {
		found := make(map[string]struct{})
		for _, c := range locator.Locate(p.GetLat(), p.GetLon()) {
			found[c] = struct{}{}
		}
		kept := common[:0]
		for _, c := range common {
			if _, ok := found[c]; ok {
				kept = append(kept, c)
			}
		}
		common = kept
	}

	if len(common) == 0 {
		return ""
	}
	return common[0]
}
