package spatialindex

import (
	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"go.uber.org/zap"
)

type POIIndex = KDTree[datastructure.POI]

// LoadPOIIndex reads a pois source and builds a kd-tree over the POIs with usable coordinates.
func LoadPOIIndex(poisFilePath string, log *zap.Logger, opts ...KDTreeOption) (*POIIndex, error) {
	log.Info("Reading points of interest from ", zap.String("poisFilePath", poisFilePath))
	pois, dropped, err := datastructure.ReadPOIs(poisFilePath)
	if err != nil {
		log.Error("Error loading POI data", zap.Error(err))
		return nil, err
	}

	tree := NewKDTree[datastructure.POI](opts...)
	tree.Build(pois)

	log.Info("POI kd-tree built",
		zap.Int("pois", tree.Size()),
		zap.Int("dropped", dropped),
		zap.Int("height", tree.Height()),
	)
	return tree, nil
}
