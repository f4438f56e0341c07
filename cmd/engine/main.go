package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/engine"
	"github.com/lintang-b-s/smartmeet/pkg/http"
	"github.com/lintang-b-s/smartmeet/pkg/http/router/controllers"
	"github.com/lintang-b-s/smartmeet/pkg/http/usecases"
	"github.com/lintang-b-s/smartmeet/pkg/logger"
	"github.com/lintang-b-s/smartmeet/pkg/spatialindex"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configDir = flag.String("config", "./data", "directory containing config.yaml")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}

	campusEngine := engine.NewEngine(logger, engine.WithEdgeFilter(datastructure.EdgeFilter{
		MaxEdgeDistance: viper.GetFloat64("graph.max_edge_distance_m"),
		MinWeightRatio:  viper.GetFloat64("graph.min_weight_ratio"),
	}))
	if err := campusEngine.Load(viper.GetString("data.nodes_path"), viper.GetString("data.edges_path")); err != nil {
		logger.Fatal("load campus graph", zap.Error(err))
	}

	poiIndex, err := spatialindex.LoadPOIIndex(viper.GetString("data.pois_path"), logger,
		spatialindex.WithLonMetersPerDegree(viper.GetFloat64("spatial.lng_meters_per_degree")))
	if err != nil {
		logger.Fatal("load poi index", zap.Error(err))
	}

	locator := spatialindex.NewCampusLocator(campusEngine.GetGraph(), viper.GetFloat64("campus.padding_m"), logger)

	routingService, err := usecases.NewRoutingService(logger, campusEngine, locator, viper.GetInt("route.cache_size"))
	if err != nil {
		logger.Fatal("create routing service", zap.Error(err))
	}
	meetingPointService := usecases.NewMeetingPointService(logger, campusEngine, poiIndex, locator,
		usecases.MeetingOptions{
			SearchRadius:  viper.GetFloat64("meeting.search_radius_m"),
			MaxCandidates: viper.GetInt("meeting.max_candidates"),
			TopK:          viper.GetInt("meeting.top_k"),
		}, viper.GetInt("meeting.workers"))

	services := controllers.Services{
		Routing:      routingService,
		POI:          usecases.NewPOIService(logger, poiIndex),
		MeetingPoint: meetingPointService,
		Campus:       usecases.NewCampusService(logger, locator),
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api, err := http.NewServer(logger).Use(ctx, logger, viper.GetBool("USE_RATE_LIMIT"), services)
	if err != nil {
		logger.Fatal("start api", zap.Error(err))
	}
	logger.Info("SmartMeet campus engine started", zap.Stringer("engine", campusEngine),
		zap.Stringer("pois", poiIndex), zap.Int("campuses", locator.NumberOfCampuses()))

	signal := http.GracefulShutdown()
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("api stopped with error", zap.Error(err))
	}

	logger.Info("SmartMeet campus engine stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
