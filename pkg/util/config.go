package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lintang-b-s/smartmeet/pkg"
	"github.com/spf13/viper"
)

// ReadConfig reads config.yaml from configDir. A missing file is not an error, defaults and env vars still apply.
func ReadConfig(configDir string) error {
	SetDefaults()

	viper.SetConfigName("config")
	viper.AddConfigPath(configDir)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetDefaults() {
	viper.SetDefault("data.nodes_path", "./data/campus/nodes.json")
	viper.SetDefault("data.edges_path", "./data/campus/edges.json")
	viper.SetDefault("data.pois_path", "./data/campus/pois.json")

	viper.SetDefault("graph.max_edge_distance_m", pkg.DEFAULT_MAX_EDGE_DISTANCE_M)
	viper.SetDefault("graph.min_weight_ratio", pkg.DEFAULT_MIN_WEIGHT_RATIO)

	viper.SetDefault("spatial.lng_meters_per_degree", pkg.METERS_PER_LNG_DEGREE)
	viper.SetDefault("campus.padding_m", 300.0)

	viper.SetDefault("meeting.search_radius_m", 1000.0)
	viper.SetDefault("meeting.max_candidates", 50)
	viper.SetDefault("meeting.top_k", 5)
	viper.SetDefault("meeting.workers", 4)

	viper.SetDefault("route.cache_size", 4096)

	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", 30*time.Second)
	viper.SetDefault("USE_RATE_LIMIT", true)
	viper.SetDefault("RATE_LIMIT_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", 10*time.Second)
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", 10*time.Second)
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second)
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second)
	viper.SetDefault("HTTP_SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)
}
