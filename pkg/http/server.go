package http

import (
	"context"
	"errors"
	"net/http"

	http_router "github.com/lintang-b-s/smartmeet/pkg/http/router"
	"github.com/lintang-b-s/smartmeet/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/smartmeet/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,
	useRateLimit bool,
	services controllers.Services,
) (*Server, error) {
	config := http_server.Config{
		Port:            viper.GetInt("API_PORT"),
		Timeout:         viper.GetDuration("API_TIMEOUT"),
		ShutdownTimeout: viper.GetDuration("HTTP_SERVER_SHUTDOWN_TIMEOUT"),
	}

	server := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, useRateLimit, services)
	})
	s.g = g

	return s, nil
}

// Wait blocks until the API stops. A shutdown caused by ctx cancellation is not an error.
func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	err := s.g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
