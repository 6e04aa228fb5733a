package app

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"slots_backend/internal/config"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()

	ctx := context.Background()
	r := s.ServiceProvider.Router(ctx)

	logger := s.ServiceProvider.Logger()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting server",
		zap.String("address", s.ServiceProvider.HTTPCfg().Address()),
		zap.String("rng_source", s.ServiceProvider.RNGSource().Name()),
	)

	err = http.ListenAndServe(s.ServiceProvider.HTTPCfg().Address(), r)
	if err != nil {
		return err
	}
	return err
}
