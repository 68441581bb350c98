package main

import (
	"context"
	"os"

	"github.com/jengzang/flight-demand-go/internal/config"
	"github.com/jengzang/flight-demand-go/internal/logger"
	"github.com/jengzang/flight-demand-go/internal/server"
)

func main() {
	// 加载配置
	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	log := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Format == "text",
	})

	srv, err := server.New(context.Background(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}
