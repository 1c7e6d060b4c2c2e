package main

import (
	"context"
	"flag"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go-ma-automation/internal/api"
	"go-ma-automation/internal/config"
	"go-ma-automation/internal/ledger"
	"go-ma-automation/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := ledger.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open application ledger")
	}
	defer store.Close()
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate application ledger")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggerMiddleware())

	api.NewHandler(store).Register(r)

	log.Info().Str("addr", *addr).Msg("Starting dashboard server")
	if err := r.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
