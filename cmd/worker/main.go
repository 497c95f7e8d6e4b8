package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MichaelAmon/was-project/internal/app"
	"github.com/MichaelAmon/was-project/internal/config"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}
