package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/migration"
	"github.com/noah-isme/bookly-api/pkg/config"
	"github.com/noah-isme/bookly-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := migration.Open(cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := migration.Run(db); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}
	logr.Info("schema up to date", zap.String("database", cfg.Database.Name))
}
