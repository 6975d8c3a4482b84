package main

import (
	"context"

	"github.com/qrtag/qrtag-api/internal/app"
	"github.com/qrtag/qrtag-api/internal/cache"
	"github.com/qrtag/qrtag-api/internal/config"
	"github.com/qrtag/qrtag-api/internal/db"
	"github.com/qrtag/qrtag-api/internal/logger"
	"github.com/qrtag/qrtag-api/internal/server"
	"github.com/qrtag/qrtag-api/internal/service/account"
	"github.com/qrtag/qrtag-api/internal/service/info"
	"github.com/qrtag/qrtag-api/internal/service/link"
	"github.com/qrtag/qrtag-api/internal/service/profile"
	"github.com/qrtag/qrtag-api/internal/service/visit"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg.App.BaseURL)

	accountSvc := account.NewService(appCtx, account.Config{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		ResetTTL:  cfg.Auth.ResetTTL,
	}, nil)
	profileSvc := profile.NewService(appCtx)
	visitSvc := visit.NewService(appCtx)
	linkSvc := link.NewService(appCtx)
	infoSvc := info.NewService(appCtx)

	registrars := []server.Registrar{
		server.NewAccountHandler(accountSvc, cfg.App.BaseURL),
		server.NewProfileHandler(profileSvc),
		server.NewVisitHandler(visitSvc),
		server.NewLinkHandler(linkSvc),
		server.NewInfoHandler(infoSvc),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	router := server.NewRouter(cfg, redisCache, accountSvc, registrars...)

	log.Info("starting HTTP server", "addr", cfg.HTTP.Host+":"+cfg.HTTP.Port)
	if err := server.Start(cfg, router); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
