package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/bootstrap"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Service: "storefront-api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//ストレージ・カタログ
	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build dependencies")
	}
	defer deps.Close()

	//Usecase生成
	sessions := usecase.NewCartSessions(deps.Storage, log, usecase.CartSessionsConfig{
		IdleTTL: cfg.SessionTTL,
	})
	cartUC := usecase.NewCartUsecase(sessions, deps.Catalog)
	catalogUC := usecase.NewCatalogUsecase(deps.Catalog, usecase.ParseLocale(cfg.CatalogLocale))

	//Handler生成
	productH := handler.NewProductHandler(catalogUC, cartUC)
	cartH := handler.NewCartHandler(cartUC)

	sessionCfg := middleware.CartSessionConfig{
		Secret: []byte(cfg.SessionSecret),
		TTL:    cfg.SessionTTL,
		Secure: !cfg.IsDev(),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	e := server.New(log, sessionCfg, productH, cartH)
	if err := server.Start(ctx, e, addr, log); err != nil {
		log.WithError(err).Error("server stopped with error")
		deps.Close()
		os.Exit(1)
	}
	log.Info("server stopped")
}
