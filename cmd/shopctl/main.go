package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"storefront/internal/bootstrap"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/usecase"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(loadRuntime)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// 設定どおりのストレージで、固定キー"cart"のカートを開く
func loadRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Service: "shopctl",
		Env:     cfg.AppEnv,
		Level:   "warn",
		Output:  c.App.ErrWriter,
	})

	deps, err := bootstrap.Build(c.Context, cfg, log)
	if err != nil {
		return nil, err
	}

	store := usecase.NewCartStore(deps.Storage, usecase.DefaultCartKey, log)
	store.Hydrate(c.Context)

	return &runtime{
		store:   store,
		catalog: usecase.NewCatalogUsecase(deps.Catalog, usecase.ParseLocale(cfg.CatalogLocale)),
		repo:    deps.Catalog,
		close:   func() { deps.Close() },
	}, nil
}
