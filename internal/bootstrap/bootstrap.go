package bootstrap

import (
	"context"

	"storefront/internal/config"
	"storefront/internal/infra/catalog"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/storage"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 設定から組み立てたインフラ一式
type Deps struct {
	Storage repo.KeyValueStorage
	Catalog repo.CatalogRepository
	DB      *gorm.DB
}

func (d *Deps) Close() error {
	if d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Build はSTORAGE_DRIVER / CATALOG_SOURCEに従って実装を選ぶ。
func Build(ctx context.Context, cfg config.Config, log *logrus.Entry) (*Deps, error) {
	deps := &Deps{}

	if cfg.UsesPostgres() {
		gormDB, err := db.Connect(ctx, cfg.DBConfig)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
		deps.DB = gormDB
	}

	st, err := openStorage(cfg, deps.DB)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Storage = st

	cat, err := openCatalog(ctx, cfg, deps.DB, log)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Catalog = cat

	log.WithFields(logrus.Fields{
		"storage": cfg.StorageDriver,
		"catalog": cfg.CatalogSource,
	}).Info("dependencies ready")
	return deps, nil
}

func openStorage(cfg config.Config, gormDB *gorm.DB) (repo.KeyValueStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	case config.StorageFile:
		return storage.NewFileStorage(cfg.StorageDir)
	case config.StoragePostgres:
		return infraRepo.NewStorageGormRepository(gormDB), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func openCatalog(ctx context.Context, cfg config.Config, gormDB *gorm.DB, log *logrus.Entry) (repo.CatalogRepository, error) {
	switch cfg.CatalogSource {
	case config.CatalogEmbedded:
		return catalog.NewEmbeddedCatalog()
	case config.CatalogFile:
		return catalog.LoadCatalogFile(cfg.CatalogFile)
	case config.CatalogPostgres:
		// 空のテーブルには同梱データを入れる
		seed, err := catalog.NewEmbeddedCatalog()
		if err != nil {
			return nil, err
		}
		productRepo := infraRepo.NewProductGormRepository(gormDB)
		n, err := productRepo.SeedIfEmpty(ctx, seed.Products())
		if err != nil {
			return nil, err
		}
		if n > 0 {
			log.WithField("count", n).Info("catalog seeded")
		}
		return productRepo, nil
	}
	return nil, errors.Errorf("unknown catalog source %q", cfg.CatalogSource)
}
