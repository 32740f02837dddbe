package db

import (
	"context"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// DSNはpgxで解釈し、そのコネクションをgormに渡す。
func Connect(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres dsn")
	}

	sqlDB := stdlib.OpenDB(*pgCfg)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, errors.Wrapf(err, "ping postgres %s:%d", pgCfg.Host, pgCfg.Port)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "open gorm")
	}
	return gormDB, nil
}

// 使うテーブルだけマイグレーション
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.StorageEntry{},
		&model.Product{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
