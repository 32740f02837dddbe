package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"

	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"

	devSessionSecret = "dev_secret_change_me"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`      // サーバーポート
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`    // dev/prod
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug/info/warn/error

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"` // memory/file/postgres
	StorageDir    string `envconfig:"STORAGE_DIR" default:"./data"`  // file用

	CatalogSource string `envconfig:"CATALOG_SOURCE" default:"embedded"` // embedded/file/postgres
	CatalogFile   string `envconfig:"CATALOG_FILE"`                      // file用
	CatalogLocale string `envconfig:"CATALOG_LOCALE" default:"en"`       // 名前順の照合ロケール

	SessionSecret string        `envconfig:"SESSION_SECRET"`             // cart_session署名
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"` // cart_session有効期限

	DBConfig
}

// postgresドライバ用。DATABASE_URLがあれば最優先。
type DBConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	PGHost      string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PGPort      int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PGUser      string `envconfig:"POSTGRES_USER" default:"postgres"`
	PGPassword  string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PGName      string `envconfig:"POSTGRES_DB" default:"storefront"`
	PGSSLMode   string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DBConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PGHost, c.PGPort, c.PGUser, c.PGPassword, c.PGName, c.PGSSLMode,
	)
}

// Loadは.env（あれば）と環境変数
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// 無いファイルは無視
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if cfg.SessionSecret == "" && cfg.IsDev() {
		cfg.SessionSecret = devSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "dev")
}

func (c Config) UsesPostgres() bool {
	return c.StorageDriver == StoragePostgres || c.CatalogSource == CatalogPostgres
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.StorageDriver {
	case StorageMemory, StoragePostgres:
	case StorageFile:
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR is required for file storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, file, postgres: %q", c.StorageDriver)
	}
	switch c.CatalogSource {
	case CatalogEmbedded, CatalogPostgres:
	case CatalogFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required for file catalog")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of embedded, file, postgres: %q", c.CatalogSource)
	}
	if c.CatalogLocale == "" {
		return fmt.Errorf("CATALOG_LOCALE is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
