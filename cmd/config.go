package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT"   envDefault:"8000"`
	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"DB_USER"     envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"     envDefault:"pos"`
	DBSslMode  string `env:"DB_SSLMODE"  envDefault:"disable"`

	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"kitchen:orders"`

	MenuCatalogPath     string        `env:"MENU_CATALOG_PATH"`
	OrderServiceURL     string        `env:"ORDER_SERVICE_URL"`
	BootstrapLimit      int           `env:"BOOTSTRAP_LIMIT"       envDefault:"50"`
	LowStockSchedule    string        `env:"LOW_STOCK_SCHEDULE"    envDefault:"0 */5 * * * *"`
	SessionIdleTTL      time.Duration `env:"SESSION_IDLE_TTL"      envDefault:"30m"`
	HubSubscriberBuffer int           `env:"HUB_SUBSCRIBER_BUFFER" envDefault:"32"`
}

// KitchenConfig configures the kitchen display client.
type KitchenConfig struct {
	BaseURL string `env:"KITCHEN_BASE_URL" envDefault:"http://localhost:8000"`
	WSURL   string `env:"KITCHEN_WS_URL"`
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads an optional .env file, then the environment. Variables already
// set win over the file.
func LoadConfig[T any](files ...string) (T, error) {
	var cfg T
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load env file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
