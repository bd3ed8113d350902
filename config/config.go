package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	QuotaExact   = "exact"
	QuotaCeiling = "ceiling"
)

type App struct {
	// HTTP
	Port        string   `envconfig:"PORT" default:"8080"`
	CorsOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Store
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mysql"`
	MySQLURL    string `envconfig:"MYSQL_URL"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBUser      string `envconfig:"DB_USER" default:"root"`
	DBPass      string `envconfig:"DB_PASS"`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBName      string `envconfig:"DB_NAME" default:"hotel_db"`

	// Allocation
	MaxRoomsPerGuest  int           `envconfig:"MAX_ROOMS_PER_GUEST" default:"4"`
	QuotaCheck        string        `envconfig:"QUOTA_CHECK" default:"exact"`
	StoreWriteTimeout time.Duration `envconfig:"STORE_WRITE_TIMEOUT" default:"5s"`
	BookTimeout       time.Duration `envconfig:"BOOK_TIMEOUT" default:"30s"`

	// Maintenance
	SeedRooms      int `envconfig:"SEED_ROOMS" default:"0"`
	SeedFloors     int `envconfig:"SEED_FLOORS" default:"5"`
	RandomizeCount int `envconfig:"RANDOMIZE_COUNT" default:"0"`

	// Events
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"hotel.rooms"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads an optional .env file, then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not loaded; continuing with environment variables", "err", err)
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c App) Validate() error {
	if c.MaxRoomsPerGuest <= 0 {
		return fmt.Errorf("MAX_ROOMS_PER_GUEST must be positive, got %d", c.MaxRoomsPerGuest)
	}
	switch c.StoreDriver {
	case DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.QuotaCheck {
	case QuotaExact, QuotaCeiling:
	default:
		return fmt.Errorf("unknown QUOTA_CHECK %q", c.QuotaCheck)
	}
	if c.SeedRooms < 0 || c.SeedFloors <= 0 {
		return fmt.Errorf("SEED_ROOMS must be >= 0 and SEED_FLOORS > 0")
	}
	return nil
}

// Origins returns the trimmed CORS origins, falling back to "*".
func (c App) Origins() []string {
	origins := make([]string, 0, len(c.CorsOrigins))
	for _, part := range c.CorsOrigins {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
