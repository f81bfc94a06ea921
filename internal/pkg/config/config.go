package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, sweep intervals, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Inventory InventoryConfig
	Hotel     HotelClientConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// BookingConfig drives the booking saga and its expiry sweeper.
type BookingConfig struct {
	PendingTimeout time.Duration `envconfig:"BOOKING_PENDING_TIMEOUT" default:"5m"`
	SweepInterval  time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"60s"`
	SweepBatchSize int           `envconfig:"BOOKING_SWEEP_BATCH_SIZE" default:"100"`
}

// InventoryConfig drives room reservation holds and their expiry sweeper.
type InventoryConfig struct {
	HoldTimeout    time.Duration `envconfig:"INVENTORY_HOLD_TIMEOUT" default:"5m"`
	SweepInterval  time.Duration `envconfig:"INVENTORY_SWEEP_INTERVAL" default:"60s"`
	SweepBatchSize int           `envconfig:"INVENTORY_SWEEP_BATCH_SIZE" default:"100"`
}

// HotelClientConfig is the retry policy of the booking→inventory HTTP client.
type HotelClientConfig struct {
	BaseURL        string        `envconfig:"HOTEL_SERVICE_URL" default:"http://localhost:8082"`
	Timeout        time.Duration `envconfig:"HOTEL_SERVICE_TIMEOUT" default:"5s"`
	MaxAttempts    uint64        `envconfig:"HOTEL_SERVICE_RETRY_MAX_ATTEMPTS" default:"3"`
	InitialBackoff time.Duration `envconfig:"HOTEL_SERVICE_RETRY_INITIAL_INTERVAL" default:"200ms"`
	MaxBackoff     time.Duration `envconfig:"HOTEL_SERVICE_RETRY_MAX_INTERVAL" default:"5s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Booking: BookingConfig{
			PendingTimeout: 5 * time.Minute,
			SweepInterval:  time.Minute,
			SweepBatchSize: 100,
		},
		Inventory: InventoryConfig{
			HoldTimeout:    5 * time.Minute,
			SweepInterval:  time.Minute,
			SweepBatchSize: 100,
		},
		Hotel: HotelClientConfig{
			BaseURL:        "http://localhost:18082",
			Timeout:        time.Second,
			MaxAttempts:    3,
			InitialBackoff: 10 * time.Millisecond,
			MaxBackoff:     100 * time.Millisecond,
		},
	}
}
