package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultCluster = "cluster0.anca8.mongodb.net"

type Config struct {
	Environment Environment `envconfig:"APP_ENV" default:"development"`
	HTTPPort    string      `envconfig:"PORT" default:"5000"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"mongo"`
	MongoURI    string `envconfig:"MONGO_URI"`
	DBUser      string `envconfig:"DB_USER"`
	DBPass      string `envconfig:"DB_PASS"`
	DBCluster   string `envconfig:"DB_CLUSTER" default:"cluster0.anca8.mongodb.net"`
	DBName      string `envconfig:"DB_NAME" default:"epicureFoods"`
	DatabaseDSN string `envconfig:"DATABASE_DSN"`

	CORSOrigins    string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	JWTSecret      string        `envconfig:"JWT_SECRET"`
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"24h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
			return errors.New("config: MONGO_URI or DB_USER and DB_PASS must be set for the mongo driver")
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("config: DATABASE_DSN must be set for the %s driver", c.DBDriver)
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI as is, or builds the Atlas SRV URI
// from the credential parts.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	cluster := c.DBCluster
	if cluster == "" {
		cluster = defaultCluster
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), cluster)
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into trimmed entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Warnings lists settings that are fine for local runs but not for production.
func (c *Config) Warnings() []string {
	var warns []string
	if c.CORSOrigins == "*" {
		warns = append(warns, "CORS_ALLOWED_ORIGINS allows every origin")
	}
	if !c.AuthEnabled() {
		warns = append(warns, "JWT_SECRET is not set, /myFoods and /orders are public")
	}
	if c.DBDriver == DriverSQLite && c.Environment.IsProduction() {
		warns = append(warns, "sqlite driver used in production")
	}
	return warns
}
