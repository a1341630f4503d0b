package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=3000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StoreDriver     string        `env:"STORE_DRIVER,     default=postgres"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE,     default=true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=5s"`

	Postgres PostgresConfig
	Mongo    MongoConfig
}

type PostgresConfig struct {
	// URL takes precedence over the individual DB_* fields.
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST,    default=localhost"`
	Port     string `env:"DB_PORT,    default=5432"`
	User     string `env:"DB_USER,    default=postgres"`
	Password string `env:"DB_PASS"`
	Name     string `env:"DB_NAME,    default=accounts"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

// DSN returns the connection string for the PostgreSQL store.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	return u.String()
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return &cfg, nil
}
