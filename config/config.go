package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	NATS     NATSConfig
	Monitor  MonitorConfig
	CORS     CORSConfig
	Log      LogConfig
}

type AppConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig selects the gorm driver. Driver is mysql, postgres or sqlite.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AdminConfig is the account seeded when no user exists yet.
type AdminConfig struct {
	Username string
	Password string
}

// NATSConfig enables event publishing when URL is set.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type MonitorConfig struct {
	Interval time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

type LogConfig struct {
	Level string
}

const envPrefix = "POS"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.gin_mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "restaurant.db")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("nats.subject_prefix", "pos.orders")
	v.SetDefault("monitor.interval", "2s")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("log.level", "info")
}

// Load reads .env (when present) and then POS_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Port:    v.GetString("app.port"),
			GinMode: v.GetString("app.gin_mode"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("nats.url"),
			SubjectPrefix: v.GetString("nats.subject_prefix"),
		},
		Monitor: MonitorConfig{
			Interval: v.GetDuration("monitor.interval"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(v.GetString("cors.allow_origins")),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (set %s_JWT_SECRET)", envPrefix)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
