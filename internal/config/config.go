package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for cost receipts.
type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	PresignExpirySec int
}

// RedisConfig holds the connection used by the token denylist.
// An empty Addr disables server-side token revocation.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// ServiceInterval is the default schedule for one maintenance kind.
type ServiceInterval struct {
	IntervalKm     int64 `toml:"interval_km"`
	IntervalMonths int   `toml:"interval_months"`
}

// ServiceDefaults are applied to the counters of newly created vehicles.
type ServiceDefaults struct {
	Small  ServiceInterval `toml:"small"`
	Big    ServiceInterval `toml:"big"`
	Brakes ServiceInterval `toml:"brakes"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	Timezone        string
	CORSOrigins     string
	Database        DatabaseConfig
	MinIO           MinIOConfig
	Redis           RedisConfig
	Auth            AuthConfig
	ServiceDefaults ServiceDefaults
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// When SERVICE_DEFAULTS_FILE is set, the TOML file overrides the built-in service intervals.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:3001"),
		Port:        getEnv("PORT", "3001"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", "evo_app"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", "evo-receipts"),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		},
		ServiceDefaults: DefaultServiceDefaults(),
	}

	if path := getEnv("SERVICE_DEFAULTS_FILE", ""); path != "" {
		d, err := LoadServiceDefaults(path)
		if err != nil {
			return nil, err
		}
		cfg.ServiceDefaults = d
	}

	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins splits CORSOrigins into a normalized comma separated list.
func (c *AppConfig) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

// DefaultServiceDefaults returns the built-in maintenance schedule.
func DefaultServiceDefaults() ServiceDefaults {
	return ServiceDefaults{
		Small:  ServiceInterval{IntervalKm: 15000, IntervalMonths: 12},
		Big:    ServiceInterval{IntervalKm: 100000, IntervalMonths: 72},
		Brakes: ServiceInterval{IntervalKm: 50000, IntervalMonths: 36},
	}
}

// LoadServiceDefaults decodes a TOML file on top of the built-in schedule.
// Tables or keys missing from the file keep their built-in values.
func LoadServiceDefaults(path string) (ServiceDefaults, error) {
	d := DefaultServiceDefaults()
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return ServiceDefaults{}, fmt.Errorf("decode service defaults %s: %w", path, err)
	}
	for name, iv := range map[string]ServiceInterval{"small": d.Small, "big": d.Big, "brakes": d.Brakes} {
		if iv.IntervalKm < 0 || iv.IntervalMonths < 0 {
			return ServiceDefaults{}, fmt.Errorf("service defaults %s: intervals must not be negative", name)
		}
	}
	return d, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
