package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/solvento/hrcore/internal/database"
)

// Config is the full application configuration. Values come from
// config.yaml (searched in the working directory and /etc/orgadmin) with
// ORGADMIN_* environment overrides.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    database.Config   `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AdminConfig seeds the first administrator account on migration.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type MaintenanceConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Schedule  string        `mapstructure:"schedule"`
	Retention time.Duration `mapstructure:"retention"`
}

// LoadConfig reads configuration from the optional config file and the
// environment. A missing file is fine; a malformed one is not.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/orgadmin")

	v.SetEnvPrefix("ORGADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required (set ORGADMIN_AUTH_JWT_SECRET)")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "orgadmin.db")
	// register every key so environment-only overrides are visible to Unmarshal
	for _, key := range []string{
		"database.dsn", "database.host", "database.name",
		"database.user", "database.password", "database.ssl_mode",
		"auth.jwt_secret", "admin.email", "admin.password",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("database.port", 0)

	v.SetDefault("auth.jwt_issuer", "orgadmin")
	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("log.level", "info")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "0 3 * * *")
	v.SetDefault("maintenance.retention", "720h")
}
