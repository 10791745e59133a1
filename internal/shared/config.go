package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	RefreshStoreDatabase = "database"
	RefreshStoreRedis    = "redis"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
//
// Path is a file path for sqlite3 and a connection URL for pgx.
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AuthConfig contains bearer credential and password hashing settings.
type AuthConfig struct {
	AccessTokenKey  string        `toml:"access_token_key"`
	RefreshTokenKey string        `toml:"refresh_token_key"`
	AccessTokenAge  time.Duration `toml:"access_token_age"`
	RefreshTokenAge time.Duration `toml:"refresh_token_age"`
	BcryptCost      int           `toml:"bcrypt_cost"`
	RefreshStore    string        `toml:"refresh_store"`
}

// RedisConfig contains the redis connection used when auth.refresh_store = "redis".
type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogConfig contains logger level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// envBindings lists every overridable key with the legacy variable names it also accepts.
var envBindings = map[string][]string{
	"server.host":             {"HOST"},
	"server.port":             {"PORT"},
	"server.shutdown_timeout": nil,
	"database.driver":         nil,
	"database.path":           {"DATABASE_URL"},
	"database.max_open_conns": nil,
	"database.max_idle_conns": nil,
	"auth.access_token_key":   {"ACCESS_TOKEN_KEY"},
	"auth.refresh_token_key":  {"REFRESH_TOKEN_KEY"},
	"auth.access_token_age":   {"ACCESS_TOKEN_AGE"},
	"auth.refresh_token_age":  {"REFRESH_TOKEN_AGE"},
	"auth.bcrypt_cost":        nil,
	"auth.refresh_store":      nil,
	"redis.address":           {"REDIS_ADDRESS"},
	"redis.password":          {"REDIS_PASSWORD"},
	"redis.db":                nil,
	"log.level":               {"LOG_LEVEL"},
	"log.format":              nil,
}

// EnvName returns the prefixed environment variable for a config key, e.g. OPENMUSIC_SERVER_PORT.
func EnvName(key string) string {
	return "OPENMUSIC_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv overlays environment variables onto config.
//
// Durations accept Go syntax ("30m") or a bare number of seconds.
func ApplyEnv(config *Config) error {
	v := viper.New()
	for key, aliases := range envBindings {
		if err := v.BindEnv(append([]string{key, EnvName(key)}, aliases...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) error {
		if !v.IsSet(key) {
			return nil
		}
		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidConfig, EnvName(key))
		}
		*dst = n
		return nil
	}
	age := func(key string, dst *time.Duration) error {
		if !v.IsSet(key) {
			return nil
		}
		d, err := ParseAge(v.GetString(key))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvName(key), err)
		}
		*dst = d
		return nil
	}

	str("server.host", &config.Server.Host)
	str("database.driver", &config.Database.Driver)
	str("database.path", &config.Database.Path)
	str("auth.access_token_key", &config.Auth.AccessTokenKey)
	str("auth.refresh_token_key", &config.Auth.RefreshTokenKey)
	str("auth.refresh_store", &config.Auth.RefreshStore)
	str("redis.address", &config.Redis.Address)
	str("redis.password", &config.Redis.Password)
	str("log.level", &config.Log.Level)
	str("log.format", &config.Log.Format)

	for key, dst := range map[string]*int{
		"server.port":             &config.Server.Port,
		"database.max_open_conns": &config.Database.MaxOpenConns,
		"database.max_idle_conns": &config.Database.MaxIdleConns,
		"auth.bcrypt_cost":        &config.Auth.BcryptCost,
		"redis.db":                &config.Redis.DB,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	for key, dst := range map[string]*time.Duration{
		"server.shutdown_timeout": &config.Server.ShutdownTimeout,
		"auth.access_token_age":   &config.Auth.AccessTokenAge,
		"auth.refresh_token_age":  &config.Auth.RefreshTokenAge,
	} {
		if err := age(key, dst); err != nil {
			return err
		}
	}

	return nil
}

// ParseAge parses a duration written either as Go syntax or as whole seconds.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}

	if c.Auth.AccessTokenKey == "" || c.Auth.RefreshTokenKey == "" {
		return ErrMissingSecret
	}
	if c.Auth.AccessTokenAge <= 0 || c.Auth.RefreshTokenAge <= 0 {
		return fmt.Errorf("%w: token ages must be positive", ErrInvalidConfig)
	}

	switch c.Auth.RefreshStore {
	case RefreshStoreDatabase:
	case RefreshStoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("%w: redis address required for redis refresh store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown refresh store %q", ErrInvalidConfig, c.Auth.RefreshStore)
	}

	return nil
}
