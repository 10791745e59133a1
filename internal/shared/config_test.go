package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./openmusic.db" {
			t.Errorf("expected database path ./openmusic.db, got %s", config.Database.Path)
		}

		if config.Database.Driver != DriverSQLite {
			t.Errorf("expected driver %s, got %s", DriverSQLite, config.Database.Driver)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Auth.AccessTokenAge != 30*time.Minute {
			t.Errorf("expected access token age 30m, got %s", config.Auth.AccessTokenAge)
		}

		if config.Auth.RefreshStore != RefreshStoreDatabase {
			t.Errorf("expected refresh store %s, got %s", RefreshStoreDatabase, config.Auth.RefreshStore)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[auth]
access_token_key = "access"
refresh_token_key = "refresh"
access_token_age = "5m"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Auth.AccessTokenAge != 5*time.Minute {
			t.Errorf("expected access token age 5m, got %s", config.Auth.AccessTokenAge)
		}

		if config.Auth.RefreshTokenAge != DefaultConfig().Auth.RefreshTokenAge {
			t.Errorf("missing keys should keep defaults, got refresh age %s", config.Auth.RefreshTokenAge)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvName("server.port"), "9090")
		t.Setenv("ACCESS_TOKEN_KEY", "from-legacy-env")
		t.Setenv("ACCESS_TOKEN_AGE", "1800")
		t.Setenv(EnvName("auth.refresh_token_age"), "48h")
		t.Setenv(EnvName("log.format"), "json")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
		if config.Auth.AccessTokenKey != "from-legacy-env" {
			t.Errorf("expected access key from env, got %s", config.Auth.AccessTokenKey)
		}
		if config.Auth.AccessTokenAge != 30*time.Minute {
			t.Errorf("expected access age 30m, got %s", config.Auth.AccessTokenAge)
		}
		if config.Auth.RefreshTokenAge != 48*time.Hour {
			t.Errorf("expected refresh age 48h, got %s", config.Auth.RefreshTokenAge)
		}
		if config.Log.Format != "json" {
			t.Errorf("expected log format json, got %s", config.Log.Format)
		}
		if config.Database.Driver != DriverSQLite {
			t.Errorf("unset variables should not change config, got driver %s", config.Database.Driver)
		}
	})

	t.Run("ApplyEnv Invalid Number", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")

		if err := ApplyEnv(DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(c *Config)
			want   error
		}{
			{name: "missing access key", mutate: func(c *Config) { c.Auth.AccessTokenKey = "" }, want: ErrMissingSecret},
			{name: "missing refresh key", mutate: func(c *Config) { c.Auth.RefreshTokenKey = "" }, want: ErrMissingSecret},
			{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, want: ErrInvalidConfig},
			{name: "zero token age", mutate: func(c *Config) { c.Auth.AccessTokenAge = 0 }, want: ErrInvalidConfig},
			{name: "unknown refresh store", mutate: func(c *Config) { c.Auth.RefreshStore = "memcached" }, want: ErrInvalidConfig},
			{name: "redis without address", mutate: func(c *Config) {
				c.Auth.RefreshStore = RefreshStoreRedis
				c.Redis.Address = ""
			}, want: ErrInvalidConfig},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, tt.want) {
					t.Errorf("Validate() = %v, want %v", err, tt.want)
				}
			})
		}
	})
}
