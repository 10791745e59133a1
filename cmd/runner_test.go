package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/repositories"
	"github.com/desertthunder/openmusic/internal/shared"
	tu "github.com/desertthunder/openmusic/internal/testing"
)

// fileConfig returns a test configuration backed by a sqlite file in a temp dir.
func fileConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := tu.TestConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "openmusic.db")
	return config
}

func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "openmusic", Commands: runner.register(), Writer: io.Discard}
	return app.Run(context.Background(), append([]string{"openmusic"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config defers loading", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config != nil {
				t.Error("expected config to be loaded lazily")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"serve", "setup", "migrate", "users", "playlists"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestLoadConfig(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "OPENMUSIC_DATABASE_PATH", "ACCESS_TOKEN_KEY", "OPENMUSIC_AUTH_ACCESS_TOKEN_KEY"} {
		t.Setenv(key, "")
	}

	t.Run("reads file and environment", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "from-file.db")

		content := "[database]\npath = \"" + filepath.ToSlash(dbPath) + "\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("OPENMUSIC_LOG_FORMAT", "json")

		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
		if err := run(t, runner, "setup", "database", "--config", configPath); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		tu.AssertFileExists(t, dbPath)
		if runner.config.Log.Format != "json" {
			t.Errorf("expected env override of log format, got %s", runner.config.Log.Format)
		}
		if runner.config.Server.Port != 5000 {
			t.Errorf("expected default port to be kept, got %d", runner.config.Server.Port)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		content := "[database]\ndriver = \"mysql\"\npath = \"x\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
		err := run(t, runner, "migrate", "up", "--config", configPath)
		if err == nil {
			t.Fatal("expected error for unsupported driver")
		}
	})
}

func TestSetupConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

	if err := run(t, runner, "setup", "config", "--config", configPath); err != nil {
		t.Fatalf("setup config failed: %v", err)
	}

	tu.AssertFileExists(t, configPath)
	if !strings.Contains(tu.MustReadFile(t, configPath), "[auth]") {
		t.Error("expected example config to be written")
	}

	if err := run(t, runner, "setup", "config", "--config", configPath); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestMigrate(t *testing.T) {
	config := fileConfig(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

	if err := run(t, runner, "migrate", "up"); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}

	if err := run(t, runner, "migrate", "down"); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if !strings.Contains(output.String(), "Rolled back migration 0003") {
		t.Errorf("expected rollback of latest migration, got %q", output.String())
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if n := tu.MustCount(t, db, "schema_migrations", ""); n != 2 {
		t.Errorf("expected 2 applied migrations, got %d", n)
	}
}

func TestUsersCreate(t *testing.T) {
	config := fileConfig(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

	if err := run(t, runner, "migrate", "up"); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}
	output.Reset()

	if err := run(t, runner, "users", "create", "-u", "dicoding", "-p", "secret", "-n", "Dicoding", "--json"); err != nil {
		t.Fatalf("users create failed: %v", err)
	}

	var created map[string]string
	if err := json.Unmarshal(output.Bytes(), &created); err != nil {
		t.Fatalf("expected JSON output, got %q", output.String())
	}
	if !strings.HasPrefix(created["userId"], "user-") {
		t.Errorf("unexpected user id %q", created["userId"])
	}

	err := run(t, runner, "users", "create", "-u", "dicoding", "-p", "secret", "-n", "Dicoding")
	if shared.KindOf(err) != shared.KindInvariant {
		t.Errorf("expected invariant error for duplicate username, got %v", err)
	}
}

func TestPlaylistsExport(t *testing.T) {
	ctx := context.Background()
	config := fileConfig(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

	if err := run(t, runner, "migrate", "up"); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	user := &models.User{Username: "dicoding", PasswordHash: "hash", Fullname: "Dicoding"}
	if err := repositories.NewUserRepository(db).Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	playlist := &models.Playlist{Name: "Road Trip", Owner: user.ID}
	if err := repositories.NewPlaylistRepository(db).Create(ctx, playlist); err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}
	song := &models.Song{Title: "Fix You", Year: 2005, Performer: "Coldplay", Genre: "Pop"}
	if err := repositories.NewSongRepository(db).Create(ctx, song); err != nil {
		t.Fatalf("failed to create song: %v", err)
	}
	if err := repositories.NewPlaylistSongRepository(db).Add(ctx, &models.PlaylistEntry{PlaylistID: playlist.ID, SongID: song.ID}); err != nil {
		t.Fatalf("failed to add song: %v", err)
	}

	t.Run("writes to stdout", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "playlists", "export", "--id", playlist.ID, "--format", "text"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Playlist: Road Trip") || !strings.Contains(result, "1. Coldplay - Fix You") {
			t.Errorf("unexpected text export %q", result)
		}
	})

	t.Run("writes csv files", func(t *testing.T) {
		output.Reset()
		base := filepath.Join(t.TempDir(), "road_trip")
		if err := run(t, runner, "playlists", "export", "--id", playlist.ID, "-f", "csv", "-o", base); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, base+"_songs.csv")
		tu.AssertFileExists(t, base+"_metadata.json")
		if !strings.Contains(output.String(), "Songs: 1") {
			t.Errorf("expected summary output, got %q", output.String())
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		err := run(t, runner, "playlists", "export", "--id", playlist.ID, "--format", "xml")
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		err := run(t, runner, "playlists", "export", "--id", "playlist-missing")
		if shared.KindOf(err) != shared.KindNotFound {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("exports every owned playlist", func(t *testing.T) {
		output.Reset()
		dir := filepath.Join(t.TempDir(), "exports")
		if err := run(t, runner, "playlists", "export-all", "--owner", "dicoding", "-f", "markdown", "-o", dir, "--workers", "2"); err != nil {
			t.Fatalf("export-all failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, playlist.ID, "README.md"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Exported 1/1 playlists") {
			t.Errorf("unexpected summary %q", output.String())
		}
	})

	t.Run("export-all unknown owner", func(t *testing.T) {
		err := run(t, runner, "playlists", "export-all", "--owner", "nobody", "-o", t.TempDir())
		if shared.KindOf(err) != shared.KindNotFound {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestBuildHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the API", func(t *testing.T) {
		config := fileConfig(t)
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})

		db, err := runner.openDatabase(config)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := shared.RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		handler, closeFn, err := runner.buildHandler(ctx, config, db)
		if err != nil {
			t.Fatalf("failed to build handler: %v", err)
		}
		defer closeFn()

		srv := httptest.NewServer(handler)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 from /health, got %d", resp.StatusCode)
		}

		resp, err = http.Get(srv.URL + "/playlists")
		if err != nil {
			t.Fatalf("playlists request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 without credentials, got %d", resp.StatusCode)
		}
	})

	t.Run("fails when redis is unreachable", func(t *testing.T) {
		config := fileConfig(t)
		config.Auth.RefreshStore = shared.RefreshStoreRedis
		config.Redis.Address = "127.0.0.1:1"
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})

		db, err := runner.openDatabase(config)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, _, err := runner.buildHandler(ctx, config, db); err == nil {
			t.Fatal("expected error for unreachable redis")
		}
	})
}
