package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/openmusic/internal/auth"
	"github.com/desertthunder/openmusic/internal/repositories"
	"github.com/desertthunder/openmusic/internal/server"
	"github.com/desertthunder/openmusic/internal/services"
	"github.com/desertthunder/openmusic/internal/shared"
)

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("migrate") {
		if err := shared.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	handler, closeFn, err := r.buildHandler(ctx, config, db)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(config.Server, handler, r.logger).Run(ctx)
}

// buildHandler wires repositories, services and the token authority into the API router.
// The returned func releases the refresh store connection, if any.
func (r *Runner) buildHandler(ctx context.Context, config *shared.Config, db *shared.Database) (http.Handler, func(), error) {
	store, closeFn, err := r.refreshStore(ctx, config, db)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := auth.NewTokenAuthority(config.Auth, store)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	catalog := services.NewCatalogService(repositories.NewAlbumRepository(db), repositories.NewSongRepository(db))
	playlists := services.NewPlaylistService(
		repositories.NewPlaylistRepository(db),
		repositories.NewPlaylistSongRepository(db),
		catalog,
	)
	identity := services.NewIdentityService(repositories.NewUserRepository(db), config.Auth.BcryptCost)

	handler := server.NewRouter(server.Dependencies{
		Catalog:   catalog,
		Playlists: playlists,
		Identity:  identity,
		Tokens:    tokens,
		Guard:     auth.NewGuard(tokens),
		Database:  db,
		Logger:    r.logger,
	})

	return handler, closeFn, nil
}

func (r *Runner) refreshStore(ctx context.Context, config *shared.Config, db *shared.Database) (auth.RefreshStore, func(), error) {
	if config.Auth.RefreshStore != shared.RefreshStoreRedis {
		return repositories.NewAuthenticationRepository(db), func() {}, nil
	}

	client := auth.NewRedisClient(config.Redis)
	store := auth.NewRedisStore(client)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Redis.Address, err)
	}

	r.logger.Info("using redis refresh store", "addr", config.Redis.Address)
	return store, func() { client.Close() }, nil
}
