package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/openmusic/internal/formatter"
	"github.com/desertthunder/openmusic/internal/repositories"
	"github.com/desertthunder/openmusic/internal/services"
	"github.com/desertthunder/openmusic/internal/shared"
	"github.com/desertthunder/openmusic/internal/tasks"
)

func newPlaylistService(db *shared.Database) *services.PlaylistService {
	catalog := services.NewCatalogService(repositories.NewAlbumRepository(db), repositories.NewSongRepository(db))
	return services.NewPlaylistService(
		repositories.NewPlaylistRepository(db),
		repositories.NewPlaylistSongRepository(db),
		catalog,
	)
}

// PlaylistsExport renders a playlist with its songs to stdout or to files under --output.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	playlists := newPlaylistService(db)

	r.logger.Infof("exporting playlist %v as %v", playlistID, format)

	export, err := playlists.ExportPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return formatter.Encode(r.output, export, format)
	}

	files, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "id", playlistID, "songs", len(export.Songs), "files", len(files))

	if err := r.writePlain("✓ Playlist %s exported\n", export.Playlist.Name); err != nil {
		return err
	}
	for _, f := range files {
		if err := r.writePlain("  %s\n", f); err != nil {
			return err
		}
	}
	return r.writePlain("  Songs: %d\n", len(export.Songs))
}

// PlaylistsExportAll writes every playlist owned by --owner into --output-dir with a manifest.
func (r *Runner) PlaylistsExportAll(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("owner")
	if username == "" {
		return fmt.Errorf("%w: --owner flag is required", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	owner, err := repositories.NewUserRepository(db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	playlists := newPlaylistService(db)
	summaries, err := playlists.GetPlaylists(ctx, owner.ID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(summaries))
	for _, p := range summaries {
		ids = append(ids, p.ID)
	}

	r.logger.Info("exporting playlists", "owner", username, "count", len(ids), "format", format)

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := tasks.NewEngine(playlists).BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if err := r.writePlain("✓ Exported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory); err != nil {
		return err
	}
	if result.FailedExports > 0 {
		if err := r.writePlain("  Failed: %d\n", result.FailedExports); err != nil {
			return err
		}
	}
	return r.writePlain("  Manifest: %s\n", result.ManifestPath)
}
