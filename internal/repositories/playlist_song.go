package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// PlaylistSongRepository manages the playlist_songs junction table.
//
// The table holds at most one row per (playlist, song) pair.
type PlaylistSongRepository struct {
	db *shared.Database
}

// NewPlaylistSongRepository creates a new PlaylistSongRepository with the given database connection
func NewPlaylistSongRepository(db *shared.Database) *PlaylistSongRepository {
	return &PlaylistSongRepository{db: db}
}

// Add inserts a membership row with generated ID and sequence
func (r *PlaylistSongRepository) Add(ctx context.Context, entry *models.PlaylistEntry) error {
	sequence, err := NextSequence(ctx, r.db, "playlist_songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.NewID("entry")
	entry.Sequence = sequence
	entry.CreatedAt = now()

	query := `
		INSERT INTO playlist_songs (id, sequence, playlist_id, song_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, entry.ID, entry.Sequence, entry.PlaylistID, entry.SongID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist song: %w", err)
	}

	return expectRows(result, shared.InvariantError("failed to add song to playlist"))
}

// Exists reports whether song is already a member of playlist
func (r *PlaylistSongRepository) Exists(ctx context.Context, playlistID, songID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = ? AND song_id = ?)"
	if err := r.db.QueryRowContext(ctx, query, playlistID, songID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check playlist song: %w", err)
	}
	return exists, nil
}

// ListSongs retrieves the songs of a playlist in the order they were added
func (r *PlaylistSongRepository) ListSongs(ctx context.Context, playlistID string) ([]models.SongSummary, error) {
	query := `
		SELECT s.id, s.title, s.performer
		FROM songs AS s
		JOIN playlist_songs AS ps ON ps.song_id = s.id
		WHERE ps.playlist_id = ?
		ORDER BY ps.sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	return scanSongSummaries(rows)
}

// ListSongDetails retrieves the full song records of a playlist in the order they were added
func (r *PlaylistSongRepository) ListSongDetails(ctx context.Context, playlistID string) ([]models.Song, error) {
	query := `
		SELECT s.id, s.sequence, s.title, s.year, s.performer, s.genre, s.duration, s.album_id, s.created_at, s.updated_at
		FROM songs AS s
		JOIN playlist_songs AS ps ON ps.song_id = s.id
		WHERE ps.playlist_id = ?
		ORDER BY ps.sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlist songs: %w", err)
	}
	return songs, nil
}

// Delete removes song from playlist; other playlists holding the song are untouched
func (r *PlaylistSongRepository) Delete(ctx context.Context, playlistID, songID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?", playlistID, songID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist song: %w", err)
	}

	return expectRows(result, shared.NotFoundError("song is not in playlist"))
}
