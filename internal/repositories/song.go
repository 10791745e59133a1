package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// SongRepository persists [models.Song] rows.
type SongRepository struct {
	db *shared.Database
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *shared.Database) *SongRepository {
	return &SongRepository{db: db}
}

const songColumns = "id, sequence, title, year, performer, genre, duration, album_id, created_at, updated_at"

// Create inserts a new song with generated ID and sequence
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	sequence, err := NextSequence(ctx, r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	ts := now()
	song.ID = shared.NewID("song")
	song.Sequence = sequence
	song.CreatedAt = ts
	song.UpdatedAt = ts

	query := `
		INSERT INTO songs (` + songColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		song.ID,
		song.Sequence,
		song.Title,
		song.Year,
		song.Performer,
		song.Genre,
		nullInt(song.Duration),
		nullString(song.AlbumID),
		song.CreatedAt,
		song.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return expectRows(result, shared.InvariantError("failed to add song"))
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`

	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("song not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query song: %w", err)
	}
	return song, nil
}

// Exists reports whether a song with the given ID is stored
func (r *SongRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM songs WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check song: %w", err)
	}
	return exists, nil
}

// List retrieves songs matching filter in creation order.
//
// Title and performer match case-insensitive substrings and are combined with AND.
func (r *SongRepository) List(ctx context.Context, filter models.SongFilter) ([]models.SongSummary, error) {
	query := `SELECT id, title, performer FROM songs WHERE 1 = 1`
	args := []any{}

	if filter.Title != "" {
		query += ` AND LOWER(title) LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(filter.Title))
	}

	if filter.Performer != "" {
		query += ` AND LOWER(performer) LIKE ? ESCAPE '\'`
		args = append(args, containsPattern(filter.Performer))
	}

	query += " ORDER BY sequence ASC"

	return r.querySummaries(ctx, query, args...)
}

// ListByAlbum retrieves the songs owned by an album in creation order
func (r *SongRepository) ListByAlbum(ctx context.Context, albumID string) ([]models.SongSummary, error) {
	query := `SELECT id, title, performer FROM songs WHERE album_id = ? ORDER BY sequence ASC`
	return r.querySummaries(ctx, query, albumID)
}

func (r *SongRepository) querySummaries(ctx context.Context, query string, args ...any) ([]models.SongSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	return scanSongSummaries(rows)
}

// Update overwrites the writable fields of a song
func (r *SongRepository) Update(ctx context.Context, id string, fields models.SongFields) error {
	query := `
		UPDATE songs
		SET title = ?, year = ?, performer = ?, genre = ?, duration = ?, album_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		fields.Title,
		fields.Year,
		fields.Performer,
		fields.Genre,
		nullInt(fields.Duration),
		nullString(fields.AlbumID),
		now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	return expectRows(result, shared.NotFoundError("failed to update song, id not found"))
}

// Delete removes a song; playlist memberships cascade
func (r *SongRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	return expectRows(result, shared.NotFoundError("failed to delete song, id not found"))
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanSong scans a single row into a [models.Song]
func scanSong(row scanner) (*models.Song, error) {
	var (
		song     models.Song
		duration sql.NullInt64
		albumID  sql.NullString
	)

	err := row.Scan(
		&song.ID,
		&song.Sequence,
		&song.Title,
		&song.Year,
		&song.Performer,
		&song.Genre,
		&duration,
		&albumID,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		song.Duration = &d
	}
	if albumID.Valid {
		song.AlbumID = &albumID.String
	}

	return &song, nil
}

// scanSongSummaries drains rows of (id, title, performer) into summaries
func scanSongSummaries(rows *sql.Rows) ([]models.SongSummary, error) {
	songs := []models.SongSummary{}
	for rows.Next() {
		var s models.SongSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Performer); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
