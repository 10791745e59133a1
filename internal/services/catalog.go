package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// DefaultSongTitle is used when a song is added without a title.
const DefaultSongTitle = "Untitled"

// CatalogService owns albums and songs.
type CatalogService struct {
	albums AlbumStore
	songs  SongStore
}

func NewCatalogService(albums AlbumStore, songs SongStore) *CatalogService {
	return &CatalogService{albums: albums, songs: songs}
}

// AddAlbum creates an album and returns its id.
func (s *CatalogService) AddAlbum(ctx context.Context, fields models.AlbumFields) (string, error) {
	album := &models.Album{Name: fields.Name, Year: fields.Year}
	if err := s.albums.Create(ctx, album); err != nil {
		return "", err
	}
	return album.ID, nil
}

// GetAlbumByID returns the album with its songs in creation order.
func (s *CatalogService) GetAlbumByID(ctx context.Context, id string) (*models.Album, error) {
	album, err := s.albums.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	songs, err := s.songs.ListByAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load album songs: %w", err)
	}
	album.Songs = songs

	return album, nil
}

func (s *CatalogService) EditAlbumByID(ctx context.Context, id string, fields models.AlbumFields) error {
	return s.albums.Update(ctx, id, fields)
}

// DeleteAlbumByID removes the album; its songs go with it.
func (s *CatalogService) DeleteAlbumByID(ctx context.Context, id string) error {
	return s.albums.Delete(ctx, id)
}

// AddSong creates a song and returns its id.
//
// A referenced album must exist.
func (s *CatalogService) AddSong(ctx context.Context, fields models.SongFields) (string, error) {
	if fields.Title == "" {
		fields.Title = DefaultSongTitle
	}

	if err := s.verifyAlbum(ctx, fields.AlbumID); err != nil {
		return "", err
	}

	song := &models.Song{
		Title:     fields.Title,
		Year:      fields.Year,
		Performer: fields.Performer,
		Genre:     fields.Genre,
		Duration:  fields.Duration,
		AlbumID:   fields.AlbumID,
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return "", err
	}
	return song.ID, nil
}

// GetSongs lists songs matching filter in creation order.
func (s *CatalogService) GetSongs(ctx context.Context, filter models.SongFilter) ([]models.SongSummary, error) {
	return s.songs.List(ctx, filter)
}

func (s *CatalogService) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	return s.songs.Get(ctx, id)
}

// EditSongByID overwrites a song. An empty title falls back to [DefaultSongTitle].
func (s *CatalogService) EditSongByID(ctx context.Context, id string, fields models.SongFields) error {
	if fields.Title == "" {
		fields.Title = DefaultSongTitle
	}
	if err := s.verifyAlbum(ctx, fields.AlbumID); err != nil {
		return err
	}
	return s.songs.Update(ctx, id, fields)
}

func (s *CatalogService) DeleteSongByID(ctx context.Context, id string) error {
	return s.songs.Delete(ctx, id)
}

// VerifyAddSong fails with NotFound unless song id can be added to a playlist.
func (s *CatalogService) VerifyAddSong(ctx context.Context, id string) error {
	return s.verifySong(ctx, id)
}

// VerifyDeleteSong fails with NotFound unless song id exists.
func (s *CatalogService) VerifyDeleteSong(ctx context.Context, id string) error {
	return s.verifySong(ctx, id)
}

func (s *CatalogService) verifySong(ctx context.Context, id string) error {
	exists, err := s.songs.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NotFoundError("song not found")
	}
	return nil
}

func (s *CatalogService) verifyAlbum(ctx context.Context, albumID *string) error {
	if albumID == nil {
		return nil
	}
	_, err := s.albums.Get(ctx, *albumID)
	return err
}
