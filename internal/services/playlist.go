package services

import (
	"context"
	"time"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// SongVerifier checks song references before membership changes.
//
// [CatalogService] satisfies it.
type SongVerifier interface {
	VerifyAddSong(ctx context.Context, id string) error
	VerifyDeleteSong(ctx context.Context, id string) error
}

// PlaylistService owns playlists and their song membership.
//
// Multi-step operations are not transactional: a song or playlist deleted between a check and
// the following write surfaces as an unclassified storage error.
type PlaylistService struct {
	playlists PlaylistStore
	entries   PlaylistSongStore
	songs     SongVerifier
}

func NewPlaylistService(playlists PlaylistStore, entries PlaylistSongStore, songs SongVerifier) *PlaylistService {
	return &PlaylistService{playlists: playlists, entries: entries, songs: songs}
}

// AddPlaylist creates a playlist owned by owner and returns its id.
func (s *PlaylistService) AddPlaylist(ctx context.Context, name, owner string) (string, error) {
	playlist := &models.Playlist{Name: name, Owner: owner}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return "", err
	}
	return playlist.ID, nil
}

// GetPlaylists lists owner's playlists in creation order.
func (s *PlaylistService) GetPlaylists(ctx context.Context, owner string) ([]models.PlaylistSummary, error) {
	return s.playlists.ListByOwner(ctx, owner)
}

// DeletePlaylistByID removes the playlist and its membership rows.
func (s *PlaylistService) DeletePlaylistByID(ctx context.Context, id string) error {
	return s.playlists.Delete(ctx, id)
}

// AddPlaylistSong links songID to playlistID.
//
// Fails NotFound for an unknown song and Invariant when the song is already in the playlist.
func (s *PlaylistService) AddPlaylistSong(ctx context.Context, playlistID, songID string) error {
	if err := s.songs.VerifyAddSong(ctx, songID); err != nil {
		return err
	}

	exists, err := s.entries.Exists(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	if exists {
		return shared.InvariantError("song is already in playlist")
	}

	return s.entries.Add(ctx, &models.PlaylistEntry{PlaylistID: playlistID, SongID: songID})
}

// GetPlaylistSongsByPlaylistID returns the playlist with its songs in the order they were added.
func (s *PlaylistService) GetPlaylistSongsByPlaylistID(ctx context.Context, playlistID string) (*models.PlaylistSongs, error) {
	summary, err := s.playlists.GetSummary(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	songs, err := s.entries.ListSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistSongs{PlaylistSummary: *summary, Songs: songs}, nil
}

// ExportPlaylist returns the playlist with full song records for the export formats.
func (s *PlaylistService) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	summary, err := s.playlists.GetSummary(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	songs, err := s.entries.ListSongDetails(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistExport{Playlist: *summary, Songs: songs, ExportedAt: time.Now().UTC()}, nil
}

// DeletePlaylistSongBySongID removes songID from playlistID only.
// Other playlists holding the same song keep it.
func (s *PlaylistService) DeletePlaylistSongBySongID(ctx context.Context, playlistID, songID string) error {
	if err := s.songs.VerifyDeleteSong(ctx, songID); err != nil {
		return err
	}
	return s.entries.Delete(ctx, playlistID, songID)
}

// VerifyPlaylistOwner fails NotFound when the playlist does not exist and Authorization when
// callerID does not own it.
func (s *PlaylistService) VerifyPlaylistOwner(ctx context.Context, playlistID, callerID string) error {
	playlist, err := s.playlists.Get(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.Owner != callerID {
		return shared.AuthorizationError("you are not allowed to access this playlist")
	}
	return nil
}
