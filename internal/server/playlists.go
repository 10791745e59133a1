package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/openmusic/internal/auth"
	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// Playlists is the playlist surface used by [PlaylistHandler].
type Playlists interface {
	AddPlaylist(ctx context.Context, name, owner string) (string, error)
	GetPlaylists(ctx context.Context, owner string) ([]models.PlaylistSummary, error)
	DeletePlaylistByID(ctx context.Context, id string) error
	AddPlaylistSong(ctx context.Context, playlistID, songID string) error
	GetPlaylistSongsByPlaylistID(ctx context.Context, playlistID string) (*models.PlaylistSongs, error)
	DeletePlaylistSongBySongID(ctx context.Context, playlistID, songID string) error
	VerifyPlaylistOwner(ctx context.Context, playlistID, callerID string) error
}

// PlaylistHandler serves /playlists. Every route expects an authenticated principal.
type PlaylistHandler struct {
	playlists Playlists
}

func NewPlaylistHandler(playlists Playlists) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/songs", h.addSong)
	r.Get("/{id}/songs", h.listSongs)
	r.Delete("/{id}/songs", h.removeSong)
}

// owned returns the playlist id from the path after checking the principal owns it.
func (h *PlaylistHandler) owned(r *http.Request) (string, error) {
	caller, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		return "", shared.AuthenticationError("missing authentication")
	}

	id := chi.URLParam(r, "id")
	if err := h.playlists.VerifyPlaylistOwner(r.Context(), id, caller); err != nil {
		return "", err
	}
	return id, nil
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		fail(w, r, shared.AuthenticationError("missing authentication"))
		return
	}

	var payload playlistPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.playlists.AddPlaylist(r.Context(), payload.Name, caller)
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "playlist added", data{"playlistId": id})
}

func (h *PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		fail(w, r, shared.AuthenticationError("missing authentication"))
		return
	}

	playlists, err := h.playlists.GetPlaylists(r.Context(), caller)
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "", data{"playlists": playlists})
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.owned(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.playlists.DeletePlaylistByID(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "playlist deleted", nil)
}

func (h *PlaylistHandler) addSong(w http.ResponseWriter, r *http.Request) {
	var payload playlistSongPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.owned(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.playlists.AddPlaylistSong(r.Context(), id, payload.SongID); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "song added to playlist", nil)
}

func (h *PlaylistHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	id, err := h.owned(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	playlist, err := h.playlists.GetPlaylistSongsByPlaylistID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "", data{"playlist": playlist})
}

func (h *PlaylistHandler) removeSong(w http.ResponseWriter, r *http.Request) {
	var payload playlistSongPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.owned(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.playlists.DeletePlaylistSongBySongID(r.Context(), id, payload.SongID); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "song removed from playlist", nil)
}
