package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/openmusic/internal/models"
)

// Catalog is the album and song surface used by [AlbumHandler] and [SongHandler].
type Catalog interface {
	AddAlbum(ctx context.Context, fields models.AlbumFields) (string, error)
	GetAlbumByID(ctx context.Context, id string) (*models.Album, error)
	EditAlbumByID(ctx context.Context, id string, fields models.AlbumFields) error
	DeleteAlbumByID(ctx context.Context, id string) error
	AddSong(ctx context.Context, fields models.SongFields) (string, error)
	GetSongs(ctx context.Context, filter models.SongFilter) ([]models.SongSummary, error)
	GetSongByID(ctx context.Context, id string) (*models.Song, error)
	EditSongByID(ctx context.Context, id string, fields models.SongFields) error
	DeleteSongByID(ctx context.Context, id string) error
}

// AlbumHandler serves /albums.
type AlbumHandler struct {
	catalog Catalog
}

func NewAlbumHandler(catalog Catalog) *AlbumHandler {
	return &AlbumHandler{catalog: catalog}
}

func (h *AlbumHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type albumView struct {
	ID    string               `json:"id"`
	Name  string               `json:"name"`
	Year  int                  `json:"year"`
	Songs []models.SongSummary `json:"songs"`
}

func (h *AlbumHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload albumPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.catalog.AddAlbum(r.Context(), payload.fields())
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "album added", data{"albumId": id})
}

func (h *AlbumHandler) get(w http.ResponseWriter, r *http.Request) {
	album, err := h.catalog.GetAlbumByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "", data{"album": albumView{
		ID:    album.ID,
		Name:  album.Name,
		Year:  album.Year,
		Songs: album.Songs,
	}})
}

func (h *AlbumHandler) update(w http.ResponseWriter, r *http.Request) {
	var payload albumPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	if err := h.catalog.EditAlbumByID(r.Context(), chi.URLParam(r, "id"), payload.fields()); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "album updated", nil)
}

func (h *AlbumHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAlbumByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "album deleted", nil)
}
