package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/openmusic/internal/models"
)

// SongHandler serves /songs.
type SongHandler struct {
	catalog Catalog
}

func NewSongHandler(catalog Catalog) *SongHandler {
	return &SongHandler{catalog: catalog}
}

func (h *SongHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *SongHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload songPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.catalog.AddSong(r.Context(), payload.fields())
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "song added", data{"songId": id})
}

// list accepts optional ?title= and ?performer= substring filters.
func (h *SongHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	songs, err := h.catalog.GetSongs(r.Context(), models.SongFilter{
		Title:     query.Get("title"),
		Performer: query.Get("performer"),
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "", data{"songs": songs})
}

func (h *SongHandler) get(w http.ResponseWriter, r *http.Request) {
	song, err := h.catalog.GetSongByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "", data{"song": song})
}

func (h *SongHandler) update(w http.ResponseWriter, r *http.Request) {
	var payload songPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	if err := h.catalog.EditSongByID(r.Context(), chi.URLParam(r, "id"), payload.fields()); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "song updated", nil)
}

func (h *SongHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteSongByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "song deleted", nil)
}
