package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Catalog   Catalog
	Playlists Playlists
	Identity  Identity
	Tokens    Tokens
	Guard     Authenticator
	Database  Pinger
	Logger    *log.Logger
}

// NewRouter builds the API router.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", health(deps.Database))

	mount(r, "/albums", NewAlbumHandler(deps.Catalog))
	mount(r, "/songs", NewSongHandler(deps.Catalog))
	mount(r, "/users", NewUserHandler(deps.Identity))
	mount(r, "/authentications", NewAuthenticationHandler(deps.Identity, deps.Tokens))

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(deps.Guard))
		mount(r, "/playlists", NewPlaylistHandler(deps.Playlists))
	})

	return r
}

func mount(r chi.Router, pattern string, h Handler) {
	r.Route(pattern, h.Routes)
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			log.FromContext(r.Context()).Error("health check failed", "err", err)
			render.Render(w, r, &response{
				HTTPStatusCode: http.StatusServiceUnavailable,
				Status:         statusError,
				Message:        "database unavailable",
			})
			return
		}
		success(w, r, http.StatusOK, "", data{"database": "ok"})
	}
}
