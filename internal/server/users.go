package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/openmusic/internal/auth"
	"github.com/desertthunder/openmusic/internal/models"
)

// Identity registers users and checks their credentials.
type Identity interface {
	AddUser(ctx context.Context, fields models.NewUserFields) (string, error)
	VerifyUserCredential(ctx context.Context, username, password string) (string, error)
}

// Tokens issues and rotates bearer credentials.
type Tokens interface {
	Issue(ctx context.Context, userID string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// UserHandler serves /users.
type UserHandler struct {
	identity Identity
}

func NewUserHandler(identity Identity) *UserHandler {
	return &UserHandler{identity: identity}
}

func (h *UserHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	id, err := h.identity.AddUser(r.Context(), models.NewUserFields{
		Username: payload.Username,
		Password: payload.Password,
		Fullname: payload.Fullname,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "user added", data{"userId": id})
}

// AuthenticationHandler serves /authentications: login, token refresh and logout.
type AuthenticationHandler struct {
	identity Identity
	tokens   Tokens
}

func NewAuthenticationHandler(identity Identity, tokens Tokens) *AuthenticationHandler {
	return &AuthenticationHandler{identity: identity, tokens: tokens}
}

func (h *AuthenticationHandler) Routes(r chi.Router) {
	r.Post("/", h.login)
	r.Put("/", h.refresh)
	r.Delete("/", h.logout)
}

func (h *AuthenticationHandler) login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	userID, err := h.identity.VerifyUserCredential(r.Context(), payload.Username, payload.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	pair, err := h.tokens.Issue(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusCreated, "authentication added", pair)
}

func (h *AuthenticationHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	access, err := h.tokens.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "access token refreshed", data{"accessToken": access})
}

func (h *AuthenticationHandler) logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := decode(r, &payload); err != nil {
		fail(w, r, err)
		return
	}

	if err := h.tokens.Revoke(r.Context(), payload.RefreshToken); err != nil {
		fail(w, r, err)
		return
	}

	success(w, r, http.StatusOK, "refresh token deleted", nil)
}
