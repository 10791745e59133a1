package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/desertthunder/openmusic/internal/shared"
)

// AccessVerifier resolves an access token to a user id.
type AccessVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

// Guard derives the acting principal from a request's bearer credential.
type Guard struct {
	verifier AccessVerifier
}

func NewGuard(verifier AccessVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticate returns the user id of the caller.
//
// A missing or malformed Authorization header fails with an Authentication error, as does any
// token the verifier rejects.
func (g *Guard) Authenticate(r *http.Request) (string, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", shared.AuthenticationError("missing authentication")
	}
	return g.verifier.VerifyAccessToken(token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type principalKey struct{}

// WithPrincipal attaches the caller's user id to ctx.
func WithPrincipal(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFrom returns the user id attached by [WithPrincipal].
func PrincipalFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalKey{}).(string)
	return id, ok && id != ""
}
