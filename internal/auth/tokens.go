package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/desertthunder/openmusic/internal/shared"
)

// RefreshStore remembers which refresh tokens are still valid.
type RefreshStore interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// Claims is the payload of both token kinds. ID (jti) is only set on refresh tokens.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenAuthority issues, verifies, rotates and revokes bearer credentials.
type TokenAuthority struct {
	accessKey  []byte
	refreshKey []byte
	accessAge  time.Duration
	refreshAge time.Duration
	store      RefreshStore
	now        func() time.Time
}

// NewTokenAuthority creates a TokenAuthority from auth settings.
func NewTokenAuthority(config shared.AuthConfig, store RefreshStore) (*TokenAuthority, error) {
	if config.AccessTokenKey == "" || config.RefreshTokenKey == "" {
		return nil, shared.ErrMissingSecret
	}
	if config.AccessTokenAge <= 0 || config.RefreshTokenAge <= 0 {
		return nil, fmt.Errorf("%w: token ages must be positive", shared.ErrInvalidConfig)
	}

	return &TokenAuthority{
		accessKey:  []byte(config.AccessTokenKey),
		refreshKey: []byte(config.RefreshTokenKey),
		accessAge:  config.AccessTokenAge,
		refreshAge: config.RefreshTokenAge,
		store:      store,
		now:        time.Now,
	}, nil
}

// Issue signs a new access and refresh token for userID and stores the refresh token.
func (a *TokenAuthority) Issue(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := a.sign(userID, "", a.accessKey, a.accessAge)
	if err != nil {
		return nil, err
	}

	refresh, err := a.sign(userID, uuid.NewString(), a.refreshKey, a.refreshAge)
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(ctx, refresh, a.refreshAge); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken returns the user id carried by an access token.
//
// Malformed, expired or badly signed tokens fail with an Authentication error.
func (a *TokenAuthority) VerifyAccessToken(token string) (string, error) {
	claims, err := a.parse(token, a.accessKey)
	if err != nil {
		return "", shared.Wrap(shared.KindAuthentication, "invalid access token", err)
	}
	return claims.UserID, nil
}

// Refresh exchanges a stored refresh token for a new access token.
func (a *TokenAuthority) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := a.parse(refresh, a.refreshKey)
	if err != nil {
		return "", shared.Wrap(shared.KindInvariant, "invalid refresh token", err)
	}

	ok, err := a.store.Exists(ctx, refresh)
	if err != nil {
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if !ok {
		return "", shared.InvariantError("invalid refresh token")
	}

	return a.sign(claims.UserID, "", a.accessKey, a.accessAge)
}

// Revoke removes a refresh token from the store so it can no longer be exchanged.
func (a *TokenAuthority) Revoke(ctx context.Context, refresh string) error {
	if _, err := a.parse(refresh, a.refreshKey); err != nil {
		return shared.Wrap(shared.KindInvariant, "invalid refresh token", err)
	}
	return a.store.Delete(ctx, refresh)
}

func (a *TokenAuthority) sign(userID, jti string, key []byte, age time.Duration) (string, error) {
	issued := a.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(age)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *TokenAuthority) parse(token string, key []byte) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}
