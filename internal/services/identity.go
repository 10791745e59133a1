package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/openmusic/internal/models"
	"github.com/desertthunder/openmusic/internal/shared"
)

// IdentityService owns user accounts and checks their credentials.
type IdentityService struct {
	users UserStore
	cost  int
}

// NewIdentityService creates an IdentityService hashing passwords with the given bcrypt cost.
//
// A cost outside bcrypt's accepted range falls back to [bcrypt.DefaultCost].
func NewIdentityService(users UserStore, cost int) *IdentityService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &IdentityService{users: users, cost: cost}
}

// AddUser registers a user and returns its id. Usernames are unique.
func (s *IdentityService) AddUser(ctx context.Context, fields models.NewUserFields) (string, error) {
	taken, err := s.users.UsernameExists(ctx, fields.Username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", shared.InvariantError("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields.Password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: fields.Username, PasswordHash: string(hash), Fullname: fields.Fullname}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *IdentityService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// VerifyUserCredential returns the id of the user identified by username and password.
//
// Unknown usernames and wrong passwords both fail with the same Authentication error.
func (s *IdentityService) VerifyUserCredential(ctx context.Context, username, password string) (string, error) {
	invalid := shared.AuthenticationError("invalid credentials")

	user, err := s.users.GetByUsername(ctx, username)
	if shared.KindOf(err) == shared.KindNotFound {
		return "", invalid
	} else if err != nil {
		return "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return "", invalid
	} else if err != nil {
		return "", fmt.Errorf("failed to compare password: %w", err)
	}

	return user.ID, nil
}
