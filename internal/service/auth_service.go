package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"users-api/internal/domain"
	"users-api/internal/hash"
	"users-api/internal/repository"
	"users-api/internal/token"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
// The two cases are deliberately indistinguishable to the caller so the
// API does not leak which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the register/login/refresh/status flow. No
// session state is kept server side; everything a later request needs is
// encoded in the issued tokens.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Status(ctx context.Context, accessToken string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher *hash.Hasher
	codec  *token.Codec
}

func NewAuthService(users repository.UserRepository, hasher *hash.Hasher, codec *token.Codec) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		codec:  codec,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	return sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(user.ID)
}

// Refresh mints a fresh token pair for the subject of a valid refresh
// token. The presented token is not invalidated; it stays usable until
// its own expiry.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.codec.Decode(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(userID)
}

func (s *authService) Status(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.codec.Decode(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *authService) issuePair(userID int64) (TokenPair, error) {
	access, err := s.codec.Encode(userID, token.ClassAccess)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Encode(userID, token.ClassRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
