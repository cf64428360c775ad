package service

import (
	"context"
	"errors"

	"snaplink/internal/model"
	"snaplink/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when the username is already registered
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a bad username or password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is returned when a bearer token fails verification
	ErrTokenInvalid = errors.New("invalid token")
)

// AuthService handles registration, login and token-backed identity
type AuthService struct {
	repo   UserStore
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a new account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	existing, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error().Err(err).Str("username", req.Username).Msg("Storage error checking existing user")
		return nil, ErrServiceUnavailable
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrServiceUnavailable
	}

	user := &model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Registration raced on the unique username index
			return nil, ErrUserExists
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, ErrServiceUnavailable
	}

	log.Info().Str("username", user.Username).Msg("New user registered")

	return &model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and issues a bearer token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Str("username", username).Msg("Login attempt for unknown user")
			return "", ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", username).Msg("Storage error during login")
		return "", ErrServiceUnavailable
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Warn().Str("username", username).Msg("Login attempt with wrong password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to issue token")
		return "", ErrServiceUnavailable
	}

	log.Info().Str("username", username).Msg("User logged in")
	return token, nil
}

// CurrentUser resolves a bearer token to the account it was issued for
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.repo.GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, ErrServiceUnavailable
	}
	return user, nil
}
