package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"snapland/internal/core/domain"
	"snapland/pkg/logging"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration and login for the HTTP API.
type UserService struct {
	log    *slog.Logger
	repo   domain.UserRepository
	tokens *TokenService
}

func NewUserService(log *slog.Logger, repo domain.UserRepository, tokens *TokenService) *UserService {
	return &UserService{
		log:    log,
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a user and issues a token for it.
func (s *UserService) Register(ctx context.Context, email, displayName, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.log.ErrorContext(ctx, "user - register - lookup failed", "email", email, logging.Err(err))
		return nil, "", fmt.Errorf("user lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := domain.NewUser(email, displayName, string(hash))
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.log.ErrorContext(ctx, "user - register - create failed", "email", email, logging.Err(err))
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	s.log.InfoContext(ctx, "user - register - success", logging.User(user.ID.String()), "email", email)
	return user, token, nil
}

// Login verifies the credentials and issues a token. The same error is
// returned for unknown email and wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		s.log.ErrorContext(ctx, "user - login - lookup failed", "email", email, logging.Err(err))
		return nil, "", fmt.Errorf("user lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	s.log.InfoContext(ctx, "user - login - success", logging.User(user.ID.String()))
	return user, token, nil
}
