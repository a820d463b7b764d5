// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tuitionbook/internal/model"
	"tuitionbook/internal/repository"
	"tuitionbook/internal/token"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users  UserStore
	tokens *token.Manager
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(users UserStore, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register validates the request, stores the user with a bcrypt-hashed
// password and returns a fresh token alongside the created user.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" {
		return nil, validationf("name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, validationf("email is not a valid email address")
	}
	if len(req.Password) < 8 {
		return nil, validationf("password must be at least 8 characters")
	}
	if req.Role != model.RoleStudent && req.Role != model.RoleTeacher {
		return nil, validationf("role must be %q or %q", model.RoleStudent, model.RoleTeacher)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, string(hash), req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.AuthResponse{Token: signed, User: *user}, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.AuthResponse{Token: signed, User: *user}, nil
}

// isValidEmail does a basic structural check on the address.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
