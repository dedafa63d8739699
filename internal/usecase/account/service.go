// Package account handles sign-up, login and profile management.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
	"github.com/kailas-cloud/gigmarket/internal/logger"
)

// Session is an authenticated user and their token.
type Session struct {
	User  user.User
	Token string
}

// Service handles account use cases.
type Service struct {
	users     UserStore
	passwords PasswordHasher
	tokens    TokenIssuer
}

// New creates a Service.
func New(users UserStore, passwords PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{users: users, passwords: passwords, tokens: tokens}
}

// SignUp validates credentials, stores a new account and opens a session.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if err := user.ValidateCredentials(email, password); err != nil {
		return Session{}, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return Session{}, fmt.Errorf("sign up: %w", err)
	}

	u, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return Session{}, domain.NewRule(domain.ErrAlreadyExists, "Email already in use.")
		}
		return Session{}, fmt.Errorf("sign up: %w", err)
	}
	logger.FromContext(ctx).Info("User signed up", logger.UserID(u.ID))

	return s.session(u)
}

// Login checks credentials. Unknown emails and wrong passwords both yield
// domain.ErrBadCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, domain.NewValidation("Email and Password Required.")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Session{}, domain.ErrBadCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if err := s.passwords.Compare(u.PasswordHash, password); err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	return s.session(u)
}

// Me returns the account of userID.
func (s *Service) Me(ctx context.Context, userID uint) (user.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("me: %w", err)
	}
	return u, nil
}

// UpdateProfile validates and stores the public profile. Usernames are unique.
func (s *Service) UpdateProfile(
	ctx context.Context, userID uint, username, fullName, description, profileImage string,
) (user.User, error) {
	p, err := user.NewProfile(username, fullName, description, profileImage)
	if err != nil {
		return user.User{}, err
	}

	taken, err := s.users.UsernameTaken(ctx, p.Username(), userID)
	if err != nil {
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return user.User{}, domain.NewRule(domain.ErrAlreadyExists, "Username already taken.")
	}

	u, err := s.users.UpdateProfile(ctx, userID, p)
	if err != nil {
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *Service) session(u user.User) (Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: u, Token: token}, nil
}
