package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"todoapp/internal/apperr"
	"todoapp/internal/model"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionStore opens and closes authenticated sessions.
type SessionStore interface {
	Create(ctx context.Context, userID int) (string, error)
	Destroy(ctx context.Context, token string) error
}

type Service struct {
	users    UserStore
	sessions SessionStore
}

func NewService(users UserStore, sessions SessionStore) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates a new user and logs them in, returning the user and
// the session token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.Validation("name, email and password are required")
	}

	existing, err := s.users.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperr.ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index on users.email is the actual guarantee.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", apperr.ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login checks credentials and opens a session. The two failure modes
// keep their distinct messages, matching the original flash texts.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperr.ErrUnknownEmail
	}
	if err != nil {
		return nil, "", err
	}

	if !checkPassword(password, u.PasswordHash) {
		return nil, "", apperr.ErrBadCredential
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Logout destroys the session behind the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
