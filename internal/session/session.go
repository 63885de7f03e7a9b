package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "session"

// ErrNoSession signals a missing, expired or tampered session.
var ErrNoSession = errors.New("no active session")

// Store keeps sessions server-side in redis, keyed by a random session
// id. The client only ever sees a signed token wrapping that id, so a
// session dies the moment its redis key does: on logout or TTL expiry.
type Store struct {
	rdb    *redis.Client
	secret string
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, secret: secret, ttl: ttl}
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Create opens a session for userID and returns the signed token.
func (s *Store) Create(ctx context.Context, userID int) (string, error) {
	sid := uuid.NewString()

	if err := s.rdb.Set(ctx, sessionKey(sid), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	token, err := signToken(sid, s.secret, s.ttl)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to the user id it was created for.
func (s *Store) Resolve(ctx context.Context, token string) (int, error) {
	sid, err := parseToken(token, s.secret)
	if err != nil {
		return 0, ErrNoSession
	}

	val, err := s.rdb.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrNoSession
	}
	return userID, nil
}

// Destroy ends the session behind the token. Destroying an already
// dead session is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	sid, err := parseToken(token, s.secret)
	if err != nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}
