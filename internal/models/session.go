package models

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Session struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	// Token is only set when creating a new session. Lookups go through the
	// stored hash; the raw token is never persisted.
	Token     string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

const (
	// MinBytesPerToken is the minimum number of bytes for a session token.
	MinBytesPerToken = 32
	// DefaultTokenLength is the default token length (32 bytes = 256 bits).
	DefaultTokenLength = 32
	// DefaultSessionDuration is how long a session lasts.
	DefaultSessionDuration = 24 * time.Hour
)

type SessionService struct {
	pool *pgxpool.Pool

	BytesPerToken   int
	SessionDuration time.Duration
}

func NewSessionService(pool *pgxpool.Pool, duration time.Duration) *SessionService {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &SessionService{
		pool:            pool,
		BytesPerToken:   DefaultTokenLength,
		SessionDuration: duration,
	}
}

// Create starts a new session for the user. An existing session for the
// same user is replaced.
func (ss *SessionService) Create(ctx context.Context, userID string) (*Session, error) {
	bytesPerToken := ss.BytesPerToken
	if bytesPerToken < MinBytesPerToken {
		bytesPerToken = MinBytesPerToken
	}
	token, err := generateToken(bytesPerToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session := Session{
		UserID:    userID,
		Token:     token,
		TokenHash: hashToken(token),
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = ss.pool.QueryRow(ctx, `
		INSERT INTO sessions (user_id, token_hash, expires_at)
		VALUES ($1, $2, NOW() + $3::interval)
		ON CONFLICT (user_id)
		DO UPDATE SET token_hash = $2, created_at = NOW(), expires_at = NOW() + $3::interval
		RETURNING id, created_at, expires_at
	`, session.UserID, session.TokenHash, ss.SessionDuration.String()).Scan(
		&session.ID, &session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &session, nil
}

// User validates a raw token and returns the session's user. Expired
// sessions look the same as missing ones.
func (ss *SessionService) User(ctx context.Context, token string) (*User, error) {
	tokenHash := hashToken(token)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := &User{}
	err := ss.pool.QueryRow(ctx, `
		SELECT users.id, users.email, users.password_hash, users.created_at
		FROM sessions
		JOIN users ON users.id = sessions.user_id
		WHERE sessions.token_hash = $1 AND sessions.expires_at > NOW()
	`, tokenHash).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return user, nil
}

// Delete ends a session by its raw token.
func (ss *SessionService) Delete(ctx context.Context, token string) error {
	tokenHash := hashToken(token)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := ss.pool.Exec(ctx, `
		DELETE FROM sessions WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}
