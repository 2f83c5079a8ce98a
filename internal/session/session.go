package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned for unknown or expired session ids
var ErrNoSession = errors.New("session not found")

// Session is the server side state behind the session cookie
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps sessions alive for an idle timeout that slides on every Touch
type Store interface {
	Create(ctx context.Context, userID string) (*Session, error)
	// Touch returns the session and extends its idle timeout
	Touch(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

func newSession(userID string) *Session {
	return &Session{ID: uuid.New().String(), UserID: userID, CreatedAt: time.Now().UTC()}
}
