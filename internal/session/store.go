// Package session persists conversational state and serializes the turns of each session.
package session

import (
	"context"
	"errors"

	"shopping-agent/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions. Get fails with ErrSessionNotFound for absent or expired sessions
// and refreshes the access time of the ones it returns. Returned sessions are copies.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Put(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	// Sweep removes expired sessions and reports how many went.
	Sweep(ctx context.Context) (int, error)
	// List returns copies of the live sessions ordered by id, without refreshing them.
	List(ctx context.Context) ([]*models.Session, error)
}
