// Package store persists lobbies as one JSON document per upper-case code.
// Every backend offers compare-and-swap on the document version so the same
// lifecycle logic can run against process memory or a shared database.
package store

import (
	"context"
	"errors"
	"strings"

	"undercover/internal/domain"
)

var (
	ErrNotFound = errors.New("lobby not found")
	ErrExists   = errors.New("lobby code already taken")
	ErrConflict = errors.New("lobby was modified concurrently")
)

// Store is implemented by every lobby backend
type Store interface {
	// Get loads a lobby; its Version reflects the stored revision.
	Get(ctx context.Context, code string) (*domain.Lobby, error)
	// Create inserts a new lobby at version 1, failing with ErrExists on a taken code.
	Create(ctx context.Context, lobby *domain.Lobby) error
	// CompareAndSwap writes lobby if the stored version still equals lobby.Version,
	// then bumps lobby.Version. A stale version yields ErrConflict.
	CompareAndSwap(ctx context.Context, lobby *domain.Lobby) error
	// List returns the codes of all stored lobbies.
	List(ctx context.Context) ([]string, error)
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// NormalizeCode returns the storage key form of a lobby code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
