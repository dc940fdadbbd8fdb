// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/jsreddy/splitscenario/internal/models"
)

// ErrNotFound is returned when a requested record does not exist or is not
// owned by the requesting user.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for scenario and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Scenario writes are append-only: records are created whole and deleted
// whole, never partially updated.
type Store interface {
	// CreateScenario persists a new scenario. ID and CreatedAt are
	// populated by the store if unset.
	CreateScenario(ctx context.Context, scenario *models.Scenario) error

	// ListScenariosByUser returns all scenarios owned by the user,
	// ordered by scenario date descending.
	ListScenariosByUser(ctx context.Context, userID string) ([]*models.Scenario, error)

	// DeleteScenario removes a scenario, scoped to its owner. Returns
	// ErrNotFound if no scenario matches both id and userID.
	DeleteScenario(ctx context.Context, id, userID string) error

	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if
	// no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
