package auth

import (
	"context"

	"github.com/jsreddy/splitscenario/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between auth methods (password, OAuth,
// passkeys) without changing the service layer.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, name, email, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
