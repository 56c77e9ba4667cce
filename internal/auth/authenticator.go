package auth

import (
	"context"

	"github.com/crewledger/crewledger/internal/models"
)

// Authenticator abstracts how accounts are registered and verified, so the
// service layer does not care whether credentials are passwords, OAuth
// tokens, or something else.
type Authenticator interface {
	// Register creates a new account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks whether the credential meets the
	// implementation's requirements before any account is touched.
	ValidateCredential(credential string) error
}
