// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"farmferia/internal/domain/entity"
)

// --- Input DTOs ---

// SignInInput defines the data required to sign in.
type SignInInput struct {
	Email    string
	Password string
}

// SignUpInput defines the data required to register a new account.
// Role defaults to buyer when empty.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// --- Output DTOs ---

// SignInOutput returns the session established by a successful sign-in.
type SignInOutput struct {
	Session *entity.Session
}

// SignUpOutput returns the session established for the newly registered account.
type SignUpOutput struct {
	Session *entity.Session
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer and the session manager depend on.
type AuthUsecase interface {
	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, input SignInInput) (*SignInOutput, error)

	// SignUp registers a new account and establishes its first session.
	// Account creation and profile creation are separate phases; a profile
	// write failure after the account exists does not roll the account back,
	// but it is reported to the caller as a failed registration.
	SignUp(ctx context.Context, input SignUpInput) (*SignUpOutput, error)

	// SignOut invalidates the session on the identity provider. Callers clear
	// their local session state regardless of the returned error.
	SignOut(ctx context.Context, accessToken string) error

	// Refresh exchanges a refresh token for a new session.
	Refresh(ctx context.Context, refreshToken string) (*entity.Session, error)
}
