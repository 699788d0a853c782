// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"estate/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to start a registration.
// The delivery layer validates the shape before the usecase runs.
type SignupInput struct {
	Name          string
	Email         string
	Password      string
	Contact       string
	Role          entity.Role
	AgencyName    string
	LicenseNumber string
	IP            string
}

// LoginInput defines the credentials for the first login step.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// VerifyOTPInput defines the second login step.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// ResendOTPInput defines a request for a fresh login code.
type ResendOTPInput struct {
	Email string
	IP    string
}

// --- Output DTOs ---

// LoginResult is returned once the login code is accepted.
type LoginResult struct {
	Account *entity.Account
	Tokens  *SessionTokens
}

// AuthUsecase covers signup, email verification and the two-step login.
type AuthUsecase interface {
	RequestSignup(ctx context.Context, input *SignupInput) error
	ConfirmSignup(ctx context.Context, token string) (*entity.Account, error)
	Login(ctx context.Context, input *LoginInput) error
	VerifyOTP(ctx context.Context, input *VerifyOTPInput) (*LoginResult, error)
	ResendOTP(ctx context.Context, input *ResendOTPInput) error
}
