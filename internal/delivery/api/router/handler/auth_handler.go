// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"estate/config"
	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/response"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"
	"estate/internal/infra/metrics"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Auth event labels.
const (
	eventSignup      = "signup"
	eventVerifyEmail = "verify_email"
	eventLogin       = "login"
	eventVerifyOTP   = "verify_otp"
	eventResendOTP   = "resend_otp"
	eventRefresh     = "refresh"
	eventLogout      = "logout"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC    usecase.AuthUsecase
	SessionUC usecase.SessionUsecase
	Recorder  *metrics.Recorder `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// AuthHandler serves signup, login and session routes.
type AuthHandler struct {
	authUC    usecase.AuthUsecase
	sessionUC usecase.SessionUsecase
	recorder  *metrics.Recorder
	cookies   sessionCookies
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:    params.AuthUC,
		sessionUC: params.SessionUC,
		recorder:  params.Recorder,
		cookies:   newSessionCookies(params.Config),
		logger:    params.Logger,
	}
}

// SignupRequest is the body of POST /user/signup.
type SignupRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Contact       string `json:"contact" validate:"required,len=10,number"`
	Role          string `json:"role" validate:"omitempty,oneof=user agent"`
	AgencyName    string `json:"agencyName" validate:"required_if=Role agent,max=120"`
	LicenseNumber string `json:"licenseNumber" validate:"required_if=Role agent,max=60"`
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest is the body of POST /user/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,number"`
}

// ResendOTPRequest is the body of POST /user/resend-otp.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Signup stores the registration and mails the verification link.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authUC.RequestSignup(c.Request().Context(), &usecase.SignupInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Contact:       req.Contact,
		Role:          entity.Role(req.Role),
		AgencyName:    req.AgencyName,
		LicenseNumber: req.LicenseNumber,
		IP:            c.RealIP(),
	})
	h.recorder.AuthEvent(eventSignup, err)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Check your email for a verification link")
}

// VerifyEmail turns the pending registration behind :token into an account.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	account, err := h.authUC.ConfirmSignup(c.Request().Context(), c.Param("token"))
	h.recorder.AuthEvent(eventVerifyEmail, err)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "Email verified, you can now log in", map[string]any{
		"user": toAccountResponse(account),
	})
}

// Login checks the password and mails a one-time code.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.RealIP(),
	})
	h.recorder.AuthEvent(eventLogin, err)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "A login code has been sent to your email")
}

// VerifyOTP consumes the code and sets both session cookies.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authUC.VerifyOTP(c.Request().Context(), &usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.Code,
	})
	h.recorder.AuthEvent(eventVerifyOTP, err)
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.AccessTokenCookie, result.Tokens.AccessToken, result.Tokens.AccessTTL)
	h.cookies.set(c, middleware.RefreshTokenCookie, result.Tokens.RefreshToken, result.Tokens.RefreshTTL)

	return response.Success(c, http.StatusOK, "Login successful", map[string]any{
		"user": toAccountResponse(result.Account),
	})
}

// ResendOTP mails a fresh login code.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req ResendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authUC.ResendOTP(c.Request().Context(), &usecase.ResendOTPInput{
		Email: req.Email,
		IP:    c.RealIP(),
	})
	h.recorder.AuthEvent(eventResendOTP, err)
	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "A new login code has been sent to your email")
}

// RefreshToken mints a new access token from the refresh cookie. The refresh token is not rotated.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	grant, err := h.sessionUC.Refresh(c.Request().Context(), middleware.RefreshToken(c))
	h.recorder.AuthEvent(eventRefresh, err)
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.AccessTokenCookie, grant.AccessToken, grant.AccessTTL)

	return response.Success(c, http.StatusOK, "Token refreshed", map[string]any{
		"accessToken": grant.AccessToken,
	})
}

// Logout revokes the refresh token when one can be identified and always clears the cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	err := h.sessionUC.Logout(c.Request().Context(), middleware.AccessToken(c), middleware.RefreshToken(c))
	h.recorder.AuthEvent(eventLogout, err)

	h.cookies.clear(c, middleware.AccessTokenCookie)
	h.cookies.clear(c, middleware.RefreshTokenCookie)

	if err != nil {
		return err
	}

	return response.Message(c, http.StatusOK, "Logged out")
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	account, ok := middleware.GetAccount(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no account on request")
	}

	return response.Success(c, http.StatusOK, "ok", map[string]any{
		"user": toAccountResponse(account),
	})
}
