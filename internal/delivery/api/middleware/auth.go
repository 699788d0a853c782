package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Session cookie names.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const accountKey = "account"

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Sessions usecase.SessionUsecase
}

// AuthMiddleware resolves the caller from the access token and guards routes by role.
type AuthMiddleware struct {
	sessions usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{sessions: params.Sessions}
}

// Authenticate attaches the account behind the access token to the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := m.sessions.Authenticate(c.Request().Context(), AccessToken(c))
		if err != nil {
			return err
		}

		c.Set(accountKey, account)

		ctx := c.Request().Context()
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("account_id", account.ID.String())))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	allowed := entity.Roles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := GetAccount(c)
			if !ok {
				return errors.Wrap(domainerrors.ErrUnauthenticated, "role check without account")
			}

			if !allowed.Contains(account.Role) {
				return errors.Wrapf(domainerrors.ErrForbidden, "role %s not allowed", account.Role)
			}

			return next(c)
		}
	}
}

// RequireApproved rejects agents still waiting for, or refused, admin approval.
func (m *AuthMiddleware) RequireApproved(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, ok := GetAccount(c)
		if !ok {
			return errors.Wrap(domainerrors.ErrUnauthenticated, "approval check without account")
		}

		if !account.IsApproved() {
			return errors.Wrap(domainerrors.ErrPendingApproval, "account not approved")
		}

		return next(c)
	}
}

// GetAccount returns the account attached by Authenticate.
func GetAccount(c echo.Context) (*entity.Account, bool) {
	account, ok := c.Get(accountKey).(*entity.Account)

	return account, ok && account != nil
}

// AccessToken reads the access token from its cookie, then from the Bearer header.
func AccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// RefreshToken reads the refresh token cookie.
func RefreshToken(c echo.Context) string {
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
