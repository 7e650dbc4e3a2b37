package authz

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/session"
	"github.com/Skotchmaster/dartz_league/internal/tokens"
)

const (
	msgMissingToken  = "Access token is missing"
	msgBlacklisted   = "Token is blacklisted"
	msgExpired       = "Token has expired"
	msgInvalid       = "Invalid token"
	msgInternal      = "Internal server error"
	msgForbidden     = "Access denied: insufficient permissions"
	msgRoleConfig    = "invalid role configuration"
	msgNotAuthorized = "Not authenticated"
)

type Verifier interface {
	VerifyIdentity(ctx context.Context, accessToken string) (identity.Identity, error)
}

type Gate struct {
	verifier Verifier
	roles    Hierarchy
}

func NewGate(verifier Verifier, roles Hierarchy) *Gate {
	return &Gate{verifier: verifier, roles: roles}
}

// RequireAuth verifies the access cookie and binds the identity to the request.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "require_auth")

		cookie, err := c.Cookie(session.AccessCookieName)
		if err != nil || cookie.Value == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing_access_token")
			return echo.NewHTTPError(http.StatusUnauthorized, msgMissingToken)
		}

		id, err := g.verifier.VerifyIdentity(ctx, cookie.Value)
		if err != nil {
			kind := tokens.KindOf(err)
			if kind == tokens.KindUnknown {
				l.Error("auth_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
			}
			l.Warn("auth_failed", "status", 401, "reason", kind.String())
			return echo.NewHTTPError(http.StatusUnauthorized, messageFor(kind))
		}

		identity.Bind(c, id)
		return next(c)
	}
}

func messageFor(kind tokens.Kind) string {
	switch kind {
	case tokens.KindBlacklisted:
		return msgBlacklisted
	case tokens.KindExpired:
		return msgExpired
	default:
		return msgInvalid
	}
}

// RequireRole must run after RequireAuth.
func (g *Gate) RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("mw", "require_role", "required", required)

			id, ok := identity.FromEcho(c)
			if !ok {
				l.Warn("role_check_failed", "status", 401, "reason", "no_identity")
				return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
			}

			allowed, err := g.roles.HasRequiredRole(id, required)
			if err != nil {
				if errors.Is(err, ErrInvalidRoleConfiguration) {
					l.Error("role_check_failed", "status", 403, "error", err)
					return echo.NewHTTPError(http.StatusForbidden, msgRoleConfig)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
			}
			if !allowed {
				l.Warn("role_check_failed", "status", 403, "role", id.Role, "user_id", id.ID)
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}
			return next(c)
		}
	}
}
