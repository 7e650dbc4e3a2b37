package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/authz"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/service"
	"github.com/Skotchmaster/dartz_league/internal/session"
	"github.com/Skotchmaster/dartz_league/internal/tokens"
	"github.com/Skotchmaster/dartz_league/internal/validator"
)

const msgInternal = "Internal server error"

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, validator.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrUnauthorized):
		return http.StatusUnauthorized, session.ErrUnauthorized.Error()
	case errors.Is(err, service.ErrWrongPassword):
		return http.StatusUnauthorized, "Current password is incorrect."
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Access denied: insufficient permissions"
	case errors.Is(err, authz.ErrInvalidRoleConfiguration):
		return http.StatusForbidden, "invalid role configuration"
	case errors.Is(err, repo.ErrEmailTaken):
		return http.StatusConflict, "Email already exists."
	case errors.Is(err, repo.ErrUsernameTaken):
		return http.StatusConflict, "Username already exists."
	case errors.Is(err, repo.ErrDuplicateTeam):
		return http.StatusConflict, repo.ErrDuplicateTeam.Error()
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repo.ErrInvalidReference):
		return http.StatusBadRequest, repo.ErrInvalidReference.Error()
	}

	switch tokens.KindOf(err) {
	case tokens.KindBlacklisted:
		return http.StatusUnauthorized, "Token is blacklisted"
	case tokens.KindExpired:
		return http.StatusUnauthorized, "Token has expired"
	case tokens.KindInvalid:
		return http.StatusUnauthorized, "Invalid token"
	}
	return http.StatusInternalServerError, msgInternal
}

// fail logs err under event and converts it to the matching HTTP error.
// Internal details never reach the response body.
func fail(l *slog.Logger, event string, err error) *echo.HTTPError {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}
