package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/service"
	"github.com/Skotchmaster/dartz_league/internal/session"
	"github.com/Skotchmaster/dartz_league/internal/transport"
)

type AuthHTTP struct {
	Sessions *session.Manager
	Accounts *service.AccountService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Accounts.Signup(ctx, req); err != nil {
		return fail(l, "signup_failed", err)
	}

	l.Info("signup_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Signup successful. Please log in."})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var creds session.Credentials
	if err := c.Bind(&creds); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	refresh, err := h.Sessions.Login(ctx, c, creds)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.TokenResponse{RefreshToken: refresh})
}

func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	refresh, err := h.Sessions.Refresh(ctx, c, req.RefreshToken)
	if err != nil {
		return fail(l, "refresh_failed", err)
	}

	l.Info("refresh_success")
	return c.JSON(http.StatusOK, transport.TokenResponse{RefreshToken: refresh})
}

// Logout always answers 200; revocation failures are only logged.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	var req transport.LogoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("logout_body_ignored", "error", err)
	}

	var access string
	if ck, err := c.Cookie(session.AccessCookieName); err == nil {
		access = ck.Value
	}

	if err := h.Sessions.Logout(ctx, c, access, req.Token); err != nil {
		l.Error("logout_revoke_failed", "error", err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logout successful"})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	id, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Accounts.ChangePassword(ctx, id.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(l, "change_password_failed", err)
	}

	l.Info("change_password_success", "user_id", id.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Password changed successfully."})
}

func (h *AuthHTTP) MyAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.my_account")

	id, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	profile, err := h.Accounts.MyAccount(ctx, id.ID)
	if err != nil {
		return fail(l, "my_account_failed", err)
	}
	return c.JSON(http.StatusOK, profile)
}
