package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/service"
	"github.com/Skotchmaster/dartz_league/internal/transport"
	"github.com/Skotchmaster/dartz_league/internal/util"
)

type UsersHTTP struct {
	Accounts *service.AccountService
}

func (h *UsersHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))

	total, items, err := h.Accounts.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_users_failed", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *UsersHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_role")

	actor, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		l.Warn("update_role_failed", "status", 400, "reason", "id is not a positive integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Accounts.UpdateRole(ctx, actor, uint(targetID), req.Role)
	if err != nil {
		return fail(l, "update_role_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}
