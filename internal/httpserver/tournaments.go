package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/service"
	"github.com/Skotchmaster/dartz_league/internal/transport"
)

type TournamentHTTP struct {
	Svc *service.TournamentService
}

func (h *TournamentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tournament.create")

	actor, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	var req transport.CreateTournamentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("tournament_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	t, err := h.Svc.Create(ctx, actor, req)
	if err != nil {
		return fail(l, "tournament_create_failed", err)
	}

	l.Info("tournament_created", "tournament_id", t.ID)
	return c.JSON(http.StatusCreated, t)
}

func (h *TournamentHTTP) RegisterTeam(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tournament.register_team")

	actor, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	var req transport.RegisterTeamRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_team_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	t, err := h.Svc.RegisterTeam(ctx, actor, req)
	if err != nil {
		return fail(l, "register_team_failed", err)
	}

	l.Info("team_registered", "tournament_id", t.ID, "team", req.Team.Name)
	return c.JSON(http.StatusOK, t)
}

func (h *TournamentHTTP) UpdatePlayerStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tournament.update_player_status")

	actor, ok := identity.FromEcho(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token is missing")
	}

	var req transport.UpdatePlayerStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_player_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.UpdatePlayerStatus(ctx, actor, req)
	if err != nil {
		return fail(l, "update_player_status_failed", err)
	}
	return c.JSON(http.StatusOK, transport.UpdatePlayerStatusResponse{
		TournamentTeamID: p.TournamentTeamID,
		ProfileID:        p.ProfileID,
		Status:           p.Status,
	})
}
