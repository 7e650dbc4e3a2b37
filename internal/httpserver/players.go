package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/search"
	"github.com/Skotchmaster/dartz_league/internal/util"
)

type PlayerSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []search.PlayerDoc, error)
}

type PlayersHTTP struct {
	Search PlayerSearcher
}

func (h *PlayersHTTP) SearchPlayers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "players.search")

	if h.Search == nil {
		l.Warn("search_failed", "status", 503, "reason", "search disabled")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, docs, err := h.Search.Search(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": docs,
		"meta": util.Meta(page, offset, limit, total),
	})
}
