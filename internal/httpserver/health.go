package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/logging"
)

type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func live(c echo.Context) error { return c.NoContent(http.StatusOK) }

func ready(checks []ReadyCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for _, rc := range checks {
			if err := rc.Check(ctx); err != nil {
				logging.FromContext(ctx).Warn("readiness_failed", "check", rc.Name, "error", err)
				status[rc.Name] = "down"
				healthy = false
				continue
			}
			status[rc.Name] = "up"
		}

		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		return c.JSON(http.StatusOK, status)
	}
}
