package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/dartz_league/internal/middleware/logging"
)

// Common is the global middleware stack. CORS is only installed when origins
// are configured; credentials are allowed so the access cookie travels.
func Common(logger *slog.Logger, corsOrigins []string) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		middleware.Secure(),
	}
	if len(corsOrigins) > 0 {
		mws = append(mws, middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
			AllowCredentials: true,
		}))
	}
	return mws
}
