package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dartz_league/internal/authz"
	"github.com/Skotchmaster/dartz_league/internal/middleware/csrf"
)

type Deps struct {
	Auth        *AuthHTTP
	Users       *UsersHTTP
	Tournaments *TournamentHTTP
	Players     *PlayersHTTP
	Gate        *authz.Gate
	Ready       []ReadyCheck

	// CSRF protects the cookie authenticated routes when set.
	CSRF *csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", live)
	e.GET("/health/ready", ready(d.Ready))

	e.POST("/signup", d.Auth.Signup)
	e.POST("/login", d.Auth.Login)
	e.POST("/refresh-token", d.Auth.RefreshToken)
	e.POST("/logout", d.Auth.Logout)
	e.GET("/players/search", d.Players.SearchPlayers)

	gated := func(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		mws := []echo.MiddlewareFunc{d.Gate.RequireAuth}
		if d.CSRF != nil {
			mws = append(mws, csrf.Middleware(*d.CSRF))
		}
		return append(mws, extra...)
	}

	e.POST("/change-password", d.Auth.ChangePassword, gated()...)
	e.GET("/my-account", d.Auth.MyAccount, gated()...)

	e.GET("/user/profile", d.Users.ListUsers, gated(d.Gate.RequireRole(authz.RoleUser))...)
	e.PATCH("/users/:id/role", d.Users.UpdateRole, gated(d.Gate.RequireRole(authz.RoleAdmin))...)

	e.POST("/tournaments", d.Tournaments.Create, gated(d.Gate.RequireRole(authz.RoleTournamentDirector))...)
	e.POST("/tournaments/register-team", d.Tournaments.RegisterTeam, gated()...)
	e.POST("/tournaments/update-player-status", d.Tournaments.UpdatePlayerStatus, gated(d.Gate.RequireRole(authz.RoleTournamentDirector))...)
}
