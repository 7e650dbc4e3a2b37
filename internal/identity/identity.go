// Package identity holds the authenticated principal carried inside tokens
// and the helpers binding it to a request.
package identity

import (
	"context"

	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key the authorization gate binds under.
const ContextKey = "userProfile"

type ctxKey struct{}

type Identity struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ProfileID *uint  `json:"profileId,omitempty"`
}

// Equal compares by value, including the optional profile id.
func (i Identity) Equal(o Identity) bool {
	if i.ID != o.ID || i.Username != o.Username || i.Email != o.Email || i.Role != o.Role {
		return false
	}
	switch {
	case i.ProfileID == nil && o.ProfileID == nil:
		return true
	case i.ProfileID == nil || o.ProfileID == nil:
		return false
	default:
		return *i.ProfileID == *o.ProfileID
	}
}

func IntoContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Bind stores the identity in both the echo context and the request context.
func Bind(c echo.Context, id Identity) {
	c.Set(ContextKey, id)
	c.SetRequest(c.Request().WithContext(IntoContext(c.Request().Context(), id)))
}

func FromEcho(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextKey).(Identity)
	return id, ok
}
