package authz

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/dartz_league/internal/identity"
)

const (
	RoleUser               = "User"
	RoleTournamentDirector = "Tournament Director"
	RoleAdmin              = "Admin"
	RoleSuperAdmin         = "Super Admin"
)

var ErrInvalidRoleConfiguration = errors.New("invalid role configuration")

// Hierarchy is an ordered set of role names, lowest privilege first.
// The zero value knows no roles and rejects every check.
type Hierarchy struct {
	roles []string
}

func DefaultHierarchy() Hierarchy {
	return Hierarchy{roles: []string{RoleUser, RoleTournamentDirector, RoleAdmin, RoleSuperAdmin}}
}

func NewHierarchy(roles ...string) (Hierarchy, error) {
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if r == "" {
			return Hierarchy{}, fmt.Errorf("%w: empty role name", ErrInvalidRoleConfiguration)
		}
		if _, dup := seen[r]; dup {
			return Hierarchy{}, fmt.Errorf("%w: duplicate role %q", ErrInvalidRoleConfiguration, r)
		}
		seen[r] = struct{}{}
	}
	return Hierarchy{roles: append([]string(nil), roles...)}, nil
}

// Index returns the position of role, or -1 when it is not part of h.
func (h Hierarchy) Index(role string) int {
	for i, r := range h.roles {
		if r == role {
			return i
		}
	}
	return -1
}

func (h Hierarchy) Roles() []string {
	return append([]string(nil), h.roles...)
}

func (h Hierarchy) Known(role string) bool {
	return h.Index(role) >= 0
}

// HasRequiredRole reports whether id ranks at or above required. Unknown
// roles on either side yield ErrInvalidRoleConfiguration, never a grant.
func (h Hierarchy) HasRequiredRole(id identity.Identity, required string) (bool, error) {
	have := h.Index(id.Role)
	if have < 0 {
		return false, fmt.Errorf("%w: unknown role %q", ErrInvalidRoleConfiguration, id.Role)
	}
	need := h.Index(required)
	if need < 0 {
		return false, fmt.Errorf("%w: unknown required role %q", ErrInvalidRoleConfiguration, required)
	}
	return have >= need, nil
}
