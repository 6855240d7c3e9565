// Package session resolves the acting user from an unauthenticated session
// marker. The pipeline never establishes sessions itself; the login handler
// only sets the marker cookie after a username lookup succeeds.
package session

import (
	"strings"

	"github.com/nexuslab/capture/internal/domain"
)

// CookieName is the session marker cookie.
const CookieName = "nexus_session"

// ElevatedUsername is the reserved identity exempt from ownership scoping.
const ElevatedUsername = "god"

// users is the fixed identity table. Role is tagged once here rather than
// string-compared against the reserved username in query logic.
var users = []domain.User{
	{ID: "user_01", Username: "alex", Name: "Alex Creator", Avatar: avatarFor("Alex"), Role: domain.RoleOwner},
	{ID: "user_02", Username: "sarah", Name: "Sarah Designer", Avatar: avatarFor("Sarah"), Role: domain.RoleOwner},
	{ID: "user_03", Username: "mike", Name: "Mike Engineer", Avatar: avatarFor("Mike"), Role: domain.RoleOwner},
	{ID: "user_04", Username: "emily", Name: "Emily Product", Avatar: avatarFor("Emily"), Role: domain.RoleOwner},
	{ID: "user_05", Username: "david", Name: "David Manager", Avatar: avatarFor("David"), Role: domain.RoleOwner},
	{ID: "god", Username: ElevatedUsername, Name: "God Mode", Avatar: avatarFor("God"), Role: domain.RoleElevated},
}

func avatarFor(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}

// Resolver looks up users by session marker.
type Resolver struct {
	byUsername map[string]domain.User
}

// NewResolver creates a resolver over the fixed identity table.
func NewResolver() *Resolver {
	byUsername := make(map[string]domain.User, len(users))
	for _, u := range users {
		byUsername[u.Username] = u
	}
	return &Resolver{byUsername: byUsername}
}

// Resolve returns the user for a session marker, or false if the marker does
// not name a known identity.
func (r *Resolver) Resolve(marker string) (domain.User, bool) {
	u, ok := r.byUsername[strings.ToLower(strings.TrimSpace(marker))]
	return u, ok
}

// Users returns the identity table, used by the login handler.
func (r *Resolver) Users() []domain.User {
	out := make([]domain.User, len(users))
	copy(out, users)
	return out
}
