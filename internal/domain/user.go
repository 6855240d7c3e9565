package domain

// Role controls record visibility scoping.
type Role string

const (
	// RoleOwner sees only records it owns.
	RoleOwner Role = "owner"
	// RoleElevated bypasses ownership scoping entirely. Reserved for a
	// single identity, resolved once at session lookup.
	RoleElevated Role = "elevated"
)

// User is the acting identity resolved from a session marker.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     Role   `json:"role"`
}

// Elevated reports whether the user bypasses ownership scoping.
func (u User) Elevated() bool {
	return u.Role == RoleElevated
}
