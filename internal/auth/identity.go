package auth

// Roles carried in operator tokens.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// Identity is the authenticated operator behind a request.
type Identity struct {
	Subject string
	Role    string
}

// IsAdmin reports whether the identity may run administrative tasks.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// ValidRole reports whether role is one the relay issues tokens for.
func ValidRole(role string) bool {
	return role == RoleOperator || role == RoleAdmin
}
