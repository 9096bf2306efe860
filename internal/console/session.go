package console

import (
	"os"
	"strings"
)

// Session is the sender type the demo shell dispatches on behalf of. The
// dispatcher treats it as opaque; only the permission checker and handlers
// look inside.
type Session struct {
	Name string
	Role string
}

// Roles the demo shell knows. Admins hold every permission key; users hold
// everything outside the admin.* namespace.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NewSession creates the default session for the invoking OS user.
func NewSession() *Session {
	name := os.Getenv("USER")
	if name == "" {
		name = "anonymous"
	}
	return &Session{Name: name, Role: RoleUser}
}

// CheckPermission is the permission checker installed on the demo manager.
func CheckPermission(s *Session, key string) bool {
	if s.Role == RoleAdmin {
		return true
	}
	return !strings.HasPrefix(key, "admin.")
}
