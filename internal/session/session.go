// Package session holds the client's authentication state: whether the user
// is signed in and with which role, plus the credentials persisted between
// runs.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// Role gates access to the management views.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrInvalidRole is returned when a role string is neither "user" nor "admin".
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a backend role string into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
}

// Session is the in-memory auth state. Role only matters while LoggedIn.
type Session struct {
	LoggedIn bool
	Role     Role
}

// Default returns the logged-out session.
func Default() Session {
	return Session{Role: RoleUser}
}

// Login marks the session as signed in. Role is untouched.
func (s *Session) Login() {
	s.LoggedIn = true
}

// Logout clears the signed-in flag and resets the role to user.
func (s *Session) Logout() {
	s.LoggedIn = false
	s.Role = RoleUser
}

// SetRole overwrites the role.
func (s *Session) SetRole(role Role) {
	s.Role = role
}

// IsAdmin reports whether the session may reach admin-only views.
func (s Session) IsAdmin() bool {
	return s.LoggedIn && s.Role == RoleAdmin
}

// Credentials is the persisted form of a signed-in session.
type Credentials struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Complete reports whether all three fields are present.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.ID) != "" &&
		strings.TrimSpace(c.Token) != "" &&
		strings.TrimSpace(c.Role) != ""
}

// Restore rebuilds a session from persisted credentials. Anything short of a
// complete record with a known role yields the logged-out default.
func Restore(c Credentials) Session {
	s := Default()
	if !c.Complete() {
		return s
	}
	role, err := ParseRole(c.Role)
	if err != nil {
		return s
	}
	s.Login()
	s.SetRole(role)
	return s
}
