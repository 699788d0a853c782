package entity

import (
	"slices"
	"strings"
)

// Role decides what an account may do. Agents additionally need admin approval.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin" // Seeded by the migrate CLI, never through signup.
)

func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	return slices.Contains(allRoles, r)
}

// SelfRegistrable reports whether signup may create an account with this role.
func (r Role) SelfRegistrable() bool {
	return r == RoleUser || r == RoleAgent
}

// SignupRole normalizes the requested role. An omitted role means user.
func SignupRole(requested Role) Role {
	r := Role(strings.ToLower(strings.TrimSpace(string(requested))))
	if r == "" {
		return RoleUser
	}

	return r
}

var allRoles = Roles{RoleUser, RoleAgent, RoleAdmin}

// Roles is a set of roles allowed through a check.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
