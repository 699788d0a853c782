// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity record used for login and moderation.
type Account struct {
	ID           uuid.UUID     // Generated by the repository on create.
	Name         string        // Display name.
	Email        string        // Unique, stored lower-case.
	PasswordHash string        // bcrypt hash, never exposed.
	Contact      string        // 10-digit phone number.
	Role         Role          // user, agent or admin.
	Agent        *AgentProfile // Nil unless Role is agent.
	Moderation   Moderation    // Only meaningful for agents.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AgentProfile holds the agent-specific signup fields.
type AgentProfile struct {
	AgencyName    string
	LicenseNumber string
}

// RequiresApproval reports whether the account is subject to admin moderation.
func (a *Account) RequiresApproval() bool {
	return a.Role == RoleAgent
}

// IsApproved reports whether the account may log in. Users and admins are implicitly approved.
func (a *Account) IsApproved() bool {
	return !a.RequiresApproval() || a.Moderation.IsApproved
}

// NewAccount builds an account from a verified registration.
// Agents start pending; everyone else is implicitly approved.
func NewAccount(reg *PendingRegistration) *Account {
	account := &Account{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: reg.PasswordHash,
		Contact:      reg.Contact,
		Role:         reg.Role,
	}

	if reg.Role == RoleAgent {
		account.Agent = &AgentProfile{
			AgencyName:    reg.AgencyName,
			LicenseNumber: reg.LicenseNumber,
		}
	}

	return account
}
