package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyApproved is returned when approving an entity that is already approved.
var ErrAlreadyApproved = errors.New("already approved")

// ModerationState is the derived review state of an agent account or a property listing.
type ModerationState string

const (
	ModerationPending  ModerationState = "pending"
	ModerationApproved ModerationState = "approved"
	ModerationRejected ModerationState = "rejected"
)

// IsValid checks if the state is one of the known values.
func (s ModerationState) IsValid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	default:
		return false
	}
}

// Moderation carries the admin review fields shared by agents and properties.
// A new entity starts pending. Approved and rejected stay reachable from each other.
type Moderation struct {
	IsApproved      bool
	RejectionReason string     // Empty unless the entity is rejected.
	ApprovedAt      *time.Time // Stamped by the most recent approval.
	ApprovedBy      *uuid.UUID // The admin behind the most recent approval.
}

// State derives pending, approved or rejected from the stored fields.
func (m Moderation) State() ModerationState {
	switch {
	case m.IsApproved:
		return ModerationApproved
	case m.RejectionReason != "":
		return ModerationRejected
	default:
		return ModerationPending
	}
}

// Approve moves a pending or rejected entity to approved.
func (m *Moderation) Approve(by uuid.UUID, at time.Time) error {
	if m.IsApproved {
		return ErrAlreadyApproved
	}

	approvedAt := at.UTC()
	approvedBy := by

	m.IsApproved = true
	m.RejectionReason = ""
	m.ApprovedAt = &approvedAt
	m.ApprovedBy = &approvedBy

	return nil
}

// Reject moves the entity to rejected. A blank reason falls back to defaultReason.
// Rejecting twice is allowed and only replaces the reason.
func (m *Moderation) Reject(reason, defaultReason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultReason
	}

	m.revoke()
	m.RejectionReason = reason
}

// ResetForReview sends the entity back to pending after its content changed.
func (m *Moderation) ResetForReview() {
	m.revoke()
	m.RejectionReason = ""
}

// revoke drops the approval together with its stamp.
func (m *Moderation) revoke() {
	m.IsApproved = false
	m.ApprovedAt = nil
	m.ApprovedBy = nil
}
