package service

import (
	"context"
)

// NotificationKind selects the transactional message to send.
type NotificationKind string

const (
	NotificationVerifyEmail      NotificationKind = "verify_email"
	NotificationLoginOTP         NotificationKind = "login_otp"
	NotificationAgentApproved    NotificationKind = "agent_approved"
	NotificationAgentRejected    NotificationKind = "agent_rejected"
	NotificationPropertyApproved NotificationKind = "property_approved"
	NotificationPropertyRejected NotificationKind = "property_rejected"
)

// Keys used in Notification.Data.
const (
	NotificationDataLink   = "link"
	NotificationDataCode   = "code"
	NotificationDataReason = "reason"
	NotificationDataTitle  = "title"
)

// Notification is a single transactional message addressed to one recipient.
type Notification struct {
	Kind NotificationKind
	To   string
	Name string
	Data map[string]string
}

// NotificationDispatcher delivers transactional messages.
// Callers decide whether a failure is fatal; the auth and moderation flows log and continue.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification *Notification) error
}
