package notification

import (
	"fmt"
	"strings"

	"estate/internal/domain/service"
	"estate/internal/errors"
)

// message is the rendered plain-text form of a notification.
type message struct {
	Subject string
	Body    string
}

// render builds the subject and body for n.
func render(n *service.Notification) (*message, error) {
	greeting := "Hello,"
	if name := strings.TrimSpace(n.Name); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}

	data := func(key string) string { return n.Data[key] }

	var subject, text string
	switch n.Kind {
	case service.NotificationVerifyEmail:
		if data(service.NotificationDataLink) == "" {
			return nil, errors.New("verify_email notification requires a link")
		}
		subject = "Verify your email address"
		text = "Confirm your email address to finish creating your account:\n\n" +
			data(service.NotificationDataLink) + "\n\nThe link expires in a few minutes."
	case service.NotificationLoginOTP:
		if data(service.NotificationDataCode) == "" {
			return nil, errors.New("login_otp notification requires a code")
		}
		subject = "Your login code"
		text = fmt.Sprintf("Your one-time login code is %s.\n\nIt expires in a few minutes. "+
			"If you did not try to log in, change your password.", data(service.NotificationDataCode))
	case service.NotificationAgentApproved:
		subject = "Your agent account is approved"
		text = "Your agent application has been approved. You can now log in and publish listings."
	case service.NotificationAgentRejected:
		subject = "Your agent application was not approved"
		text = "Your agent application was reviewed and not approved.\n\nReason: " + data(service.NotificationDataReason)
	case service.NotificationPropertyApproved:
		subject = "Your listing is live"
		text = fmt.Sprintf("Your listing %q has been approved and is now public.", data(service.NotificationDataTitle))
	case service.NotificationPropertyRejected:
		subject = "Your listing was not approved"
		text = fmt.Sprintf("Your listing %q was reviewed and not approved.\n\nReason: %s",
			data(service.NotificationDataTitle), data(service.NotificationDataReason))
	default:
		return nil, errors.Errorf("unknown notification kind %q", n.Kind)
	}

	return &message{
		Subject: subject,
		Body:    greeting + "\n\n" + text + "\n",
	}, nil
}
