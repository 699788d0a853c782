package notification

import (
	"context"
	"log/slog"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/wneessen/go-mail"
)

type smtpDispatcher struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPDispatcher creates a dispatcher that relays mail through the configured SMTP server.
func NewSMTPDispatcher(cfg *config.MailConfig, logger *slog.Logger) (service.NotificationDispatcher, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail host is required for the smtp driver")
	}
	if cfg.From == "" {
		return nil, errors.New("mail from address is required for the smtp driver")
	}

	opts := []mail.Option{
		mail.WithTLSPortPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SMTP client")
	}

	return &smtpDispatcher{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

func (d *smtpDispatcher) Dispatch(ctx context.Context, n *service.Notification) error {
	rendered, err := render(n)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return errors.Wrap(err, "invalid from address")
	}
	if n.Name != "" {
		err = msg.AddToFormat(n.Name, n.To)
	} else {
		err = msg.To(n.To)
	}
	if err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(mail.TypeTextPlain, rendered.Body)

	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to send %s mail", n.Kind)
	}

	d.logger.DebugContext(ctx, "Notification sent",
		slog.String("kind", string(n.Kind)),
		slog.String("to", n.To),
	)

	return nil
}

func tlsPolicy(policy string) mail.TLSPolicy {
	switch policy {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}
