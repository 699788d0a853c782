// Package notification delivers transactional email.
package notification

import (
	"log/slog"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/infra/metrics"

	"go.uber.org/fx"
)

// Params holds dependencies for the dispatcher, injected by Fx
type Params struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Recorder *metrics.Recorder `optional:"true"`
}

// NewNotificationDispatcher selects the dispatcher named by mail.driver and counts its dispatches.
func NewNotificationDispatcher(params Params) (service.NotificationDispatcher, error) {
	dispatcher, err := newDispatcher(params)
	if err != nil {
		return nil, err
	}

	return WithMetrics(dispatcher, params.Recorder), nil
}

func newDispatcher(params Params) (service.NotificationDispatcher, error) {
	cfg := params.Config.Mail
	if cfg == nil || cfg.Driver == "" || cfg.Driver == config.MailDriverLog {
		params.Logger.Info("Mail not configured, notifications are only logged")

		return NewLogDispatcher(params.Logger), nil
	}

	if cfg.Driver != config.MailDriverSMTP {
		return nil, errors.Errorf("unknown mail driver: %s", cfg.Driver)
	}

	params.Logger.Info("Using SMTP notification dispatcher",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
	)

	return NewSMTPDispatcher(cfg, params.Logger)
}

// Module provides the notification FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewNotificationDispatcher),
)
