package notification

import (
	"context"
	"log/slog"

	"estate/internal/domain/service"
)

// logDispatcher writes notifications to the log instead of sending them.
// Local environments read verification links and login codes from here.
type logDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher(logger *slog.Logger) service.NotificationDispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(ctx context.Context, n *service.Notification) error {
	rendered, err := render(n)
	if err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("kind", string(n.Kind)),
		slog.String("to", n.To),
		slog.String("subject", rendered.Subject),
	}
	for key, value := range n.Data {
		attrs = append(attrs, slog.String(key, value))
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "[LogMailer] Notification", attrs...)

	return nil
}
