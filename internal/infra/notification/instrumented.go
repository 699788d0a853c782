package notification

import (
	"context"

	"estate/internal/domain/service"
	"estate/internal/infra/metrics"
)

// instrumentedDispatcher counts every dispatch by kind and outcome.
type instrumentedDispatcher struct {
	next     service.NotificationDispatcher
	recorder *metrics.Recorder
}

// WithMetrics wraps next so each dispatch is counted. A nil recorder returns next unchanged.
func WithMetrics(next service.NotificationDispatcher, recorder *metrics.Recorder) service.NotificationDispatcher {
	if recorder == nil {
		return next
	}

	return &instrumentedDispatcher{next: next, recorder: recorder}
}

func (d *instrumentedDispatcher) Dispatch(ctx context.Context, n *service.Notification) error {
	err := d.next.Dispatch(ctx, n)
	d.recorder.NotificationDispatched(string(n.Kind), err)

	return err
}
