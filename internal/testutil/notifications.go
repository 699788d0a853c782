package testutil

import (
	"context"
	"sync"

	"estate/internal/domain/service"
)

// RecordingDispatcher keeps every notification it is asked to send.
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []service.Notification

	// Err, when set, is returned after recording.
	Err error
}

var _ service.NotificationDispatcher = (*RecordingDispatcher)(nil)

func (d *RecordingDispatcher) Dispatch(_ context.Context, n *service.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := *n
	if n.Data != nil {
		c.Data = make(map[string]string, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	d.sent = append(d.sent, c)

	return d.Err
}

// Sent returns a copy of every recorded notification.
func (d *RecordingDispatcher) Sent() []service.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]service.Notification, len(d.sent))
	copy(out, d.sent)

	return out
}

// Last returns the most recent notification of kind sent to the address.
func (d *RecordingDispatcher) Last(kind service.NotificationKind, to string) (service.Notification, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := len(d.sent) - 1; i >= 0; i-- {
		if d.sent[i].Kind == kind && d.sent[i].To == to {
			return d.sent[i], true
		}
	}

	return service.Notification{}, false
}

// RecordingPublisher keeps every published moderation event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []service.ModerationEvent

	Err error
}

var _ service.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) PublishModerationEvent(_ context.Context, event *service.ModerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, *event)

	return p.Err
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) Events() []service.ModerationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]service.ModerationEvent, len(p.events))
	copy(out, p.events)

	return out
}
