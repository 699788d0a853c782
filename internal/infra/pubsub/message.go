package pubsub

import (
	"encoding/json"

	"estate/internal/domain/service"
	"estate/internal/errors"
)

// encodedEvent is a moderation event in Pub/Sub message form.
type encodedEvent struct {
	data        []byte
	attributes  map[string]string
	orderingKey string
}

// encodeEvent serializes the event. Transitions of one entity share an ordering key,
// so an approve followed by a reject reaches subscribers in that order.
func encodeEvent(event *service.ModerationEvent) (*encodedEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "encode moderation event")
	}

	attributes := map[string]string{
		"entity_type": event.EntityType,
		"entity_id":   event.EntityID,
		"state":       event.State,
	}
	if event.ActorID != "" {
		attributes["actor_id"] = event.ActorID
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return &encodedEvent{
		data:        data,
		attributes:  attributes,
		orderingKey: event.EntityType + ":" + event.EntityID,
	}, nil
}
