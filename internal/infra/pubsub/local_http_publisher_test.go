package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate/config"
	"estate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PushFormat(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	event := &service.ModerationEvent{
		RequestID:  "req-1",
		EntityType: service.ModerationEntityProperty,
		EntityID:   "0190a1d2-0000-7000-8000-000000000001",
		State:      "rejected",
		Reason:     "Photos missing",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishModerationEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localPushSubscription, received.Subscription)
	assert.Equal(t, "property", received.Message.Attributes["entity_type"])
	assert.Equal(t, "rejected", received.Message.Attributes["state"])
	assert.Equal(t, "property:0190a1d2-0000-7000-8000-000000000001", received.Message.OrderingKey)
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.ModerationEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	err := publisher.PublishModerationEvent(context.Background(), &service.ModerationEvent{EntityType: "agent"})
	assert.ErrorContains(t, err, "502")
}

func TestEncodeEvent_Attributes(t *testing.T) {
	msg, err := encodeEvent(&service.ModerationEvent{
		EntityType: service.ModerationEntityAgent,
		EntityID:   "a-1",
		State:      "approved",
		ActorID:    "admin-1",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"entity_type": "agent",
		"entity_id":   "a-1",
		"state":       "approved",
		"actor_id":    "admin-1",
	}, msg.attributes)
	assert.Equal(t, "agent:a-1", msg.orderingKey)
}

func TestNewPublisher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	publisher, err := newPublisher(ctx, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, publisher)
	assert.NoError(t, publisher.PublishModerationEvent(ctx, &service.ModerationEvent{EntityType: "agent"}))

	publisher, err = newPublisher(ctx, &config.PubSubConfig{Provider: ProviderLocal, LocalEndpoint: "http://localhost:9090/push"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &localHTTPPublisher{}, publisher)

	tests := []struct {
		name string
		cfg  *config.PubSubConfig
	}{
		{"local without endpoint", &config.PubSubConfig{Provider: ProviderLocal}},
		{"google without topic", &config.PubSubConfig{Provider: ProviderGoogle, ProjectID: "estate"}},
		{"unknown provider", &config.PubSubConfig{Provider: "kafka"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newPublisher(ctx, tt.cfg, logger)
			assert.Error(t, err)
		})
	}
}
