package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"thalassist/config"
	"thalassist/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEvent() *service.DonationRequestEvent {
	return &service.DonationRequestEvent{
		EventID:           "evt-1",
		EventType:         service.EventTypeDonationRequestCreated,
		RequestID:         "req-123",
		DonationRequestID: "R001",
		BloodType:         "B-",
		CompatibleTypes:   []string{"B-", "O-"},
		Location:          "Hyderabad",
		Urgency:           "urgent",
		UnitsNeeded:       2,
		ComponentType:     "Platelets",
		CreatedAt:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PublishDonationRequestEvent(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())
	require.NoError(t, publisher.PublishDonationRequestEvent(context.Background(), newTestEvent()))

	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, "evt-1", received.Message.MessageID)
	assert.Equal(t, "R001", received.Message.Attributes["donation_request_id"])
	assert.Equal(t, "donation_request.created", received.Message.Attributes["event_type"])

	raw, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var event service.DonationRequestEvent
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, []string{"B-", "O-"}, event.CompatibleTypes)
	assert.Equal(t, 2, event.UnitsNeeded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())
	err := publisher.PublishDonationRequestEvent(context.Background(), newTestEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
		noop    bool
	}{
		{name: "unconfigured", cfg: nil, noop: true},
		{name: "empty provider", cfg: &config.PubSubConfig{}, noop: true},
		{name: "local", cfg: &config.PubSubConfig{Provider: ProviderLocal, LocalEndpoint: "http://localhost:9999/events"}},
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: ProviderLocal}, wantErr: true},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: ProviderGoogle, TopicID: "t"}, wantErr: true},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: ProviderGoogle, ProjectID: "p"}, wantErr: true},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: newDiscardLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.noop {
				assert.IsType(t, &noopPublisher{}, publisher)
				assert.NoError(t, publisher.PublishDonationRequestEvent(context.Background(), newTestEvent()))
			}
			lc.RequireStart().RequireStop()
		})
	}
}

func TestEventAttributesAndOrdering(t *testing.T) {
	event := newTestEvent()

	attrs := eventAttributes(event)
	assert.Equal(t, "B-", attrs["blood_type"])
	assert.Equal(t, "urgent", attrs["urgency"])
	assert.Equal(t, "req-123", attrs["request_id"])
	assert.Equal(t, "blood-type/B-", orderingKeyFor(event))

	event.RequestID = ""
	assert.NotContains(t, eventAttributes(event), "request_id")
}

func TestLocalHTTPPublisher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())

	require.NoError(t, publisher.PublishDonationRequestEvent(context.Background(), newTestEvent()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestLocalHTTPPublisher_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())

	assert.Error(t, publisher.PublishDonationRequestEvent(context.Background(), newTestEvent()))
	assert.Equal(t, int32(1), calls.Load())
}
