package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "thalassist/internal/delivery/context"
	"thalassist/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	localPublishTimeout = 10 * time.Second
	localPublishRetries = 2
	localSubscription   = "projects/local/subscriptions/donation-request-sub"
)

// localHTTPPublisher posts events to a development endpoint in the same
// envelope a Pub/Sub push subscription delivers, retrying 5xx replies.
type localHTTPPublisher struct {
	endpoint string
	client   *resty.Client
	logger   *slog.Logger
}

// PubSubPushMessage mimics the body Google Pub/Sub sends to push subscriptions.
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client: resty.New().
			SetTimeout(localPublishTimeout).
			SetRetryCount(localPublishRetries).
			SetRetryWaitTime(200*time.Millisecond).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return err != nil || resp.StatusCode() >= http.StatusInternalServerError
			}).
			SetHeader("Content-Type", "application/json"),
		logger: logger,
	}
}

// PublishDonationRequestEvent posts the event to the local endpoint wrapped in a push envelope
func (p *localHTTPPublisher) PublishDonationRequestEvent(ctx context.Context, event *service.DonationRequestEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	pushMsg := PubSubPushMessage{Subscription: localSubscription}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(eventData)
	pushMsg.Message.MessageID = event.EventID
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = eventAttributes(event)

	req := p.client.R().SetContext(ctx).SetBody(pushMsg)
	if event.RequestID != "" {
		req.SetHeader(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := req.Post(p.endpoint)
	if err != nil {
		return errors.WithStack(err)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("push endpoint returned non-success status: %d", resp.StatusCode())
	}

	deliverycontext.LoggerFrom(ctx, p.logger).Info("Donation request event pushed",
		slog.String("endpoint", p.endpoint),
		slog.String("event_id", event.EventID),
		slog.String("donation_request_id", event.DonationRequestID),
		slog.Int("attempts", resp.Request.Attempt),
	)

	return nil
}

// Close releases resources (no-op for HTTP client)
func (p *localHTTPPublisher) Close() error {
	return nil
}
