package metrics

import (
	"context"

	"thalassist/internal/domain/service"
)

// Alert outcomes recorded on DonorAlerts.
const (
	AlertSent   = "sent"
	AlertFailed = "failed"
)

type instrumentedNotifier struct {
	next    service.NotificationService
	metrics *Metrics
}

// InstrumentNotifier counts every topic alert by outcome before returning the
// result of next unchanged.
func InstrumentNotifier(next service.NotificationService, m *Metrics) service.NotificationService {
	return &instrumentedNotifier{next: next, metrics: m}
}

func (n *instrumentedNotifier) SendTopicNotification(ctx context.Context, topic, title, body string, data map[string]string) error {
	err := n.next.SendTopicNotification(ctx, topic, title, body, data)
	outcome := AlertSent
	if err != nil {
		outcome = AlertFailed
	}
	n.metrics.DonorAlerts.WithLabelValues(outcome).Inc()

	return err
}
