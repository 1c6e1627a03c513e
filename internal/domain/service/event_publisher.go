package service

import (
	"context"
	"time"
)

// EventTypeDonationRequestCreated is published after a request enters the ledger.
const EventTypeDonationRequestCreated = "donation_request.created"

// DonationRequestEvent is the payload announced to downstream consumers when a
// donation request is created.
type DonationRequestEvent struct {
	EventID            string    `json:"event_id"`
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"` // HTTP request id for distributed tracing
	DonationRequestID  string    `json:"donation_request_id"`
	BloodType          string    `json:"blood_type"`
	CompatibleTypes    []string  `json:"compatible_types"`
	Location           string    `json:"location"`
	Urgency            string    `json:"urgency"`
	UnitsNeeded        int       `json:"units_needed"`
	ComponentType      string    `json:"component_type"`
	MatchedDonorsCount int       `json:"matched_donors_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishDonationRequestEvent publishes a donation request event for async processing
	PublishDonationRequestEvent(ctx context.Context, event *DonationRequestEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
