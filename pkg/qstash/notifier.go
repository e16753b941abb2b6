package qstash

import (
	"context"
	"time"
)

const eventKindHeader = "Upstash-Forward-X-Voice-Desk-Event"

// Event is the envelope published for every finalized record.
type Event struct {
	Kind       string    `json:"kind"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes finalized records to a single QStash destination.
type Notifier struct {
	client      *Client
	destination string
	now         func() time.Time
}

func NewNotifier(client *Client, destination string) *Notifier {
	return &Notifier{
		client:      client,
		destination: destination,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (n *Notifier) Notify(ctx context.Context, kind string, payload any) error {
	_, err := n.client.Publish(ctx, n.destination, Event{
		Kind:       kind,
		Payload:    payload,
		OccurredAt: n.now(),
	}, map[string]string{eventKindHeader: kind})
	return err
}
