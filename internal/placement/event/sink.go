package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
)

// Broadcaster fans a message out to every connected subscriber.
type Broadcaster interface {
	Broadcast(ctx context.Context, message []byte) error
}

// Notification is the wire form pushed to websocket subscribers.
type Notification struct {
	Event     entity.EventName `json:"event"`
	Data      any              `json:"data"`
	Seq       int64            `json:"seq"`
	Timestamp int64            `json:"timestamp"`
}

// HubSink encodes events as Notification JSON and broadcasts them.
type HubSink struct {
	hub Broadcaster
}

func NewHubSink(hub Broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Deliver(ctx context.Context, event entity.Event) error {
	if event.Name == "" {
		return errors.New("missing event name")
	}

	msg, err := json.Marshal(Notification{
		Event:     event.Name,
		Data:      event.Payload,
		Seq:       event.Seq,
		Timestamp: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", event.Name, err)
	}

	return s.hub.Broadcast(ctx, msg)
}

// LogSink only logs events. It stands in when notifications are disabled.
type LogSink struct{}

func (LogSink) Deliver(ctx context.Context, event entity.Event) error {
	if event.ID == "" {
		return errors.New("missing event id")
	}

	slog.InfoContext(ctx, "placement event", "event_id", event.ID, "event", string(event.Name), "batch", event.Batch, "seq", event.Seq)
	return nil
}
