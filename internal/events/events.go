package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("events")

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeUserRegistered     = "user_registered"
	TypeComparisonRecorded = "comparison_recorded"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"event"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// UserRegisteredPayload is the payload for the "user_registered" event.
type UserRegisteredPayload struct {
	UserID int64 `json:"user_id"`
}

// ComparisonRecordedPayload is the payload for the "comparison_recorded" event.
type ComparisonRecordedPayload struct {
	QueryID  int64  `json:"query_id"`
	UserID   int64  `json:"user_id"`
	Player1  string `json:"player1"`
	Player2  string `json:"player2"`
	Degraded bool   `json:"degraded"`
}

// Publisher announces activity to other processes. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

// NewEvent wraps payload in an Event envelope.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

type redisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a Publisher that writes to EventsChannel.
func NewRedisPublisher(rdb *redis.Client) Publisher {
	return &redisPublisher{rdb: rdb}
}

// Publish encodes and publishes the event, logging instead of returning failures.
func (p *redisPublisher) Publish(ctx context.Context, eventType string, payload any) {
	ctx, span := tracer.Start(ctx, "Publisher.Publish")
	defer span.End()

	evt, err := NewEvent(eventType, payload)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "Failed to build event", "event", eventType, "error", err)
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "Failed to encode event", "event", eventType, "error", err)
		return
	}
	if err := p.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "Failed to publish event", "event", eventType, "error", err)
	}
}

type nopPublisher struct{}

// NopPublisher discards every event. Used when Redis is not configured.
func NopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, any) {}
