// Package events is the typed in-process event bus. Event names form a
// closed enum with one payload shape per name.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// EventType enumerates the events the service emits.
type EventType string

const (
	EventGameStarted     EventType = "game.started"
	EventGameCompleted   EventType = "game.completed"
	EventLanguageChanged EventType = "language.changed"
	EventPoolsLoaded     EventType = "pools.loaded"
)

// Event is the envelope published on the bus.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// GameStartedPayload accompanies EventGameStarted.
type GameStartedPayload struct {
	SessionID     string            `json:"sessionId"`
	Mode          domain.GameMode   `json:"mode"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	QuestionCount int               `json:"questionCount"`
}

// GameCompletedPayload accompanies EventGameCompleted.
type GameCompletedPayload struct {
	SessionID string             `json:"sessionId"`
	Mode      domain.GameMode    `json:"mode"`
	Result    domain.ScoreResult `json:"result"`
}

// LanguageChangedPayload accompanies EventLanguageChanged.
type LanguageChangedPayload struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// PoolsLoadedPayload accompanies EventPoolsLoaded.
type PoolsLoadedPayload struct {
	Counts map[domain.Category]int `json:"counts"`
}

// Publisher is the side consumed by services that only emit.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, payload any) error
}

// Bus wraps a watermill gochannel pub/sub with one topic per event type.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NopLogger{}),
	}
}

// Publish marshals the payload into an event envelope and publishes it on
// the event type's topic.
func (b *Bus) Publish(_ context.Context, eventType EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	msg := message.NewMessage(event.ID, raw)
	msg.Metadata.Set("event_type", string(eventType))
	return b.pubsub.Publish(string(eventType), msg)
}

// Subscribe delivers decoded events of one type until ctx is canceled.
// Messages are acked as they are decoded; a malformed message is acked and
// dropped so it cannot wedge the channel.
func (b *Bus) Subscribe(ctx context.Context, eventType EventType) (<-chan Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, string(eventType))
	if err != nil {
		return nil, err
	}
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the underlying pub/sub down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Recorder is a Publisher that stores events in memory, for tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, eventType EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.Events = append(r.Events, Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	return nil
}

// TypesSeen lists recorded event types in order.
func (r *Recorder) TypesSeen() []EventType {
	types := make([]EventType, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
