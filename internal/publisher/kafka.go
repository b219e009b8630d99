package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"GasSentinel/internal/model"

	"github.com/segmentio/kafka-go"
)

// Event kinds carried in the message body.
const (
	EventImmediateAction = "immediate_action"
	EventReallocation    = "reallocation"
)

// Event is the JSON body of one published message.
type Event struct {
	Kind         string              `json:"kind"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Action       *model.OrderAction  `json:"action,omitempty"`
	Reallocation *model.Reallocation `json:"reallocation,omitempty"`
}

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes plan events keyed by room.
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaPublisher builds a writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	log.Printf("[INFO] kafka publisher: topic=%s brokers=%v", topic, brokers)
	return &KafkaPublisher{w: w}
}

// NewWithWriter wraps an existing writer.
func NewWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// PublishPlan sends one message per immediate action and per reallocation.
// Routine orders stay in the plan document.
func (p *KafkaPublisher) PublishPlan(ctx context.Context, plan *model.ActionPlan) error {
	msgs, err := Messages(plan)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write %d messages: %w", len(msgs), err)
	}
	log.Printf("[INFO] published %d plan events", len(msgs))
	return nil
}

// Messages converts a plan into kafka messages.
func Messages(plan *model.ActionPlan) ([]kafka.Message, error) {
	var msgs []kafka.Message
	add := func(key string, ev Event) error {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", ev.Kind, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: body, Time: plan.GeneratedAt})
		return nil
	}
	for i := range plan.ImmediateActions {
		a := plan.ImmediateActions[i]
		if err := add(a.Room, Event{Kind: EventImmediateAction, GeneratedAt: plan.GeneratedAt, Action: &a}); err != nil {
			return nil, err
		}
	}
	for i := range plan.Reallocations {
		r := plan.Reallocations[i]
		if err := add(r.To, Event{Kind: EventReallocation, GeneratedAt: plan.GeneratedAt, Reallocation: &r}); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
