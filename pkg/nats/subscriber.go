package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type EventHandler func(ctx context.Context, event events.Event) error

const consumerInactiveThreshold = time.Hour

// Subscriber consumes the EVENTS stream through durable consumers.
type Subscriber struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	log      logger.ILogger
	contexts []jetstream.ConsumeContext
}

func NewSubscriber(url string, log logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js, log: log}, nil
}

// Subscribe registers handler for events matching eventPattern ("turn.completed",
// "document.>"). Handler errors nak the message for redelivery.
func (s *Subscriber) Subscribe(ctx context.Context, eventPattern, durableName string, handler EventHandler) error {
	subject := Subject(eventPattern)
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, consumerConfig(subject, durableName))
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := Decode(msg.Subject(), msg.Data())
		if err != nil {
			s.log.Error(logModule, "Dropping undecodable event", map[string]interface{}{"subject": msg.Subject(), "error": err.Error()})
			_ = msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			s.log.Warn(logModule, "Event handler failed", map[string]interface{}{"subject": msg.Subject(), "error": err.Error()})
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.contexts = append(s.contexts, cc)

	s.log.Info(logModule, "Subscribed", map[string]interface{}{"subject": subject, "durable": durableName})
	return nil
}

// consumerConfig builds a durable consumer that the server removes once it
// has had no subscriber for consumerInactiveThreshold, so durables named
// after short-lived instances do not pile up.
func consumerConfig(subject, durableName string) jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Durable:           durableName,
		FilterSubject:     subject,
		AckPolicy:         jetstream.AckExplicitPolicy,
		DeliverPolicy:     jetstream.DeliverNewPolicy,
		MaxDeliver:        5,
		InactiveThreshold: consumerInactiveThreshold,
	}
}

// Decode rebuilds an event from its wire form. The type falls back to the
// subject when the envelope does not carry one.
func Decode(subject string, data []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, err
	}
	if env.Type == "" {
		env.Type = strings.TrimPrefix(subject, subjectPrefix)
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}
	return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.contexts {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
