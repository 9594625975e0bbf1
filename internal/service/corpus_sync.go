package service

import (
	"context"

	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/pkg/events"
	pktNats "prados-legal-be/pkg/nats"
)

// CorpusInvalidator drops a cached view of the knowledge corpus.
type CorpusInvalidator interface {
	Invalidate()
}

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventPattern, durableName string, handler pktNats.EventHandler) error
}

var corpusChangeTypes = map[string]bool{
	events.TypeDocumentIngested:  true,
	events.TypeKnowledgeReseeded: true,
}

// CorpusSync keeps the cached corpus fresh. It sees local changes as an
// events.Publisher and changes made by other processes through the bus.
type CorpusSync struct {
	cache  CorpusInvalidator
	logger logger.ILogger
}

func NewCorpusSync(cache CorpusInvalidator, log logger.ILogger) *CorpusSync {
	return &CorpusSync{cache: cache, logger: log}
}

func (s *CorpusSync) Publish(_ context.Context, event events.Event) error {
	s.handle(event)
	return nil
}

// Listen subscribes this instance to corpus changes. instanceID keeps the
// durable consumer per process so every instance sees every change.
func (s *CorpusSync) Listen(ctx context.Context, sub EventSubscriber, instanceID string) error {
	for _, pattern := range []string{events.TypeDocumentIngested, events.TypeKnowledgeReseeded} {
		durable := "corpus-sync-" + instanceID + "-" + durableSuffix(pattern)
		if err := sub.Subscribe(ctx, pattern, durable, func(_ context.Context, event events.Event) error {
			s.handle(event)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *CorpusSync) handle(event events.Event) {
	if !corpusChangeTypes[event.EventType()] {
		return
	}
	s.cache.Invalidate()
	s.logger.Debug("CORPUS", "Knowledge cache invalidated", map[string]interface{}{"event": event.EventType()})
}

func durableSuffix(pattern string) string {
	out := []rune(pattern)
	for i, r := range out {
		if r == '.' || r == '*' || r == '>' {
			out[i] = '_'
		}
	}
	return string(out)
}
