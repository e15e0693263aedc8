// FILE: internal/service/transcript_service.go
package service

import (
	"context"

	"ai-storefront/internal/pkg/logger"
	"ai-storefront/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Forwarder ships events to another system, e.g. the NATS publisher.
type Forwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSource interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

type ITranscriptService interface {
	Consume(ctx context.Context) error
}

// transcriptService writes every domain event to the transcript log and
// optionally forwards it.
type transcriptService struct {
	source     EventSource
	transcript logger.ILogger
	logger     logger.ILogger
	forwarder  Forwarder
}

func NewTranscriptService(
	source EventSource,
	transcript logger.ILogger,
	logger logger.ILogger,
	forwarder Forwarder,
) ITranscriptService {
	return &transcriptService{
		source:     source,
		transcript: transcript,
		logger:     logger,
		forwarder:  forwarder,
	}
}

func (ts *transcriptService) Consume(ctx context.Context) error {
	messages, err := ts.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ts.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ts *transcriptService) processMessage(ctx context.Context, msg *message.Message) {
	// Invalid messages are acked, there is nothing to retry
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		ts.logger.Error(logger.ModuleEvents, "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	details := map[string]interface{}{
		"event_id":    msg.UUID,
		"occurred_at": event.OccurredAt,
	}
	for k, v := range event.Data {
		details[k] = v
	}
	if event.Type == events.ChatTurnFailed {
		ts.transcript.Warn(logger.ModuleChat, event.Type, details)
	} else {
		ts.transcript.Info(logger.ModuleChat, event.Type, details)
	}

	if ts.forwarder == nil {
		return
	}
	if err := ts.forwarder.Publish(ctx, event); err != nil {
		ts.logger.Warn(logger.ModuleEvents, "Failed to forward event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
}
