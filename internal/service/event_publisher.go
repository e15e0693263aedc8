package service

import (
	"context"

	"ai-storefront/internal/pkg/logger"
	"ai-storefront/pkg/events"
)

type EventBus interface {
	Publish(ctx context.Context, e events.Event) error
}

// IEventPublisher emits the storefront domain events. Publishing never fails
// the caller; errors are logged.
type IEventPublisher interface {
	PublishTurnCompleted(ctx context.Context, sessionId, turnId, question, reply, model string)
	PublishTurnFailed(ctx context.Context, sessionId, turnId, question, model string, cause error)
	PublishSessionReset(ctx context.Context, sessionId string, turns int)
	PublishContentRefreshed(ctx context.Context, articles, infoPages, products int)
}

type eventPublisher struct {
	bus    EventBus
	logger logger.ILogger
}

func NewEventPublisher(bus EventBus, logger logger.ILogger) IEventPublisher {
	return &eventPublisher{bus: bus, logger: logger}
}

func (p *eventPublisher) PublishTurnCompleted(ctx context.Context, sessionId, turnId, question, reply, model string) {
	p.publish(ctx, events.New(events.ChatTurnCompleted, map[string]interface{}{
		"session_id": sessionId,
		"turn_id":    turnId,
		"question":   question,
		"reply":      reply,
		"model":      model,
	}))
}

func (p *eventPublisher) PublishTurnFailed(ctx context.Context, sessionId, turnId, question, model string, cause error) {
	p.publish(ctx, events.New(events.ChatTurnFailed, map[string]interface{}{
		"session_id": sessionId,
		"turn_id":    turnId,
		"question":   question,
		"model":      model,
		"error":      cause.Error(),
	}))
}

func (p *eventPublisher) PublishSessionReset(ctx context.Context, sessionId string, turns int) {
	p.publish(ctx, events.New(events.ChatSessionReset, map[string]interface{}{
		"session_id": sessionId,
		"turns":      turns,
	}))
}

func (p *eventPublisher) PublishContentRefreshed(ctx context.Context, articles, infoPages, products int) {
	p.publish(ctx, events.New(events.ContentRefreshed, map[string]interface{}{
		"articles":   articles,
		"info_pages": infoPages,
		"products":   products,
	}))
}

func (p *eventPublisher) publish(ctx context.Context, e events.BaseEvent) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, e); err != nil {
		p.logger.Error(logger.ModuleEvents, "Failed to publish "+e.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}
