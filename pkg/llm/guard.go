package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WithTimeout bounds every Send of the dialogues started by g. Deadline
// overruns surface as ErrTimeout; caller cancellation is passed through.
func WithTimeout(g Gateway, timeout time.Duration) Gateway {
	return &guardedGateway{
		next:    g,
		timeout: timeout,
		tracer:  otel.Tracer("ai-storefront/llm"),
	}
}

type guardedGateway struct {
	next    Gateway
	timeout time.Duration
	tracer  trace.Tracer
}

func (g *guardedGateway) Name() string {
	return g.next.Name()
}

func (g *guardedGateway) StartDialogue(ctx context.Context, cfg DialogueConfig, options ...Option) (Dialogue, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.start_dialogue",
		trace.WithAttributes(
			attribute.String("llm.provider", g.next.Name()),
			attribute.Int("llm.history_length", len(cfg.History)),
		),
	)
	defer span.End()

	d, err := g.next.StartDialogue(ctx, cfg, options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &guardedDialogue{next: d, gateway: g}, nil
}

type guardedDialogue struct {
	next    Dialogue
	gateway *guardedGateway
}

func (d *guardedDialogue) Send(ctx context.Context, msg Message) (string, error) {
	ctx, span := d.gateway.tracer.Start(ctx, "gateway.send",
		trace.WithAttributes(
			attribute.String("llm.provider", d.gateway.next.Name()),
			attribute.Bool("llm.has_image", msg.Image != nil),
		),
	)
	defer span.End()

	if d.gateway.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.gateway.timeout)
		defer cancel()
	}

	reply, err := d.next.Send(ctx, msg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", ErrTimeout, d.gateway.timeout, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return reply, nil
}
