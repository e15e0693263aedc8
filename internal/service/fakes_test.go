package service

import (
	"context"
	"sync"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/events"
	"ai-storefront/pkg/llm"
)

// recordingLogger keeps every entry in memory.
type recordingLogger struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	Level   string
	Module  string
	Message string
	Details map[string]interface{}
}

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, recordedEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(m, msg string, d map[string]interface{}) { l.add("DEBUG", m, msg, d) }
func (l *recordingLogger) Info(m, msg string, d map[string]interface{})  { l.add("INFO", m, msg, d) }
func (l *recordingLogger) Warn(m, msg string, d map[string]interface{})  { l.add("WARN", m, msg, d) }
func (l *recordingLogger) Error(m, msg string, d map[string]interface{}) { l.add("ERROR", m, msg, d) }
func (l *recordingLogger) Sync() error                                   { return nil }
func (l *recordingLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (l *recordingLogger) GetLogById(string) (*logger.LogEntry, error) {
	return nil, logger.ErrLogNotFound
}

func (l *recordingLogger) snapshot() []recordedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedEntry(nil), l.entries...)
}

// recordingBus collects published events.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.EventType())
	}
	return out
}

// fakeGateway answers from a script and records what it was asked.
type fakeGateway struct {
	mu       sync.Mutex
	started  []llm.DialogueConfig
	options  []llm.Options
	sent     []llm.Message
	replyFn  func(msg llm.Message) (string, error)
	startErr error
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) StartDialogue(_ context.Context, cfg llm.DialogueConfig, opts ...llm.Option) (llm.Dialogue, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.startErr != nil {
		return nil, g.startErr
	}
	o := llm.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	g.started = append(g.started, cfg)
	g.options = append(g.options, o)
	return &fakeDialogue{gateway: g}, nil
}

type fakeDialogue struct {
	gateway *fakeGateway
}

func (d *fakeDialogue) Send(_ context.Context, msg llm.Message) (string, error) {
	d.gateway.mu.Lock()
	d.gateway.sent = append(d.gateway.sent, msg)
	fn := d.gateway.replyFn
	d.gateway.mu.Unlock()
	if fn == nil {
		return "dạ: " + msg.Content, nil
	}
	return fn(msg)
}

// fakeContent is an in-memory content store.
type fakeContent struct {
	articles     []entity.ContentPage
	infoPages    []entity.ContentPage
	products     []entity.ProductRecord
	descriptions []entity.ProductDescription
	bodies       map[string]string
	images       map[string]*entity.Attachment
	system       map[string]string
	logo         *entity.Attachment
	model        string
}

var _ contract.ContentRepository = (*fakeContent)(nil)

func (f *fakeContent) ListArticles(context.Context) ([]entity.ContentPage, error) {
	return append([]entity.ContentPage(nil), f.articles...), nil
}

func (f *fakeContent) ListInfoPages(context.Context) ([]entity.ContentPage, error) {
	return append([]entity.ContentPage(nil), f.infoPages...), nil
}

func (f *fakeContent) ListProducts(context.Context) ([]entity.ProductRecord, error) {
	return f.products, nil
}

func (f *fakeContent) ListProductDescriptions(context.Context) ([]entity.ProductDescription, error) {
	return f.descriptions, nil
}

func (f *fakeContent) ReadBody(_ context.Context, ref string) (string, error) {
	if body, ok := f.bodies[ref]; ok {
		return body, nil
	}
	return "", contract.ErrContentNotFound
}

func (f *fakeContent) ReadImage(_ context.Context, ref string) (*entity.Attachment, error) {
	if img, ok := f.images[ref]; ok {
		return img, nil
	}
	return nil, contract.ErrContentNotFound
}

func (f *fakeContent) ReadSystemText(_ context.Context, name string) (string, error) {
	return f.system[name], nil
}

func (f *fakeContent) ReadLogo(context.Context) (*entity.Attachment, error) {
	if f.logo == nil {
		return nil, contract.ErrContentNotFound
	}
	return f.logo, nil
}

func (f *fakeContent) ReadModelOverride(context.Context) (string, error) {
	return f.model, nil
}
