package bootstrap

import (
	"context"
	"fmt"
	"log"

	"ai-storefront/internal/config"
	"ai-storefront/internal/controller"
	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/cached"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/internal/repository/filesystem"
	"ai-storefront/internal/repository/implementation"
	"ai-storefront/internal/repository/memory"
	"ai-storefront/internal/repository/redisstore"
	"ai-storefront/internal/service"
	"ai-storefront/internal/view"
	"ai-storefront/pkg/events"
	"ai-storefront/pkg/llm"
	"ai-storefront/pkg/llm/factory"
	"ai-storefront/pkg/navigation"
	"ai-storefront/pkg/render"
	"ai-storefront/pkg/session"

	pktNats "ai-storefront/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	StorefrontController controller.IStorefrontController
	ChatController       controller.IChatController
	AdminController      controller.IAdminController

	// Background Services (Exposed for main.go to run)
	TranscriptService service.ITranscriptService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db is only used by the postgres
// content backend and may be nil otherwise.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Logging
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	transcriptLogger := logger.NewIsolatedLogger(cfg.App.TranscriptLogPath)
	c.Logger = sysLogger
	c.onClose(func() {
		_ = transcriptLogger.Sync()
		_ = sysLogger.Sync()
	})

	// 2. Content store
	var source contract.ContentRepository
	switch cfg.Content.Backend {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("content backend postgres requires a database connection")
		}
		source = implementation.NewContentRepository(db)
	case "filesystem", "":
		source = filesystem.NewContentRepository(cfg.Content.Root, cfg.Content.StrictOrdering, sysLogger)
	default:
		return nil, fmt.Errorf("unsupported content backend: %s", cfg.Content.Backend)
	}
	content := cached.NewContentRepository(source, cfg.Content.CacheTTL)

	// 3. Sessions
	var sessionRepo contract.SessionRepository
	switch cfg.Session.Backend {
	case "redis":
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.onClose(func() { _ = rdb.Close() })
		sessionRepo = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
	case "memory", "":
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}
	sessions := session.NewManager(sessionRepo)

	// 4. Event Bus
	bus := events.NewBus(watermill.NewStdLogger(false, false))
	c.onClose(func() { _ = bus.Close() })

	var forwarder service.Forwarder
	if cfg.App.NatsURL != "" {
		publisher, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			// The storefront works without the outbound stream
			log.Printf("Warning: NATS publisher unavailable: %v", err)
		} else {
			forwarder = publisher
			c.onClose(publisher.Close)
		}
	}
	eventPublisher := service.NewEventPublisher(bus, sysLogger)
	c.TranscriptService = service.NewTranscriptService(bus, transcriptLogger, sysLogger, forwarder)

	// 5. Model gateway
	settings := factory.Settings{
		Provider:  cfg.Ai.LLMProvider,
		ModelName: cfg.Ai.GeminiModel,
		APIKey:    cfg.Keys.GoogleGemini,
	}
	if cfg.Ai.LLMProvider == "ollama" {
		settings.ModelName = cfg.Ai.OllamaModel
		settings.BaseURL = cfg.Ai.OllamaBaseURL
	}
	gateway, gatewayErr := factory.NewGateway(ctx, settings)
	if gatewayErr != nil {
		sysLogger.Error(logger.ModuleGateway, "Model gateway unavailable", map[string]interface{}{
			"provider": settings.Provider,
			"error":    gatewayErr.Error(),
		})
	} else {
		gateway = llm.WithTimeout(gateway, cfg.Ai.Timeout)
	}

	// 6. Services
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router := navigation.NewRouter(entity.SectionInfo.IDPrefix(), entity.SectionArticles.IDPrefix())

	chatService := service.NewChatService(
		content,
		gateway,
		gatewayErr,
		eventPublisher,
		render.NewMarkdown(),
		sysLogger,
		service.ChatOptions{
			DefaultModel:       settings.ModelName,
			VisualMatching:     cfg.Chat.VisualMatching,
			MaxAttachmentBytes: cfg.Chat.MaxAttachmentBytes,
		},
	)
	storefrontService := service.NewStorefrontService(
		content,
		content,
		router,
		chatService,
		eventPublisher,
		sysLogger,
		service.SiteInfo{AuthorName: cfg.Site.AuthorName, AuthorURL: cfg.Site.AuthorURL},
	)

	// 7. Controllers
	c.StorefrontController = controller.NewStorefrontController(storefrontService, chatService, sessions, renderer)
	c.ChatController = controller.NewChatController(chatService, sessions, sysLogger, cfg.Chat.MaxAttachmentBytes)
	c.AdminController = controller.NewAdminController(storefrontService, sysLogger, transcriptLogger, cfg.Keys.JWTSecret)

	return c, nil
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close releases the connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
