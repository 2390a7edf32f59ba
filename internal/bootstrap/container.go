package bootstrap

import (
	"context"
	"log"

	"asistentas-gateway/internal/config"
	"asistentas-gateway/internal/controller"
	"asistentas-gateway/internal/handler"
	"asistentas-gateway/internal/mapper"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/repository/cache"
	"asistentas-gateway/internal/repository/memory"
	"asistentas-gateway/internal/service"
	"asistentas-gateway/internal/websocket"
	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/state"

	pktNats "asistentas-gateway/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Container struct {
	// Controllers
	ProxyController   controller.IProxyController
	ProjectController controller.IProjectController
	SessionController controller.ISessionController
	AdminController   controller.IAdminController

	// Background services, started by main
	ConsumerService     service.IConsumerService
	SessionEventService *service.SessionEventService

	// WebSockets
	SessionSocketHandler *handler.SessionSocketHandler
	WebSocketHub         *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	client := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.MetadataTimeout, cfg.Backend.QueryTimeout)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)

	// 3. Infrastructure, all optional
	rdb := connectRedis(cfg.App.RedisURL)

	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	var snapshots cache.SnapshotStore = cache.NewMemorySnapshotStore(cfg.Chat.SnapshotTTL)
	if rdb != nil {
		snapshots = cache.NewTieredSnapshotStore(snapshots, cache.NewRedisSnapshotStore(rdb, cfg.Chat.SnapshotTTL))
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.SocketLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	notifier := service.NewSessionNotifier(eventPublisher, wsHub, wsLogger)

	var sessionEventService *service.SessionEventService
	if natsSub != nil {
		sessionEventService = service.NewSessionEventService(natsSub, wsHub, wsLogger)
	}

	// 4. Services
	documentMapper := mapper.NewDocumentMapper()
	sessionMapper := mapper.NewSessionMapper(documentMapper)
	sessionRepo := memory.NewSessionRepository(cfg.Chat.SessionTTL)
	limiter := newMetadataLimiter(cfg.Backend.MetadataRPS, cfg.Backend.MetadataBurst)

	projectService := service.NewProjectService(client, snapshots, limiter, documentMapper, sysLogger)
	proxyService := service.NewProxyService(client, cfg.Chat.ModelName, sysLogger)
	publisherService := service.NewPublisherService(cfg.Chat.RefreshTopic, pubSub)

	conversationService := service.NewConversationService(
		sessionRepo,
		client,
		projectService,
		publisherService,
		notifier,
		state.NewManager(sysLogger),
		sessionMapper,
		sysLogger,
		cfg.Chat,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.RefreshTopic,
		conversationService,
		sysLogger,
		cfg.Chat.RefreshWorkers,
	)
	adminService := service.NewAdminService(sysLogger)

	c := &Container{
		ProxyController:   controller.NewProxyController(proxyService),
		ProjectController: controller.NewProjectController(projectService),
		SessionController: controller.NewSessionController(conversationService),
		AdminController:   controller.NewAdminController(adminService, cfg.App.AdminToken),

		ConsumerService:     consumerService,
		SessionEventService: sessionEventService,

		SessionSocketHandler: handler.NewSessionSocketHandler(conversationService, wsHub, wsLogger),
		WebSocketHub:         wsHub,

		Logger: sysLogger,
	}

	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	if natsSub != nil {
		c.closers = append(c.closers, natsSub.Close)
	}
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	c.closers = append(c.closers, func() {
		_ = wsLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c
}

// Start runs the hub and the background consumers until ctx ends.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if c.SessionEventService != nil {
		c.SessionEventService.Start()
	}
	return c.ConsumerService.Consume(ctx)
}

func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// newMetadataLimiter returns nil, meaning unlimited, unless both the rate and
// the burst are positive. A zero burst would reject every Wait.
func newMetadataLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// connectRedis returns nil when no URL is configured. An unreachable server
// is logged and kept, go-redis reconnects on its own.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
