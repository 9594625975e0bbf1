package bootstrap

import (
	"context"
	"log"

	"prados-legal-be/internal/config"
	"prados-legal-be/internal/constant"
	"prados-legal-be/internal/controller"
	"prados-legal-be/internal/handler"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/implementation"
	"prados-legal-be/internal/repository/memory"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/internal/service"
	"prados-legal-be/internal/websocket"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/avatar/liveavatar"
	"prados-legal-be/pkg/events"
	"prados-legal-be/pkg/llm/factory"
	pktNats "prados-legal-be/pkg/nats"
	ragcontext "prados-legal-be/pkg/rag/context"
	"prados-legal-be/pkg/rag/corpus"
	"prados-legal-be/pkg/rag/response"
	"prados-legal-be/pkg/rag/session"
	"prados-legal-be/pkg/rag/store"
	"prados-legal-be/pkg/voice"
	"prados-legal-be/pkg/voice/elevenlabs"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	RootController         controller.IRootController
	UserController         controller.IUserController
	ConversationController controller.IConversationController
	MessageController      controller.IMessageController
	DocumentController     controller.IDocumentController
	SearchController       controller.ISearchController
	KnowledgeController    controller.IKnowledgeController
	VoiceController        controller.IVoiceController
	LiveAvatarController   controller.ILiveAvatarController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	cfg          *config.Config
	guard        *session.Guard
	orchestrator *pipeline.Orchestrator
	avatar       *liveavatar.Client
	corpusSync   *service.CorpusSync
	natsPub      *pktNats.Publisher
	natsSub      *pktNats.Subscriber
	rdb          *redis.Client
	knowledge    store.Store
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional; without it events stay in-process.
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// Redis relays chat frames between instances.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 3. Knowledge & Collaborators
	knowledge := store.NewCached(implementation.NewKnowledgeStore(db), cfg.Session.CorpusCacheTTL)
	corpusSync := service.NewCorpusSync(knowledge, sysLogger)

	eventPublisher := events.Fanout(corpusSync)
	if natsPub != nil {
		eventPublisher = events.Fanout(natsPub, corpusSync)
	}

	llmProvider, profile, err := factory.NewLLMProvider(context.Background(), factory.Config{
		Forced:          cfg.Ai.LLMProvider,
		Model:           cfg.Ai.LLMModel,
		GeminiAPIKey:    cfg.Keys.GoogleGemini,
		OpenAIAPIKey:    cfg.Keys.OpenAI,
		AnthropicAPIKey: cfg.Keys.Anthropic,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", profile.Kind)

	assemblerCfg := ragcontext.DefaultConfig()
	assemblerCfg.OfficialTitlePrefix = cfg.Rag.OfficialTitlePrefix
	assemblerCfg.OfficialCharCap = cfg.Rag.OfficialCharCap
	assemblerCfg.SupplementaryTopK = cfg.Rag.SupplementaryTopK
	assemblerCfg.SupplementaryCharCap = cfg.Rag.SupplementaryCharCap
	assemblerCfg.TotalCharCap = cfg.Rag.TotalCharCap

	shaper := response.NewShaper(llmProvider, response.Config{
		MaxTokens:    cfg.Ai.MaxTokens,
		MaxSentences: cfg.Ai.MaxSentences,
		Timeout:      cfg.Ai.Timeout,
	})

	// An unconfigured voice backend stays a nil interface so turns report it
	// as unavailable.
	var transcriber voice.Transcriber
	var synthesizer voice.Synthesizer
	voiceCfg := elevenlabs.DefaultConfig()
	voiceCfg.APIKey = cfg.Keys.ElevenLabs
	voiceCfg.VoiceID = cfg.Voice.VoiceID
	voiceCfg.ModelID = cfg.Voice.ModelID
	voiceCfg.STTModelID = cfg.Voice.STTModelID
	if el := elevenlabs.New(voiceCfg); el.Configured() {
		transcriber, synthesizer = el, el
	} else {
		log.Printf("[WARN] ElevenLabs not configured, voice endpoints disabled")
	}

	avatarClient := liveavatar.New(liveavatar.Config{
		APIKey:            cfg.Keys.LiveAvatar,
		AvatarID:          cfg.Avatar.AvatarID,
		BaseURL:           cfg.Avatar.BaseURL,
		KeepAliveInterval: cfg.Avatar.KeepAliveInterval,
	}, sysLogger)

	guard := session.NewGuard(cfg.Session.IdleTimeout)

	pipelineCfg := pipeline.DefaultConfig(constant.ValeriaSystem)
	pipelineCfg.MaxAudioBytes = cfg.Limits.MaxAudioBytes
	pipelineCfg.MaxTextChars = cfg.Limits.MaxTextChars
	pipelineCfg.STTTimeout = cfg.Voice.Timeout
	pipelineCfg.TTSTimeout = cfg.Voice.Timeout
	pipelineCfg.PushTimeout = cfg.Avatar.PushTimeout

	orchestrator := pipeline.NewOrchestrator(pipeline.Dependencies{
		Store:       knowledge,
		Assembler:   ragcontext.NewAssembler(assemblerCfg),
		Shaper:      shaper,
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Avatar:      avatarClient,
		Guard:       guard,
		Logger:      sysLogger,
	}, pipelineCfg)

	recorder := service.NewTurnRecorder(uowFactory, wsHub, eventPublisher, sysLogger)
	orchestrator.OnTurn(recorder.Hook())

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		eventPublisher,
		sysLogger,
	)

	userService := service.NewUserService(uowFactory)
	conversationService := service.NewConversationService(uowFactory)
	messageService := service.NewMessageService(uowFactory, orchestrator)
	documentService := service.NewDocumentService(uowFactory, publisherService, eventPublisher, cfg.Limits.MaxUploadBytes, sysLogger)
	searchService := service.NewSearchService(uowFactory)
	knowledgeService := service.NewKnowledgeService(knowledge, cfg.Rag.SupplementaryTopK)
	voiceService := service.NewVoiceService(orchestrator, synthesizer, cfg.Limits.MaxTextChars, sysLogger)
	avatarService := service.NewAvatarService(
		avatarClient,
		orchestrator,
		guard,
		memory.NewAvatarSessionRepository(cfg.Session.IdleTimeout),
		sysLogger,
	)

	chatHandler := handler.NewChatHandler(conversationService, messageService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		RootController:         controller.NewRootController(),
		UserController:         controller.NewUserController(userService),
		ConversationController: controller.NewConversationController(conversationService),
		MessageController:      controller.NewMessageController(messageService),
		DocumentController:     controller.NewDocumentController(documentService),
		SearchController:       controller.NewSearchController(searchService),
		KnowledgeController:    controller.NewKnowledgeController(knowledgeService),
		VoiceController:        controller.NewVoiceController(voiceService),
		LiveAvatarController:   controller.NewLiveAvatarController(avatarService),

		ConsumerService: consumerService,

		ChatHandler:  chatHandler,
		WebSocketHub: wsHub,
		Logger:       sysLogger,

		cfg:          cfg,
		guard:        guard,
		orchestrator: orchestrator,
		avatar:       avatarClient,
		corpusSync:   corpusSync,
		natsPub:      natsPub,
		natsSub:      natsSub,
		rdb:          rdb,
		knowledge:    knowledge,
	}
}

// Start launches the background workers. They stop when ctx is done.
func (c *Container) Start(ctx context.Context) error {
	if c.cfg.Rag.SeedOnStart {
		c.seedCorpus(ctx)
	}

	go c.WebSocketHub.Run(ctx)
	go c.guard.RunJanitor(ctx, c.cfg.Session.SweepInterval)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.natsSub != nil {
		if err := c.corpusSync.Listen(ctx, c.natsSub, c.cfg.App.InstanceID); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Corpus sync not listening", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// seedCorpus never blocks boot; a failed seed only leaves the corpus as is.
func (c *Container) seedCorpus(ctx context.Context) {
	count, err := c.knowledge.Count(ctx)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Knowledge store unreachable, skipping seed", map[string]interface{}{"error": err.Error()})
		return
	}
	if count == 0 {
		n, err := corpus.Load(ctx, c.knowledge)
		if err != nil {
			c.Logger.Warn("BOOTSTRAP", "Base corpus load failed", map[string]interface{}{"error": err.Error(), "loaded": n})
			return
		}
		c.Logger.Info("BOOTSTRAP", "Base corpus loaded", map[string]interface{}{"documents": n})
	}
	wrote, err := corpus.ReseedOfficial(ctx, c.knowledge)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Official document reseed failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if wrote {
		c.Logger.Info("BOOTSTRAP", "Official document reseeded", map[string]interface{}{"title": corpus.OfficialTitle})
	}
}

// Shutdown waits for detached avatar pushes and closes outbound connections.
func (c *Container) Shutdown() {
	c.orchestrator.Drain()
	c.avatar.CloseAll()
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
}
