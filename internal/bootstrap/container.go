package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"profile-concierge-be/internal/config"
	"profile-concierge-be/internal/controller"
	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/internal/pkg/mailer"
	"profile-concierge-be/internal/repository/implementation"
	"profile-concierge-be/internal/repository/memory"
	"profile-concierge-be/internal/service"
	"profile-concierge-be/pkg/convo/action"
	"profile-concierge-be/pkg/convo/format"
	"profile-concierge-be/pkg/convo/generate"
	"profile-concierge-be/pkg/convo/grounding"
	"profile-concierge-be/pkg/convo/pipeline"
	"profile-concierge-be/pkg/convo/retrieval"
	"profile-concierge-be/pkg/convo/telemetry"
	"profile-concierge-be/pkg/docs"
	"profile-concierge-be/pkg/embedding"
	"profile-concierge-be/pkg/livedata"
	"profile-concierge-be/pkg/llm/factory"

	pkgNats "profile-concierge-be/pkg/nats"
)

const generationTimeout = 30 * time.Second

// Container wires the whole dependency graph once per process.
type Container struct {
	// Controllers
	ChatController     controller.IChatController
	OpsController      controller.IOpsController
	DocumentController controller.IDocumentController

	// Background services (exposed for main.go to run)
	AnalyticsConsumer service.IAnalyticsConsumer
	OwnerNotifier     service.IOwnerNotifier

	// Held for graceful shutdown
	Logger  logger.ILogger
	NatsPub *pkgNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Turn records get their own file so analytics noise never buries
	// operational logs.
	turnLogger := logger.NewIsolatedLogger(cfg.App.TurnLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Monotonic flags go through redis when available so replicas agree
	// on what was already sent. Single-process fallback otherwise.
	var flagStore action.FlagStore = memory.NewLocalFlagStore()
	if opts, parseErr := redis.ParseURL(cfg.App.RedisURL); parseErr == nil {
		flagStore = memory.NewRedisFlagStore(redis.NewClient(opts))
		log.Printf("[INFO] Flag store: redis")
	} else {
		log.Printf("[WARN] Redis unavailable (%v), using in-process flag store", parseErr)
	}

	sessionRepo := memory.NewSessionRepository()
	chunkRepo := implementation.NewKnowledgeChunkRepository(db)
	interactionRepo := implementation.NewInteractionRepository(db)

	linkSigner := docs.NewLinkSigner(
		cfg.Keys.DocumentToken,
		cfg.App.BaseURL,
		time.Duration(cfg.Concierge.LinkTTLMinutes)*time.Minute,
	)
	githubFetcher := livedata.NewGitHubFetcher(cfg.Concierge.OwnerGitHub)

	// 5. Pipeline stages with external collaborators
	retriever := retrieval.NewRetriever(embeddingProvider, chunkRepo, sysLogger, retrieval.Config{
		SimilarityFloor: cfg.Concierge.SimilarityFloor,
		TopK:            cfg.Concierge.TopK,
		CandidateCap:    cfg.Concierge.CandidateCap,
	})
	validator := grounding.NewValidator(cfg.Concierge.GroundingFloor)
	generator := generate.NewGenerator(llmProvider, sysLogger, cfg.Concierge.OwnerName, generationTimeout)

	var alerter action.OwnerAlerter
	if natsPub != nil {
		alerter = natsPub
	}
	executor := action.NewExecutor(
		linkSigner,
		emailService,
		alerter,
		flagStore,
		sysLogger,
		cfg.Concierge.OwnerName,
		cfg.Concierge.ResumeDocumentID,
	)

	formatter := format.NewFormatter(
		githubFetcher,
		sysLogger,
		time.Duration(cfg.Concierge.LiveDataTimeoutSec)*time.Second,
	)
	recorder := telemetry.NewRecorder(pubSub, cfg.Concierge.TelemetryTopic, interactionRepo, turnLogger)

	conversationPipeline := pipeline.New(
		retriever,
		validator,
		generator,
		executor,
		formatter,
		recorder,
		sysLogger,
		cfg.Concierge.OwnerName,
	)

	// 6. Services
	conciergeService := service.NewConciergeService(conversationPipeline, sessionRepo, sysLogger)
	analyticsService := service.NewAnalyticsService(interactionRepo, sysLogger)
	documentService := service.NewDocumentService(linkSigner, natsPub, cfg.Concierge.DocumentsDir, sysLogger)
	analyticsConsumer := service.NewAnalyticsConsumer(pubSub, cfg.Concierge.TelemetryTopic, interactionRepo, turnLogger)
	ownerNotifier := service.NewOwnerNotifier(natsSub, emailService, cfg.Concierge.OwnerEmail, sysLogger)

	return &Container{
		ChatController:     controller.NewChatController(conciergeService),
		OpsController:      controller.NewOpsController(analyticsService),
		DocumentController: controller.NewDocumentController(documentService),
		AnalyticsConsumer:  analyticsConsumer,
		OwnerNotifier:      ownerNotifier,
		Logger:             sysLogger,
		NatsPub:            natsPub,
	}
}
