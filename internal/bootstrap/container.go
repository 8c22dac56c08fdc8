package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"lab-assistant-be/internal/config"
	"lab-assistant-be/internal/controller"
	"lab-assistant-be/internal/pkg/logger"
	"lab-assistant-be/internal/repository/memory"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/internal/service"
	"lab-assistant-be/pkg/agent/executor"
	"lab-assistant-be/pkg/agent/planner"
	"lab-assistant-be/pkg/agent/synthesis"
	"lab-assistant-be/pkg/llm"
	"lab-assistant-be/pkg/llm/openai"
	pktNats "lab-assistant-be/pkg/nats"
	"lab-assistant-be/pkg/tools"
)

type Container struct {
	// Controllers
	RequestController controller.IRequestController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	WorkerService service.IWorkerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		// No DB configured: run fully in memory (local development).
		log.Printf("[WARN] DB_CONNECTION_STRING not set, using in-memory repositories")
		uowFactory = memory.NewRepositoryFactory()
	}

	// 2. Queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Event Bus (optional, best effort)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 4. LLM Provider (only wired when the LLM strategy is selected)
	var llmProvider llm.LLMProvider
	if cfg.Llm.UseLLM && cfg.Llm.APIKey != "" {
		llmProvider = openai.NewOpenAIProvider(cfg.Llm.BaseURL, cfg.Llm.APIKey, cfg.Llm.Model)
		log.Printf("[INFO] Using LLM synthesis strategy (%s)", cfg.Llm.Model)
	} else {
		log.Printf("[INFO] Using deterministic synthesis strategy")
	}

	// 5. Agent Pipeline
	synthesisEngine := synthesis.NewEngine(
		synthesis.Config{
			UseLLM: cfg.Llm.UseLLM,
			APIKey: cfg.Llm.APIKey,
			Model:  cfg.Llm.Model,
		},
		llmProvider,
		stdLogger,
	)
	planExecutor := executor.NewExecutor(
		tools.NewDocSearcher(cfg.Docs.Path),
		tools.NewIncidentSearcher(),
		synthesisEngine,
		stdLogger,
	)
	plannerService := planner.NewService(llmProvider, stdLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.RequestTopic, pubSub)
	requestService := service.NewRequestService(uowFactory, publisherService, natsPub)
	workerService := service.NewWorkerService(
		pubSub,
		cfg.App.RequestTopic,
		uowFactory,
		plannerService,
		planExecutor,
		natsPub,
		sysLogger,
	)
	healthService := service.NewHealthService(db)

	return &Container{
		RequestController: controller.NewRequestController(requestService),
		HealthController:  controller.NewHealthController(healthService),
		WorkerService:     workerService,
		Logger:            sysLogger,
	}
}
