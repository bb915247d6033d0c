package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/assist"
	"tender-backend/internal/chat"
	"tender-backend/internal/dashboard"
	"tender-backend/internal/documents"
	"tender-backend/internal/events"
	"tender-backend/internal/extract"
	"tender-backend/internal/ingest"
	"tender-backend/internal/insights"
	"tender-backend/internal/integrations"
	"tender-backend/internal/llm"
	"tender-backend/internal/llm/gemini"
	"tender-backend/internal/llm/openai"
	"tender-backend/internal/scoring"
	"tender-backend/internal/services/health"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/server"
	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/storage/object"
	gcsstore "tender-backend/internal/shared/storage/object/gcs"
	localstore "tender-backend/internal/shared/storage/object/local"
	s3store "tender-backend/internal/shared/storage/object/s3"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/tenders"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Store        object.ObjectStore
	LLM          llm.Client
	Events       events.Publisher
	Integrations *integrations.Registry

	TendersService   *tenders.Service
	DocumentsService *documents.Service
	ChatService      *chat.Service
	InsightsService  *insights.Service
	IngestService    *ingest.Service
	AssistService    *assist.Service
	DashboardService *dashboard.Service

	closers []io.Closer
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := BuildServices(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var filesDir string
	if local, ok := app.Store.(*localstore.Store); ok {
		filesDir = local.Dir()
	}
	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Health:              health.NewService(pinger, cfg.ObjectStoreType, providerName(app.LLM, cfg)),
		FilesDir:            filesDir,
		TenderHandler:       tenders.NewHandler(app.TendersService),
		DocumentHandler:     documents.NewHandler(app.DocumentsService),
		UploadHandler:       ingest.NewHandler(app.IngestService),
		ChatHandler:         chat.NewHandler(app.ChatService),
		InsightHandler:      insights.NewHandler(app.InsightsService),
		AssistHandler:       assist.NewHandler(app.AssistService),
		DashboardHandler:    dashboard.NewHandler(app.DashboardService),
		IntegrationsHandler: integrations.NewHandler(app.Integrations),
	})
	return app, nil
}

// BuildServices wires storage, providers and services without a router. The
// operator CLI uses it directly.
func BuildServices(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.DefaultTenderID) == "" {
		cfg.DefaultTenderID = config.DefaultTenderID
	}
	if strings.TrimSpace(cfg.OrganizationID) == "" {
		cfg.OrganizationID = config.DefaultOrganizationID
	}

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	client, closer, err := buildLLM(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = client
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	publisher, err := buildEvents(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Events = publisher

	scorer, err := buildScorer(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	buildDomain(app, scorer)

	app.Integrations = integrations.NewRegistry(func() []integrations.Connector {
		return integrations.Connectors(cfg.IntegrationsMode)
	})
	app.Integrations.Init()

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"database":     sqlDB != nil,
		"object_store": cfg.ObjectStoreType,
		"llm":          providerName(client, cfg),
		"integrations": cfg.IntegrationsMode,
	})
	return app, nil
}

// Close releases provider clients and the database pool.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err})
		}
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "gcs":
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
		return gcsstore.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

// buildLLM returns the provider client and, for providers holding a connection,
// the closer to release it.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, io.Closer, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			telemetry.Warn("bootstrap.llm_not_configured", map[string]any{"provider": "gemini", "reason": "GEMINI_API_KEY empty"})
			return llm.PlaceholderClient{}, nil, nil
		}
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return llm.WithRetry(c), c, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			telemetry.Warn("bootstrap.llm_not_configured", map[string]any{"provider": "openai", "reason": "OPENAI_API_KEY empty"})
			return llm.PlaceholderClient{}, nil, nil
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return llm.WithRetry(c), nil, nil
	default:
		return llm.PlaceholderClient{}, nil, nil
	}
}

func buildEvents(ctx context.Context, cfg config.Config) (events.Publisher, error) {
	if strings.TrimSpace(cfg.EventsQueueURL) == "" {
		return events.Noop{}, nil
	}
	return events.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.EventsQueueURL)
}

func buildScorer(cfg config.Config) (scoring.Scorer, error) {
	if strings.TrimSpace(cfg.CapabilitiesFile) == "" {
		return scoring.NewKeywordScorer(nil), nil
	}
	caps, err := scoring.LoadCapabilities(cfg.CapabilitiesFile)
	if err != nil {
		return nil, err
	}
	return scoring.NewKeywordScorer(caps), nil
}

func buildDomain(app *App, scorer scoring.Scorer) {
	var (
		tenderRepo  tenders.Repo
		docRepo     documents.DocumentsRepo
		messageRepo chat.MessagesRepo
		insightRepo insights.InsightsRepo
	)
	if app.DB != nil {
		tenderRepo = &tenders.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		messageRepo = &chat.PGRepo{DB: app.DB}
		insightRepo = &insights.PGRepo{DB: app.DB}
	} else {
		tenderRepo = tenders.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		messageRepo = chat.NewMemoryRepo()
		insightRepo = insights.NewMemoryRepo()
	}

	app.TendersService = tenders.NewService(tenderRepo, scorer, app.Config.OrganizationID)
	app.DocumentsService = &documents.Service{Store: app.Store, Repo: docRepo}
	app.ChatService = &chat.Service{Repo: messageRepo}
	app.InsightsService = &insights.Service{Repo: insightRepo}

	var reader llm.DocumentReader
	if r, ok := llm.AsDocumentReader(app.LLM); ok {
		reader = r
	}
	app.IngestService = &ingest.Service{
		Store:           app.Store,
		Extractor:       extract.NewOrchestrator(reader, os.TempDir()),
		LLM:             app.LLM,
		Scorer:          scorer,
		Tenders:         app.TendersService,
		Documents:       app.DocumentsService,
		Chat:            app.ChatService,
		Insights:        app.InsightsService,
		Events:          app.Events,
		DefaultTenderID: app.Config.DefaultTenderID,
	}
	app.AssistService = &assist.Service{
		LLM:       app.LLM,
		Tenders:   app.TendersService,
		Documents: app.DocumentsService,
	}
	app.DashboardService = &dashboard.Service{
		Tenders:   app.TendersService,
		Documents: app.DocumentsService,
	}
}

func providerName(c llm.Client, cfg config.Config) string {
	if !llm.Configured(c) {
		return "none"
	}
	return cfg.LLMProvider
}
