package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amargenjac/contract-clause-extractor/internal/extract"
	"github.com/amargenjac/contract-clause-extractor/internal/extractions"
	"github.com/amargenjac/contract-clause-extractor/internal/llm"
	"github.com/amargenjac/contract-clause-extractor/internal/llm/gemini"
	"github.com/amargenjac/contract-clause-extractor/internal/llm/openai"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/config"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/server"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/storage/db"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/storage/object"
	localstore "github.com/amargenjac/contract-clause-extractor/internal/shared/storage/object/local"
	s3store "github.com/amargenjac/contract-clause-extractor/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.Store
	Registry           *llm.Registry
	ExtractionsRepo    extractions.Repo
	ExtractionsService *extractions.Service
	ExtractionsHandler *extractions.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo extractions.Repo
	if sqlDB != nil {
		repo = &extractions.PGRepo{DB: sqlDB}
	} else {
		repo = extractions.NewMemoryRepo()
	}

	registry := llm.NewRegistry(buildFactories(cfg))

	svc := &extractions.Service{
		Repo:    repo,
		Text:    extract.PDFExtractor{},
		Clauses: &extractions.LLMExtractor{Clients: registry},
		Archive: store,
	}
	handler := extractions.NewHandler(svc)

	app := &App{
		Config:             cfg,
		DB:                 sqlDB,
		Store:              store,
		Registry:           registry,
		ExtractionsRepo:    repo,
		ExtractionsService: svc,
		ExtractionsHandler: handler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		ExtractionsHandler: handler,
	})

	return app, nil
}

// buildFactories maps each provider to a client constructor. A missing
// API key leaves the provider unconfigured, which routes extraction to
// the deterministic mock instead of failing.
func buildFactories(cfg config.Config) map[llm.Provider]llm.Factory {
	factories := make(map[llm.Provider]llm.Factory)
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		factories[llm.ProviderOpenAI] = func(ctx context.Context) (llm.Client, error) {
			return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		factories[llm.ProviderGemini] = func(ctx context.Context) (llm.Client, error) {
			return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	}
	return factories
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
