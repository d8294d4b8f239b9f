package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/Jemo69/umbc-hackathon/internal/adapters/http"
	"github.com/Jemo69/umbc-hackathon/internal/adapters/llm"
	firestorestore "github.com/Jemo69/umbc-hackathon/internal/adapters/storage/firestore"
	memstore "github.com/Jemo69/umbc-hackathon/internal/adapters/storage/memory"
	sqlitestore "github.com/Jemo69/umbc-hackathon/internal/adapters/storage/sqlite"
	"github.com/Jemo69/umbc-hackathon/internal/app/assistant"
	"github.com/Jemo69/umbc-hackathon/internal/app/scheduler"
	"github.com/Jemo69/umbc-hackathon/internal/app/study"
	"github.com/Jemo69/umbc-hackathon/internal/config"
	"github.com/Jemo69/umbc-hackathon/internal/domain"
	"github.com/Jemo69/umbc-hackathon/internal/observability"
)

// stores is the set of persistence ports a backend must provide. Each
// backend is one store implementing all four interfaces.
type stores interface {
	domain.SessionStore
	domain.MessageStore
	domain.TaskStore
	domain.NoteStore
}

func main() {
	log := observability.Logger()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing storage backend")
	}
	log.Info().Str("backend", cfg.StorageBackend).Msg("storage ready")

	completion, err := newCompletionClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing completion client")
	}
	log.Info().
		Str("provider", cfg.LLMProvider).
		Bool("enabled", completion.Enabled()).
		Msg("completion client ready")

	plannerOpts := scheduler.Options{
		FocusMinutes:         cfg.FocusBlockMinutes,
		BreakMinutes:         cfg.BreakMinutes,
		MinTaskMinutes:       cfg.MinTaskMinutes,
		MaxTaskMinutes:       cfg.MaxTaskMinutes,
		DefaultEffortMinutes: cfg.DefaultEffortMinutes,
	}

	assistantSvc := assistant.NewService(assistant.Collaborators{
		Sessions:   store,
		Messages:   store,
		Tasks:      store,
		Notes:      store,
		Completion: completion,
	}, plannerOpts, cfg.DefaultBudgetMinutes)
	studySvc := study.NewService(store, store)

	handler := httpadapter.NewServer(assistantSvc, studySvc)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("edutron api listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

func newStore(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		return sqlitestore.NewStore(cfg.SQLitePath)
	case "firestore":
		return firestorestore.NewStore(ctx, cfg.GCPProjectID)
	default:
		return memstore.NewStore(), nil
	}
}

func newCompletionClient(ctx context.Context, cfg *config.Config) (domain.CompletionClient, error) {
	switch cfg.LLMProvider {
	case "vertex":
		return llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.VertexLocation, cfg.VertexModel)
	case "mock":
		return llm.NewMockClient(), nil
	case "none":
		return llm.Disabled{}, nil
	default:
		return llm.NewOpenRouterClient(llm.OpenRouterConfig{
			APIKey:   cfg.OpenRouterAPIKey,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.SiteURL,
			SiteName: cfg.SiteName,
			Timeout:  cfg.CompletionTimeout,
		}), nil
	}
}
