// Package app assembles the answer service: database pool, Genkit model
// backends, the knowledge store, and the answer engine.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docquery/docquery/db"
	"github.com/docquery/docquery/internal/config"
	"github.com/docquery/docquery/internal/knowledge"
	"github.com/docquery/docquery/internal/llm"
	"github.com/docquery/docquery/internal/log"
	"github.com/docquery/docquery/internal/observability"
	"github.com/docquery/docquery/internal/rag"
)

// App holds the wired application components.
type App struct {
	Config *config.Config
	Logger log.Logger
	Pool   *pgxpool.Pool
	Genkit *genkit.Genkit
	Engine *rag.Engine

	otelCleanup func()
	dbCleanup   func()
}

// Setup wires the full pipeline. On failure, everything already
// initialized is torn down before returning.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			a.Close()
		}
	}()

	// Tracing first: Genkit's TracerProvider must exist before Init.
	a.otelCleanup = observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}, logger)

	pool, dbCleanup, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.dbCleanup = dbCleanup
	a.Pool = pool

	g, err := llm.NewGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder, err := llm.NewEmbedder(g, cfg.EmbedderModel)
	if err != nil {
		return nil, err
	}

	store, err := knowledge.New(pool, cfg.RPCName, logger.With("component", "knowledge"))
	if err != nil {
		return nil, err
	}

	engine, err := rag.New(rag.Config{
		Embedder:        embedder,
		Searcher:        store,
		Completer:       llm.NewCompleter(g),
		Logger:          logger.With("component", "rag"),
		Model:           cfg.ModelName,
		Temperature:     cfg.Temperature,
		Threshold:       cfg.Threshold,
		DefaultTopK:     cfg.TopK,
		MaxTopK:         cfg.MaxTopK,
		MaxHistoryTurns: cfg.MaxHistoryTurns,
		MaxTurnLen:      cfg.MaxTurnLength,
	})
	if err != nil {
		return nil, fmt.Errorf("building answer engine: %w", err)
	}
	a.Engine = engine

	return a, nil
}

// Close releases resources in reverse setup order. Safe on a partially
// initialized App.
func (a *App) Close() {
	if a.dbCleanup != nil {
		a.dbCleanup()
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
}

// provideDBPool runs migrations, then opens a bounded connection pool and
// verifies it with a ping.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, func(), error) {
	if err := db.Migrate(cfg.ConnURL()); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnURL())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, pool.Close, nil
}
