// Package app wires the knowledge base components together: store,
// generation backend, extractors, ingest pipeline, query engine, and the
// HTTP server on top of them.
package app

import (
	"context"
	"log"
	"time"

	"omniquery/internal/config"
	"omniquery/internal/core"
	"omniquery/internal/core/archive"
	"omniquery/internal/core/database"
	"omniquery/internal/core/extract"
	"omniquery/internal/core/ingest"
	"omniquery/internal/core/llm"
	"omniquery/internal/core/query"
	"omniquery/internal/core/segment"
)

type App struct {
	Store     *database.Store
	Gemini    *llm.Gemini
	Processor *ingest.Processor
	Engine    *query.Engine
	Server    *Server
}

// NewApp builds the full application. The Gemini client is optional: with
// no API key configured, ingestion of documents and images still works but
// querying and audio/video transcription are disabled.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := database.NewStore(appCtx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	var gemini *llm.Gemini
	if cfg.AIAPIKey != "" {
		gemini, err = llm.NewGemini(appCtx, cfg.AIAPIKey, cfg.GenModel, cfg.Tuning.ModelFallbacks)
		if err != nil {
			store.Close()
			return nil, err
		}
		log.Printf("Generation backend ready (model %s).", gemini.ModelName())
	} else {
		log.Println("GEMINI_API_KEY not set; querying and transcription disabled.")
	}

	var archiver core.Archiver
	if cfg.ArchiveEnabled() {
		s3, err := archive.NewS3Archive(appCtx, cfg)
		if err != nil {
			log.Printf("WARN: S3 archive unavailable: %v", err)
		} else {
			archiver = s3
		}
	}

	processor, engine := buildPipelines(cfg, store, gemini, archiver)
	server := NewServer(cfg, store, processor, engine)

	return &App{
		Store:     store,
		Gemini:    gemini,
		Processor: processor,
		Engine:    engine,
		Server:    server,
	}, nil
}

// NewLocalApp builds the store and pipelines without the HTTP server, for
// the CLI and TUI surfaces.
func NewLocalApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := database.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	var gemini *llm.Gemini
	if cfg.AIAPIKey != "" {
		gemini, err = llm.NewGemini(ctx, cfg.AIAPIKey, cfg.GenModel, cfg.Tuning.ModelFallbacks)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	var archiver core.Archiver
	if cfg.ArchiveEnabled() {
		s3, err := archive.NewS3Archive(ctx, cfg)
		if err != nil {
			log.Printf("WARN: S3 archive unavailable: %v", err)
		} else {
			archiver = s3
		}
	}

	processor, engine := buildPipelines(cfg, store, gemini, archiver)
	return &App{Store: store, Gemini: gemini, Processor: processor, Engine: engine}, nil
}

func buildPipelines(cfg *config.Config, store *database.Store, gemini *llm.Gemini, archiver core.Archiver) (*ingest.Processor, *query.Engine) {
	seg := segment.New(cfg.Tuning.ChunkSize, cfg.Tuning.ChunkOverlap)

	var transcriber core.Transcriber
	if gemini != nil {
		transcriber = gemini
	}

	processor := ingest.NewProcessor(
		store,
		extract.NewDocumentExtractor(seg),
		extract.NewImageExtractor(),
		extract.NewMediaExtractor(transcriber),
		extract.NewYouTubeExtractor(cfg.YouTubeAPIKey),
		archiver,
	)

	var engine *query.Engine
	if gemini != nil {
		engine = query.NewEngine(store, gemini, cfg.Tuning.RetrievalLimit)
	}
	return processor, engine
}

func (a *App) Close() {
	if a.Gemini != nil {
		_ = a.Gemini.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
