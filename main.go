package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github/itish2003/docquery/config"
	"github/itish2003/docquery/controller"
	"github/itish2003/docquery/repository"
	"github/itish2003/docquery/services"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := services.SetPDFLicense(cfg.PDF.LicenseKey); err != nil {
		logger.Warn("PDF extraction disabled", zap.Error(err))
	}

	// Embedding calls are traced; the client has a timeout so a stuck Ollama
	// cannot wedge the indexer.
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.Chroma.BaseURL))
	if err != nil {
		logger.Fatal("Failed to create chroma client", zap.Error(err))
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			logger.Warn("Failed to close chroma client", zap.Error(err))
		}
	}()

	collection, err := services.GetOrCreateCollection(ctx, chromaClient, cfg.Chroma.Collection)
	if err != nil {
		logger.Fatal("Failed to open collection", zap.Error(err))
	}
	store := services.NewChromaStore(collection, logger)

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("Failed to create Gemini client. Make sure GEMINI_API_KEY is set.", zap.Error(err))
	}

	var counter services.TokenCounter
	if tc, err := services.NewTiktokenCounter(cfg.LLM.Encoding); err != nil {
		logger.Warn("Local token counting unavailable", zap.Error(err))
	} else {
		counter = tc
	}

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	embedder := services.NewOllamaEmbedder(httpClient, cfg.Embedding.BaseURL, cfg.Embedding.Model)
	generator := services.NewGeminiGenerator(geminiClient, cfg.LLM.Model, cfg.LLM.Temperature, counter)

	ragService := services.NewRAGService(store, embedder, generator, repository.NewUsageRepository(db), services.RAGOptions{
		TopK:       cfg.Documents.TopK,
		ExcerptLen: cfg.Documents.ExcerptLen,
		Pricing: services.Pricing{
			InputPerMillion:  cfg.LLM.InputPerMillion,
			OutputPerMillion: cfg.LLM.OutputPerMillion,
		},
	}, logger)

	indexer := services.NewFileIndexingService(store, embedder, cfg.Documents.ChunkSize, cfg.Documents.ChunkOverlap, logger)
	go func() {
		if err := os.MkdirAll(cfg.Documents.Dir, 0755); err != nil {
			logger.Error("Failed to create documents directory", zap.Error(err))
			return
		}
		if _, err := indexer.ScanAndIndexDirectory(ctx, cfg.Documents.Dir); err != nil {
			logger.Error("Initial directory scan failed", zap.Error(err))
		}
		if cfg.Documents.Watch {
			if err := indexer.WatchDirectory(ctx, cfg.Documents.Dir); err != nil {
				logger.Error("Directory watcher stopped", zap.Error(err))
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	routerCfg := controller.RouterConfig{}
	if cfg.RateLimit.Enabled {
		routerCfg.Limiter = controller.NewClientLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	router := controller.SetupRouter(ragService, logger, routerCfg)

	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("Starting docquery server",
			zap.String("address", cfg.Address()),
			zap.String("documents", cfg.Documents.Dir),
			zap.String("mode", ragService.Mode()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
