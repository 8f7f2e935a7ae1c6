package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelsearch/internal/config"
	"hotelsearch/internal/handler"
	"hotelsearch/internal/repository"
	"hotelsearch/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Ensure the repository serves every persistence contract
var (
	_ service.HotelCatalogue     = (*repository.PostgresRepository)(nil)
	_ service.AvailabilitySource = (*repository.PostgresRepository)(nil)
	_ service.VectorIndex        = (*repository.PostgresRepository)(nil)
	_ service.PreferenceSource   = (*repository.PostgresRepository)(nil)
	_ service.HotelStore         = (*repository.PostgresRepository)(nil)
)

func main() {
	log.Printf("Hotel Search API")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	availability, err := service.NewAvailabilityFilter(repo, cfg.Search.AvailabilityWorkers)
	if err != nil {
		log.Fatalf("Failed to create availability filter: %v", err)
	}
	defer availability.Release()

	opts := []service.Option{
		service.WithStageTimeout(cfg.Search.StageTimeout),
		service.WithCandidateLimit(cfg.Search.CandidateLimit),
		service.WithDefaultABGroup(cfg.Search.DefaultABGroup),
	}

	var embedder service.BatchEmbedder
	if cfg.OpenAI.Enabled {
		openaiClient := service.NewOpenAIClient(&cfg.OpenAI)
		embedder, err = service.NewEmbedder(&cfg.OpenAI, openaiClient)
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}

		opts = append(opts,
			service.WithUnderstander(service.NewQueryParser(openaiClient)),
			service.WithVectorSearcher(service.NewSemanticSearcher(embedder, repo, repo, cfg.Search.PreferenceDays)),
			service.WithIntentEstimator(service.NewIntentEstimator(embedder, service.NewAnchorCache())),
		)

		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Embedding model: %s (%d dims, %s backend)",
			cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimensions, cfg.OpenAI.EmbeddingBackend)
		log.Printf("   - Requests per second: %.2f", cfg.OpenAI.RequestsPerSecond)
	} else {
		log.Println("⚠️  OpenAI is disabled - searches use rule-based ranking only")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI features")
	}

	searchService, err := service.NewSearchService(repo, availability, opts...)
	if err != nil {
		log.Fatalf("Failed to create search service: %v", err)
	}
	hotelService := service.NewHotelService(repo, embedder, cfg.OpenAI.EmbeddingDimensions)

	log.Println("✅ Services initialized")

	searchHandler := handler.NewSearchHandler(searchService, hotelService, cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	hotelHandler := handler.NewHotelHandler(hotelService)
	eventHandler := handler.NewEventHandler(hotelService)
	embeddingHandler := handler.NewEmbeddingHandler(hotelService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", handler.HeaderABGroup, handler.HeaderUserID}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "hotel-search",
			"ai_enabled": cfg.OpenAI.Enabled,
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", searchHandler.Search)
		apiV1.POST("/search/stream", searchHandler.SearchStream)
		apiV1.GET("/hotels/:id", hotelHandler.GetHotel)
		apiV1.POST("/events", eventHandler.Submit)
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Printf("🚀 Starting server on %s", addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}
