package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowread-backend/internal/cache"
	"flowread-backend/internal/config"
	"flowread-backend/internal/database"
	"flowread-backend/internal/handlers"
	"flowread-backend/internal/playback"
	"flowread-backend/internal/repository"
	"flowread-backend/internal/repository/filestore"
	"flowread-backend/internal/router"
	"flowread-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting FlowRead Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open the Store (PostgreSQL, file fallback) ────
	stores, cleanup, err := openStores(cfg)
	if err != nil {
		log.Fatalf("✗ Store initialization failed: %v", err)
	}
	defer cleanup()

	// ──── Step 3: Connect Redis (optional word cache) ────
	var wordCache *cache.WordCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠ Redis unavailable, word cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			wordCache = cache.NewWordCache(redisClient)
			log.Println("✓ Redis connected, word cache enabled")
		}
	} else {
		log.Println("  Redis not configured, word cache disabled")
	}

	// ──── Initialize Services ────
	extractService := services.NewExtractService()

	// ──── Initialize Handlers ────
	documentHandler := handlers.NewDocumentHandler(
		stores.Documents,
		stores.Words,
		stores.Sessions,
		extractService,
		wordCache,
		cfg.MaxUploadBytes,
		cfg.TokenizerWorkers,
	)
	sessionHandler := handlers.NewSessionHandler(stores.Sessions, stores.Documents)
	statsHandler := handlers.NewStatsHandler(stores.Stats)
	readerHandler := handlers.NewReaderHandler(
		stores.Documents,
		stores.Words,
		stores.Sessions,
		wordCache,
		playback.NewWallClock(),
	)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(
		documentHandler,
		sessionHandler,
		statsHandler,
		readerHandler,
		time.Duration(cfg.UploadTimeoutSec)*time.Second,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FlowRead Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/reader/{docId}/stream", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// openStores prefers PostgreSQL and falls back to the file store when no
// DATABASE_URL is configured or the connection fails. Both satisfy the same
// repository interfaces, so the rest of the process never knows which backs
// it.
func openStores(cfg *config.Config) (repository.Stores, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err == nil {
			if err := database.RunMigrations(pool, "migrations"); err != nil {
				pool.Close()
				return repository.Stores{}, nil, fmt.Errorf("migrations: %w", err)
			}
			log.Println("✓ PostgreSQL connected, migrations applied")
			stores := repository.Stores{
				Documents: repository.NewDocumentRepo(pool),
				Words:     repository.NewWordRepo(pool),
				Sessions:  repository.NewSessionRepo(pool),
				Stats:     repository.NewStatsRepo(pool),
			}
			return stores, pool.Close, nil
		}
		log.Printf("⚠ PostgreSQL unavailable, falling back to file store: %v", err)
	}

	fileStore, err := filestore.New(cfg.DataDir)
	if err != nil {
		return repository.Stores{}, nil, fmt.Errorf("file store at %s: %w", cfg.DataDir, err)
	}
	log.Printf("✓ File store opened at %s", cfg.DataDir)
	return fileStore.Stores(), func() {}, nil
}
