package main

import (
	"fmt"
	"log"
	"os"

	"github.com/takeru0219/repo-maintidx/internal/analyzer"
	"github.com/takeru0219/repo-maintidx/internal/api"
	"github.com/takeru0219/repo-maintidx/internal/config"
	"github.com/takeru0219/repo-maintidx/internal/enhancer"
	"github.com/takeru0219/repo-maintidx/internal/snapshot"
	"github.com/takeru0219/repo-maintidx/internal/storage"
	"github.com/takeru0219/repo-maintidx/internal/storage/postgres"
	"github.com/takeru0219/repo-maintidx/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite storage: %v", err)
		}
	}
	defer store.Close()

	// Initialize the analysis service
	provider := snapshot.NewGitHubProvider(cfg.GitHubToken, cfg.WindowDays)

	var opts []analyzer.Option
	if cfg.EnhancerEnabled {
		summarizer, err := enhancer.NewCLISummarizer(cfg.EnhancerCLI)
		if err != nil {
			log.Printf("Warning: %v, narrative disabled", err)
		} else {
			opts = append(opts, analyzer.WithEnhancer(summarizer, cfg.EnhancerTimeout))
		}
	}
	svc := analyzer.New(provider, cfg.GitHubToken, opts...)

	// Initialize handler and routes
	handler := api.NewHandler(svc, store)
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Storage type: %s\n", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
