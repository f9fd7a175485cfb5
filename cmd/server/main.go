package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loggate/internal/chat"
	"loggate/internal/config"
	"loggate/internal/cooldown"
	"loggate/internal/corpus"
	"loggate/internal/db"
	"loggate/internal/jobs"
	"loggate/internal/metrics"
	"loggate/internal/search"
	"loggate/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Optional YAML overlay for search tuning
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	yamlCfg.Apply(cfg)

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Load the log corpus
	store := corpus.NewStore(cfg.CorpusPath)
	if _, err := store.Load(); err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	log.Printf("Corpus loaded: %d lines from %s", store.Len(), store.Path())

	// Initialize metrics
	metrics.Init(database)

	// Build the search pipeline
	gate := cooldown.NewGate(cfg.Cooldown)
	engine := search.NewEngine(store, gate, database, database, cfg.MaxResults)

	// Wire the chat surface
	var transport chat.Transport
	if cfg.ChatGatewayURL != "" {
		transport = chat.NewHTTPTransport(cfg.ChatGatewayURL, cfg.ChatGatewayToken)
	} else {
		log.Println("CHAT_GATEWAY_URL not set, outbound chat traffic will only be logged")
		transport = chat.LogTransport{}
	}
	tracker := chat.NewTracker(cfg.ConversationTTL)
	formatter := chat.NewFormatter(cfg.PreviewLines)
	router := chat.NewRouter(database, engine, tracker, transport, formatter, cfg.AdminChatID)

	// Background jobs
	reaper := jobs.NewConversationReaper(tracker, time.Minute)
	go reaper.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, store, router); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
