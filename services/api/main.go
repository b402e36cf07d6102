package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pollumap/pollumap/services/api/chat"
	"github.com/pollumap/pollumap/services/api/config"
	"github.com/pollumap/pollumap/services/api/db"
	httpserver "github.com/pollumap/pollumap/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection error: %v", err)
	}
	defer store.Close()

	var chatService chat.Service
	if cfg.OpenAIAPIKey != "" {
		chatService, err = chat.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatalf("chat service error: %v", err)
		}
	} else {
		log.Printf("OPENAI_API_KEY not set; chat endpoint will serve fallback answers")
	}

	srv := httpserver.New(cfg, store, chatService)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
