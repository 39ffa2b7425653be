package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mirumoji/engine/internal/api"
	"github.com/mirumoji/engine/internal/auth"
	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/clip"
	"github.com/mirumoji/engine/internal/config"
	"github.com/mirumoji/engine/internal/cue"
	"github.com/mirumoji/engine/internal/db"
	"github.com/mirumoji/engine/internal/dict"
	"github.com/mirumoji/engine/internal/enrich"
	"github.com/mirumoji/engine/internal/media"
	"github.com/mirumoji/engine/internal/playback"
	"github.com/mirumoji/engine/internal/tokenizer"
)

func main() {
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Tokenizer loads its dictionary lazily; warm it in the background
	// so the first subtitle load doesn't pay the cost.
	tokSvc := tokenizer.NewService()
	go func() {
		if _, err := tokSvc.Get(context.Background()); err != nil {
			log.Printf("[tokenizer] warm-up failed: %v", err)
		}
	}()

	dictIndex := dict.NewIndex(cfg.DictPath)

	client := backend.NewClient(cfg.BackendURL, func() string {
		return database.GetSetting("profile_id", "")
	})

	compiler := cue.NewCompiler(tokSvc)
	pipeline := cue.NewPipeline(compiler)
	syncr := playback.NewSync()
	mirror := playback.NewMirror()
	recorder := media.NewFileRecorder()
	resolver := enrich.NewResolver(dictIndex, client)
	saver := clip.NewSaver(mirror, recorder, resolver, client)

	router := api.NewRouter(cfg, api.Deps{
		Database: database,
		JWT:      jwtService,
		Pipeline: pipeline,
		Sync:     syncr,
		Mirror:   mirror,
		Recorder: recorder,
		Resolver: resolver,
		Saver:    saver,
		Backend:  client,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Media path: %s", cfg.MediaPath)
	log.Printf("Backend: %s", cfg.BackendURL)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
