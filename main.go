package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/vtt-relay/backend/internal/api"
	"github.com/vtt-relay/backend/internal/auth"
	"github.com/vtt-relay/backend/internal/config"
	"github.com/vtt-relay/backend/internal/db"
	"github.com/vtt-relay/backend/internal/job"
	"github.com/vtt-relay/backend/internal/subtitle/translate"
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

	// Translation engine: API key from settings DB, env as fallback; the model
	// is resolved per request so settings changes apply without a restart
	apiKey := database.GetSetting("openai_api_key", cfg.OpenAIKey)
	if apiKey == "" {
		log.Println("WARNING: no OpenAI API key configured, translation requests will fail until one is set")
	}
	engine := translate.NewOpenAIEngine(apiKey, cfg.OpenAIBaseURL, func() string {
		return database.GetSetting("openai_model", cfg.Model)
	})

	defaults := translate.Options{
		Langs:     cfg.TargetLangs,
		Wrap:      cfg.Wrap,
		BatchSize: cfg.BatchSize,
	}
	if v := database.GetSetting("default_langs", ""); v != "" {
		defaults.Langs = strings.Fields(v)
	}
	if v := database.GetSetting("wrap_width", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			defaults.Wrap = n
		}
	}
	if v := database.GetSetting("batch_size", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			defaults.BatchSize = n
		}
	}

	service := translate.NewService(
		engine,
		filepath.Join(cfg.DataPath, "uploads"),
		filepath.Join(cfg.DataPath, "outputs"),
		defaults,
		func(id int64) (string, error) {
			preset, err := database.GetPromptPreset(id)
			if err != nil {
				return "", err
			}
			return preset.Prompt, nil
		},
	)

	// Job queue with the translation handler
	jobQueue := job.NewJobQueue(database.DB())
	jobQueue.RegisterHandler(job.JobTranslate, service.HandleJob)
	defer jobQueue.Stop()

	// Create router
	router := api.NewRouter(database, jwtService, cfg, jobQueue, service)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Data path: %s", cfg.DataPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		jobQueue.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
