package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vtt-relay/backend/internal/api/handlers"
	"github.com/vtt-relay/backend/internal/api/middleware"
	"github.com/vtt-relay/backend/internal/auth"
	"github.com/vtt-relay/backend/internal/config"
	"github.com/vtt-relay/backend/internal/db"
	"github.com/vtt-relay/backend/internal/job"
	"github.com/vtt-relay/backend/internal/subtitle/translate"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue, service *translate.Service) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	translateHandler := handlers.NewTranslateHandler(service)
	jobHandler := handlers.NewJobHandler(jobQueue, service)
	settingsHandler := handlers.NewSettingsHandler(database)
	presetsHandler := handlers.NewPresetsHandler(database)
	outputsHandler := handlers.NewOutputsHandler(service.OutputsPath())
	modelsHandler := handlers.NewModelsHandler(database, cfg.OpenAIKey, cfg.OpenAIBaseURL)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	translateLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Static pages
	r.Get("/privacy", handlers.Privacy)
	r.Get("/terms", handlers.Terms)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public, rate-limited)
		r.With(loginLimiter.Handler, middleware.MaxBodySize(1<<20)).
			Post("/auth/login", authHandler.Login)

		// Public translate endpoint guarded by the static bearer token
		r.Group(func(r chi.Router) {
			r.Use(translateLimiter.Handler)
			r.Use(middleware.StaticBearer(cfg.APIBearer))

			r.Post("/translate", translateHandler.Translate)
			r.Post("/jobs/translate", jobHandler.SubmitTranslate)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Get("/jobs/{id}/download", jobHandler.Download)
		})

		// Management routes (JWT)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(middleware.MaxBodySize(1 << 20))

			r.Get("/auth/me", authHandler.Me)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			// Outputs
			r.Get("/outputs", outputsHandler.List)
			r.Get("/outputs/search", outputsHandler.Search)
			r.Get("/outputs/{name}", outputsHandler.Download)

			// Settings
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)

			// Prompt presets
			r.Get("/presets", presetsHandler.ListPresets)
			r.Post("/presets", presetsHandler.CreatePreset)
			r.Delete("/presets/{id}", presetsHandler.DeletePreset)

			// Models
			r.Get("/models", modelsHandler.ListModels)
		})
	})

	return r
}
