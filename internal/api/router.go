package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mirumoji/engine/internal/api/handlers"
	"github.com/mirumoji/engine/internal/api/middleware"
	"github.com/mirumoji/engine/internal/auth"
	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/clip"
	"github.com/mirumoji/engine/internal/config"
	"github.com/mirumoji/engine/internal/cue"
	"github.com/mirumoji/engine/internal/db"
	"github.com/mirumoji/engine/internal/enrich"
	"github.com/mirumoji/engine/internal/media"
	"github.com/mirumoji/engine/internal/playback"
)

// Deps bundles the services the router exposes over HTTP.
type Deps struct {
	Database *db.Database
	JWT      *auth.JWTService
	Pipeline *cue.Pipeline
	Sync     *playback.Sync
	Mirror   *playback.Mirror
	Recorder *media.FileRecorder
	Resolver *enrich.Resolver
	Saver    *clip.Saver
	Backend  *backend.Client
}

func NewRouter(cfg *config.Config, d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(d.Database, d.JWT)
	sessionHandler := handlers.NewSessionHandler(d.Pipeline, d.Sync, d.Mirror, d.Recorder, cfg.MediaPath)
	playerHandler := handlers.NewPlayerHandler(d.Mirror)
	wordHandler := handlers.NewWordHandler(d.Resolver)
	clipHandler := handlers.NewClipHandler(d.Saver, d.Backend)
	mediaHandler := handlers.NewMediaHandler(d.Backend)
	profileHandler := handlers.NewProfileHandler(d.Backend)
	settingsHandler := handlers.NewSettingsHandler(d.Database)
	historyHandler := handlers.NewHistoryHandler(d.Database)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Auth (public, rate limited)
		r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.JWT))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Subtitle session
			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(10 << 20))
				r.Post("/session/subtitle", sessionHandler.LoadSubtitle)
			})
			r.Get("/session/cues", sessionHandler.Cues)
			r.Get("/session/active", sessionHandler.Active)
			r.Delete("/session", sessionHandler.Clear)

			// Player mirror
			r.Post("/player/heartbeat", playerHandler.Heartbeat)
			r.Get("/player", playerHandler.State)

			// Word resolution
			r.With(middleware.MaxBodySize(1 << 20)).Post("/word/resolve", wordHandler.Resolve)

			// Clips
			r.With(middleware.MaxBodySize(1 << 20)).Post("/clip/save", clipHandler.Save)
			r.Get("/clips", clipHandler.List)
			r.Delete("/clips/{id}", clipHandler.Delete)
			r.Post("/clips/anki_export", clipHandler.AnkiExport)

			// Profile management (proxied to the backend)
			r.Get("/profile/gpt_template", profileHandler.GetGptTemplate)
			r.With(middleware.MaxBodySize(1 << 20)).Post("/profile/gpt_template", profileHandler.SaveGptTemplate)
			r.Delete("/profile/gpt_template", profileHandler.DeleteGptTemplate)
			r.Get("/profile/files", profileHandler.ListFiles)
			r.Delete("/profile/files/{id}", profileHandler.DeleteFile)
			r.Get("/profile/transcripts", profileHandler.ListTranscripts)
			r.Delete("/profile/transcripts/{id}", profileHandler.DeleteTranscript)

			// Media processing (proxied to the backend)
			r.Post("/media/transcribe", mediaHandler.Transcribe)
			r.Post("/media/generate_srt", mediaHandler.GenerateSRT)
			r.Post("/media/convert", mediaHandler.Convert)

			// Settings
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)

			// Watch history
			r.Get("/history", historyHandler.List)
			r.Put("/history/*", historyHandler.SavePosition)
			r.Get("/history/*", historyHandler.GetPosition)
		})
	})

	return r
}
