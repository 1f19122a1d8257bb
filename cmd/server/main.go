package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/mindgames/backend/internal/analytics"
	"github.com/mindgames/backend/internal/auth"
	"github.com/mindgames/backend/internal/coach"
	"github.com/mindgames/backend/internal/config"
	"github.com/mindgames/backend/internal/database"
	"github.com/mindgames/backend/internal/games"
	"github.com/mindgames/backend/internal/gamification"
	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/metrics"
	"github.com/mindgames/backend/internal/middleware"
	"github.com/mindgames/backend/internal/realtime"
	"github.com/mindgames/backend/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg.DSN()); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	// Sessions and realtime fan-out
	hub := realtime.NewHub(log)
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rs.Close()
		sessions = rs

		bus := realtime.NewRedisBus(rs.Client(), realtime.DefaultChannel, log)
		if err := bus.Forward(ctx, hub); err != nil {
			log.Fatal("failed to subscribe to event bus", "error", err)
		}
		hub.UseBus(bus)
		log.Info("sessions and events on redis", "addr", cfg.RedisAddr)
	} else {
		ms := session.NewMemoryStore()
		go ms.RunSweeper(ctx, time.Minute)
		sessions = ms
		log.Info("sessions in memory")
	}

	// Initialize services
	gamificationStore := gamification.NewStore(db)
	gamificationService := gamification.NewService(gamificationStore, log.With("component", "gamification"))
	if err := gamificationService.Seed(ctx); err != nil {
		log.Fatal("failed to seed achievements", "error", err)
	}

	authStore := auth.NewStore(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL())

	gamesService := games.NewService(db, games.NewStore(db), gamificationService, hub, log.With("component", "games"))
	analyticsService := analytics.NewService(analytics.NewStore(db), authStore, gamificationService)

	var llm coach.Model
	switch {
	case cfg.CoachEnabled && cfg.CoachMock:
		llm = coach.NewMockClient()
		log.Info("coach using mock data")
	case cfg.CoachEnabled:
		llm = coach.NewAPIClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, log.With("component", "coach"))
		log.Info("coach using Anthropic API", "model", cfg.AnthropicModel)
	}
	coachService := coach.NewService(llm, analyticsService, log)

	// Initialize handlers
	authHandler := auth.NewHandler(authStore, tokens, sessions, auth.Options{
		SessionTTL:   cfg.SessionTTL(),
		CookieSecure: cfg.CookieSecure,
	}, log.With("component", "auth"))
	gamesHandler := games.NewHandler(gamesService)
	gamificationHandler := gamification.NewHandler(gamificationService)
	analyticsHandler := analytics.NewHandler(analyticsService)
	coachHandler := coach.NewHandler(coachService)
	wsHandler := realtime.NewHandler(hub, cfg.Origins())

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Instrument(log.With("component", "http")))
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/csrf", authHandler.IssueCSRF).Methods("GET")
	api.HandleFunc("/achievements", gamificationHandler.ListAchievements).Methods("GET")
	api.HandleFunc("/leaderboards/reaction", gamesHandler.ReactionLeaderboard).Methods("GET")
	api.HandleFunc("/leaderboards/memory", gamesHandler.MemoryLeaderboard).Methods("GET")
	api.HandleFunc("/leaderboards/math/round1", gamesHandler.Round1Leaderboard).Methods("GET")
	api.HandleFunc("/leaderboards/math/mixed", gamesHandler.MixedLeaderboard).Methods("GET")
	api.HandleFunc("/games/math/distribution", gamesHandler.Distribution).Methods("GET")
	api.HandleFunc("/users/{username}/best", gamesHandler.BestScores).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokens), middleware.CSRF(sessions))
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/achievements/me", gamificationHandler.GetMyAchievements).Methods("GET")
	protected.HandleFunc("/profile/me/insights", analyticsHandler.GetMyInsights).Methods("GET")
	protected.HandleFunc("/profile/me/coach", coachHandler.GetMyCoach).Methods("GET")
	protected.HandleFunc("/ws", wsHandler.Serve).Methods("GET")

	// Game submissions: guests are scored but not stored
	play := api.PathPrefix("/games").Subrouter()
	play.Use(middleware.OptionalAuth(tokens), middleware.CSRF(sessions))
	play.HandleFunc("/reaction", gamesHandler.SubmitReaction).Methods("POST")
	play.HandleFunc("/memory", gamesHandler.SubmitMemory).Methods("POST")
	play.HandleFunc("/math/round1", gamesHandler.SubmitMathRound1).Methods("POST")
	play.HandleFunc("/math/round/{index}", gamesHandler.SubmitMathRound).Methods("POST")
	play.HandleFunc("/math/session", gamesHandler.SubmitMathSession).Methods("POST")

	// Profiles are public or owner-only; the viewer is optional
	profiles := api.PathPrefix("/profile").Subrouter()
	profiles.Use(middleware.OptionalAuth(tokens))
	profiles.HandleFunc("/{username}/metrics", analyticsHandler.GetProfileMetrics).Methods("GET")
	profiles.HandleFunc("/{username}/achievements", analyticsHandler.GetProfileAchievements).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.CSRFHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
