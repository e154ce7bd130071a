package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webgen-backend/cmd"
	"webgen-backend/internal/api"
	"webgen-backend/internal/auth"
	"webgen-backend/internal/completion"
	"webgen-backend/internal/database"
	"webgen-backend/internal/generation"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIConfig struct {
	DatabaseURL     string `env:"DATABASE_URL" envDefault:"webgenerate.db"`
	DeepseekAPIKey  string `env:"DEEPSEEK_API_KEY,notEmpty,required"`
	DeepseekBaseURL string `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	ModelName       string `env:"MODEL_NAME" envDefault:"deepseek-chat"`
	SessionCookie   string `env:"SESSION_COOKIE" envDefault:"session_id"`
	APIPort         string `env:"API_PORT" envDefault:"8001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	completionClient := completion.NewClient(completion.Config{
		BaseURL: cfg.DeepseekBaseURL,
		APIKey:  cfg.DeepseekAPIKey,
		Model:   cfg.ModelName,
	})

	credentials := auth.NewCredentialStore(db)
	sessions := auth.NewSessionStore(db)
	generator := generation.NewService(db, completionClient, sessions)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout
	r.Use(api.CountRequests)
	r.Use(api.NoCache)

	r.Handle("/metrics", promhttp.Handler())

	sessionMiddleware := auth.NewSessionMiddleware(sessions, cfg.SessionCookie)
	authHandler := api.NewAuthService(credentials, sessions)
	generateHandler := api.NewGenerateService(db, generator)

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.WithSession)

		authHandler.AddRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.LoginRequired)
			generateHandler.AddRoutes(r)
		})
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
