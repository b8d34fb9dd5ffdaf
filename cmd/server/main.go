package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dsar/internal/domain/auth"
	"dsar/internal/domain/dsar"
	"dsar/internal/platform/config"
	"dsar/internal/platform/db"
	"dsar/internal/platform/email"
	"dsar/internal/platform/pdf"
	adminhandler "dsar/internal/transport/http/handlers/admin"
	publichandler "dsar/internal/transport/http/handlers/public"
	"dsar/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.SessionTTL)
	requestService := dsar.NewService(dsar.NewStore(pool), pdf.New(cfg.DocumentDir), email.New(cfg))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		publichandler.NewHandler(requestService).RegisterRoutes(r)
		adminhandler.NewHandler(authService, requestService).RegisterRoutes(r)
	})

	router.Handle("/documents/*", http.StripPrefix("/documents/", http.FileServer(http.Dir(cfg.DocumentDir))))

	log.Printf("DSAR server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
