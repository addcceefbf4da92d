package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/core"
	"salescomp/internal/domain/fx"
	"salescomp/internal/domain/payout"
	"salescomp/internal/domain/plan"
	"salescomp/internal/domain/settlement"
	"salescomp/internal/platform/config"
	cryptoutil "salescomp/internal/platform/crypto"
	"salescomp/internal/platform/db"
	"salescomp/internal/platform/jobs"
	"salescomp/internal/platform/metrics"
	adminhandler "salescomp/internal/transport/http/handlers/admin"
	authhandler "salescomp/internal/transport/http/handlers/auth"
	corehandler "salescomp/internal/transport/http/handlers/core"
	fxhandler "salescomp/internal/transport/http/handlers/fx"
	payoutshandler "salescomp/internal/transport/http/handlers/payouts"
	planshandler "salescomp/internal/transport/http/handlers/plans"
	settlementshandler "salescomp/internal/transport/http/handlers/settlements"
	"salescomp/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
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

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	collector := metrics.New()
	jobService := jobs.New(pool, cfg)
	jobService.Start(ctx)

	authStore := auth.NewStore(pool)
	coreService := core.NewService(core.NewStore(pool, crypto))
	planService := plan.NewService(plan.NewStore(pool))
	fxService := fx.NewService(fx.NewStore(pool))
	payoutService := payout.NewService(payout.NewStore(pool), planService, coreService, fxService, collector, cfg.CalcConcurrency)
	settlementService := settlement.NewService(settlement.NewStore(pool), cfg.StatementDir)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(300, time.Minute))

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
		authHandler := authhandler.NewHandler(pool, cfg.JWTSecret, cfg.SessionTTL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/me", authHandler.HandleMe)

		corehandler.NewHandler(coreService, authStore).RegisterRoutes(r)
		planshandler.NewHandler(planService, authStore).RegisterRoutes(r)
		fxhandler.NewHandler(fxService, authStore).RegisterRoutes(r)
		payoutshandler.NewHandler(payoutService, jobService, authStore, cfg.ExportDir).RegisterRoutes(r)
		settlementshandler.NewHandler(settlementService, jobService, authStore).RegisterRoutes(r)
		adminhandler.NewHandler(pool, collector, authStore).RegisterRoutes(r)
	})

	log.Printf("compensation server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
