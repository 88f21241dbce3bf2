package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bountyhub-backend/container"
	"bountyhub-backend/core/bounty"
	_ "bountyhub-backend/docs"
	"bountyhub-backend/metrics"
	"bountyhub-backend/middleware"
	bountystore "bountyhub-backend/storage/bounty"
)

// @title BountyHub API
// @version 1.0.0
// @description Escrow and payout engine for task-based bounties.
// @host localhost:8080
// @BasePath /
func main() {
	cfg := loadConfig()

	ctx := context.Background()

	var store bounty.Store
	if cfg.DatabaseURL != "" {
		pg, err := bountystore.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		store = pg
		log.Println("Using postgres bounty store")
	} else {
		store = bountystore.NewMemoryStore()
		log.Println("Using in-memory bounty store")
	}
	defer store.Close()

	c, err := container.NewContainer(ctx, container.Config{
		Owner:      cfg.Owner,
		EscrowAddr: cfg.EscrowAddr,
		Store:      store,
	})
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	mux := http.NewServeMux()

	// Apply middleware to all routes
	handler := middleware.Recovery(
		middleware.Logging(
			middleware.SecurityHeaders(
				middleware.CORS(
					middleware.RateLimit(cfg.RateLimit, time.Minute)(
						middleware.Timeout(30 * time.Second)(
							setupRoutes(mux, c),
						),
					),
				),
			),
		),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Bounty API endpoints at: http://localhost:%s/api/bounties", cfg.Port)
		log.Printf("Metrics at: http://localhost:%s/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func setupRoutes(mux *http.ServeMux, c *container.Container) http.Handler {
	// Health endpoints
	mux.HandleFunc("/api/health", c.HealthHandler.HandleHealth)

	// Bounty and fulfillment endpoints
	mux.HandleFunc("/api/bounties", c.BountyHandler.Bounties)
	mux.HandleFunc("/api/bounties/", c.BountyHandler.Bounties)

	// Activity feed
	mux.HandleFunc("/api/events", c.EventsHandler.HandleEvents)

	// Admin endpoints
	mux.HandleFunc("/api/admin/stats", c.AdminHandler.HandleStats)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", metrics.Handler())

	return mux
}

type appConfig struct {
	Port        string
	DatabaseURL string
	Owner       string
	EscrowAddr  string
	RateLimit   int
}

func loadConfig() appConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	owner := strings.TrimSpace(os.Getenv("BOUNTYHUB_OWNER"))
	if owner == "" {
		owner = "bountyhub-admin"
	}

	escrowAddr := strings.TrimSpace(os.Getenv("BOUNTYHUB_ESCROW_ADDR"))
	if escrowAddr == "" {
		escrowAddr = "bountyhub-escrow"
	}

	rateLimit := 300
	if raw := strings.TrimSpace(os.Getenv("BOUNTYHUB_RATE_LIMIT")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			rateLimit = v
		}
	}

	return appConfig{
		Port:        port,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Owner:       owner,
		EscrowAddr:  escrowAddr,
		RateLimit:   rateLimit,
	}
}
