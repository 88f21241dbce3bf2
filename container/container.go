package container

import (
	"context"
	"log"

	"bountyhub-backend/core/bounty"
	"bountyhub-backend/handlers"
	"bountyhub-backend/metrics"
	bountymw "bountyhub-backend/middleware/bounty"
	"bountyhub-backend/services"
)

// Config holds the inputs the container wires together.
type Config struct {
	Owner      string
	EscrowAddr string
	Store      bounty.Store
}

// Container holds all application dependencies
type Container struct {
	// Core
	Engine   *bounty.Engine
	Bank     *bounty.MemoryBank
	Tokens   *bounty.MemoryTokenRegistry
	Recorder *bountymw.Recorder

	// Services
	PaymentService *services.PaymentService
	HealthService  *services.HealthService

	// Handlers
	HealthHandler *handlers.HealthHandler
	BountyHandler *handlers.BountyHandler
	EventsHandler *handlers.EventsHandler
	AdminHandler  *handlers.AdminHandler
}

// NewContainer creates a new dependency container
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	bank := bounty.NewMemoryBank()
	tokens := bounty.NewMemoryTokenRegistry()
	vault := bounty.NewVault(bank, tokens, cfg.EscrowAddr)

	recorder := bountymw.NewRecorder(0)
	bountymw.RegisterEventSink(recorder.Record)
	bountymw.RegisterEventSink(func(evt bounty.Event) {
		log.Printf("bounty event: type=%s bounty=%d actor=%s amount=%d",
			evt.Type, evt.BountyID, evt.Actor, evt.AmountSats)
	})

	opts := []bounty.Option{
		bounty.WithEventSink(bountymw.PublishEvent),
	}
	if cfg.Store != nil {
		opts = append(opts, bounty.WithStore(cfg.Store))
	}

	engine := bounty.NewEngine(cfg.Owner, vault, opts...)
	bountymw.RegisterEventSink(metrics.EventSink(engine))

	if cfg.Store != nil {
		if err := engine.Restore(ctx); err != nil {
			return nil, err
		}
	}

	// Initialize services
	paymentService := services.NewPaymentService(cfg.EscrowAddr)
	healthService := services.NewHealthService()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(healthService)
	bountyHandler := handlers.NewBountyHandler(engine, paymentService)
	eventsHandler := handlers.NewEventsHandler(recorder)
	adminHandler := handlers.NewAdminHandler(engine)

	return &Container{
		Engine:   engine,
		Bank:     bank,
		Tokens:   tokens,
		Recorder: recorder,

		PaymentService: paymentService,
		HealthService:  healthService,

		HealthHandler: healthHandler,
		BountyHandler: bountyHandler,
		EventsHandler: eventsHandler,
		AdminHandler:  adminHandler,
	}, nil
}
