package main

import (
	"context"
	"log"
	"os"
	"strings"

	"bountyhub-backend/core/bounty"
	"bountyhub-backend/mcp"
	bountystore "bountyhub-backend/storage/bounty"

	"github.com/mark3labs/mcp-go/server"
)

type config struct {
	StoreDriver string
	PGDSN       string
	Owner       string
	EscrowAddr  string
}

func loadConfig() config {
	storeDriver := os.Getenv("MCP_STORE_DRIVER")
	if storeDriver == "" {
		storeDriver = "memory"
	}

	owner := strings.TrimSpace(os.Getenv("BOUNTYHUB_OWNER"))
	if owner == "" {
		owner = "bountyhub-admin"
	}

	escrowAddr := strings.TrimSpace(os.Getenv("BOUNTYHUB_ESCROW_ADDR"))
	if escrowAddr == "" {
		escrowAddr = "bountyhub-escrow"
	}

	return config{
		StoreDriver: storeDriver,
		PGDSN:       os.Getenv("MCP_PG_DSN"),
		Owner:       owner,
		EscrowAddr:  escrowAddr,
	}
}

func main() {
	cfg := loadConfig()

	ctx := context.Background()
	var store bounty.Store
	var err error
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.PGDSN == "" {
			log.Fatal("MCP_PG_DSN required when MCP_STORE_DRIVER=postgres")
		}
		store, err = bountystore.NewPGStore(ctx, cfg.PGDSN)
	default:
		store = bountystore.NewMemoryStore()
	}
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	bank := bounty.NewMemoryBank()
	tokens := bounty.NewMemoryTokenRegistry()
	vault := bounty.NewVault(bank, tokens, cfg.EscrowAddr)

	engine := bounty.NewEngine(cfg.Owner, vault, bounty.WithStore(store))
	if err := engine.Restore(ctx); err != nil {
		log.Fatalf("failed to restore engine state: %v", err)
	}

	mcpServer := mcp.NewMCPServer(engine)

	log.Printf("BountyHub MCP server starting (driver=%s)", cfg.StoreDriver)

	if err := server.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
