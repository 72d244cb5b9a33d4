package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/mcp"
)

var version = "v1.0.0"

// Serves inventory tools over stdio. Tool calls are relayed to the
// zalo-bot HTTP API at INVENTORY_API_URL.
func main() {
	_ = godotenv.Load()
	cfg := conf.LoadFromEnv()

	// stdout carries the protocol; zap production logs go to stderr
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewInventoryServer(mcp.NewClient(cfg.MCP.APIURL), version, logger)
	logger.Info("inventory MCP server starting", zap.String("api", cfg.MCP.APIURL))

	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Fatal("MCP server stopped", zap.Error(err))
	}
}
