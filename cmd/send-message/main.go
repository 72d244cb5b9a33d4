package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <group_id> <message>")
		os.Exit(1)
	}
	groupID := os.Args[1]
	message := strings.Join(os.Args[2:], " ")

	cfg := conf.LoadFromEnv()
	if cfg.Zalo.AppID == "" || cfg.Zalo.AppSecret == "" || cfg.Credential.EncryptionKey == "" {
		fmt.Println("Error: ZALO_APP_ID, ZALO_APP_SECRET and TOKEN_ENCRYPTION_KEY must be set")
		os.Exit(1)
	}

	logger := zap.NewNop()
	store, err := data.NewCredentialRepo(cfg.Credential.TokenFile, cfg.Credential.EncryptionKey, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	zalo := data.NewZaloClient(cfg.Zalo, logger)
	creds := usecase.NewCredentialUsecase(zalo, store, cfg.Zalo.RefreshToken, logger)
	responder := usecase.NewResponderUsecase(zalo, creds, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := responder.Reply(ctx, groupID, message)
	if !result.Sent {
		fmt.Printf("Error: %s\n", result.Error)
		os.Exit(1)
	}

	fmt.Println("Message sent successfully!")
}
