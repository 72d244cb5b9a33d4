package server

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/api"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
	"github.com/tridentdigital/zalo-inventory-bot/internal/service"
)

// ZaloServer owns the webhook API and the background index sync
type ZaloServer struct {
	api       *api.Server
	indexSync *service.IndexSyncService
	logger    *zap.Logger
}

// NewZaloServer wires the usecase and service layers on top of repos
func NewZaloServer(cfg *conf.Config, repos *data.Repositories, logger *zap.Logger) *ZaloServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Usecase layer
	parser := usecase.NewQueryParserUsecase(repos.LLM, cfg.ToQueryParserConfig(), logger)
	inventory := usecase.NewInventoryUsecase(repos.Item, repos.Search, parser, logger)
	assistant := usecase.NewAssistantUsecase(repos.LLM, cfg.ToAssistantConfig(), logger)
	classifier := usecase.NewClassifierUsecase(repos.LLM, cfg.ToClassifierConfig(), logger)
	creds := usecase.NewCredentialUsecase(repos.OAuth, repos.Credential, cfg.Zalo.RefreshToken, logger)
	responder := usecase.NewResponderUsecase(repos.Messenger, creds, logger)
	catalog := usecase.NewCatalogUsecase(repos.Item, repos.Search, logger)
	authorization := usecase.NewAuthorizationUsecase(repos.OAuth, creds, cfg.ToAuthorizationConfig(), logger)

	// Service layer
	webhook := service.NewWebhookService(
		classifier,
		usecase.NewInventoryDispatcher(inventory, assistant),
		responder,
		repos.Conversation,
		logger,
	)
	indexSync := service.NewIndexSyncService(
		usecase.NewIndexSyncUsecase(repos.Item, repos.Search, logger),
		cfg.Sync.Schedule,
		logger,
	)

	apiServer := api.NewServer(api.Deps{
		Webhook:       webhook,
		IndexSync:     indexSync,
		Conversations: repos.Conversation,
		Inventory:     inventory,
		Catalog:       catalog,
		Responder:     responder,
		Authorization: authorization,
	}, api.Options{
		Addr:           cfg.Server.Addr,
		WebhookSecret:  cfg.Server.WebhookSecret,
		WebhookTimeout: cfg.Server.WebhookTimeout,
	}, logger)

	return &ZaloServer{
		api:       apiServer,
		indexSync: indexSync,
		logger:    logger.Named("server"),
	}
}

// Start starts the index sync schedule and blocks serving HTTP
func (s *ZaloServer) Start() error {
	if err := s.indexSync.Start(); err != nil {
		return err
	}
	return s.api.Start()
}

// Stop drains in-flight requests and stops the schedule
func (s *ZaloServer) Stop(ctx context.Context) error {
	s.indexSync.Stop()
	err := s.api.Stop(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		s.logger.Warn("shutdown deadline exceeded", zap.Error(err))
	}
	return nil
}
