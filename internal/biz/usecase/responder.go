package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/repo"
)

const (
	msgNoGroup    = "No group ID provided"
	msgEmptyReply = "Không có thông tin phản hồi"
)

// ResponderUsecase delivers replies to Zalo groups
type ResponderUsecase struct {
	messenger repo.MessengerRepo
	creds     *CredentialUsecase
	logger    *zap.Logger
}

// NewResponderUsecase creates a new responder usecase
func NewResponderUsecase(messenger repo.MessengerRepo, creds *CredentialUsecase, logger *zap.Logger) *ResponderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponderUsecase{messenger: messenger, creds: creds, logger: logger.Named("responder")}
}

// Reply sends text to a group. Failures are reported in the result.
func (uc *ResponderUsecase) Reply(ctx context.Context, groupID, text string) domain.DeliveryResult {
	if groupID == "" {
		return domain.DeliveryResult{Sent: false, Error: msgNoGroup}
	}
	if strings.TrimSpace(text) == "" {
		text = msgEmptyReply
	}

	if err := uc.send(ctx, groupID, text); err != nil {
		uc.logger.Error("reply not delivered", zap.String("group_id", groupID), zap.Error(err))
		return domain.DeliveryResult{Sent: false, Text: text, GroupID: groupID, Error: err.Error()}
	}

	uc.logger.Info("reply delivered", zap.String("group_id", groupID))
	return domain.DeliveryResult{Sent: true, Text: text, GroupID: groupID}
}

// send makes at most two attempts: the second only after a 401 and a refresh
func (uc *ResponderUsecase) send(ctx context.Context, groupID, text string) error {
	token, err := uc.creds.GetValidToken(ctx)
	if err != nil {
		return &domain.DeliveryError{Err: err}
	}

	err = uc.messenger.SendGroupText(ctx, token, groupID, text)
	if !errors.Is(err, domain.ErrUnauthorized) {
		return wrapDelivery(err)
	}

	uc.logger.Warn("access token rejected, refreshing", zap.String("group_id", groupID))
	uc.creds.Invalidate(ctx, token)

	token, err = uc.creds.GetValidToken(ctx)
	if err != nil {
		return &domain.DeliveryError{Err: err}
	}
	return wrapDelivery(uc.messenger.SendGroupText(ctx, token, groupID, text))
}

func wrapDelivery(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.DeliveryError
	if errors.As(err, &de) {
		return err
	}
	return &domain.DeliveryError{Err: err}
}
