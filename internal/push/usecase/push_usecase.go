package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillmentpro-push/internal/push/repository"
	"fulfillmentpro-push/pkg/fcm"

	"go.uber.org/zap"
)

const unknownDevice = "Unknown"

var (
	ErrTokenRequired = errors.New("token required")
	ErrTitleRequired = errors.New("title required")
)

type pushUsecase struct {
	tokenRepo repository.PushTokenRepository
	sender    Sender
	mailer    Mailer
	log       *zap.Logger
}

// NewPushUsecase wires the usecase. sender and mailer may be nil, which
// disables the matching delivery leg.
func NewPushUsecase(tokenRepo repository.PushTokenRepository, sender Sender, mailer Mailer, log *zap.Logger) PushUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &pushUsecase{
		tokenRepo: tokenRepo,
		sender:    sender,
		mailer:    mailer,
		log:       log.Named("push"),
	}
}

func (u *pushUsecase) Subscribe(token, deviceLabel string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	if strings.TrimSpace(deviceLabel) == "" {
		deviceLabel = unknownDevice
	}

	if err := u.tokenRepo.SaveToken(token, deviceLabel); err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}
	u.log.Info("push token registered", zap.String("device_label", deviceLabel))
	return nil
}

func (u *pushUsecase) Unsubscribe(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenRequired
	}
	if err := u.tokenRepo.DeleteToken(token); err != nil {
		return fmt.Errorf("failed to delete push token: %w", err)
	}
	return nil
}

func (u *pushUsecase) Broadcast(ctx context.Context, notice Notice) (*Result, error) {
	if strings.TrimSpace(notice.Title) == "" {
		return nil, ErrTitleRequired
	}

	result := &Result{}
	if err := u.push(ctx, notice, result); err != nil {
		return nil, err
	}

	if u.mailer != nil {
		body := notice.EmailBody
		if body == "" {
			body = notice.Body
		}
		if err := u.mailer.Send(notice.Title, body); err != nil {
			u.log.Error("e-mail fallback failed", zap.Error(err))
		} else {
			result.EmailSent = true
			u.log.Info("e-mail sent", zap.String("subject", notice.Title))
		}
	}
	return result, nil
}

// push only fails on storage errors; delivery problems are logged and
// reported through result.
func (u *pushUsecase) push(ctx context.Context, notice Notice, result *Result) error {
	if u.sender == nil {
		u.log.Warn("push disabled, FCM not configured", zap.String("title", notice.Title))
		return nil
	}

	tokens, err := u.tokenRepo.ListTokens()
	if err != nil {
		return fmt.Errorf("failed to list push tokens: %w", err)
	}
	if len(tokens) == 0 {
		u.log.Warn("no push tokens registered")
		return nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}
	result.Devices = len(tokenStrings)

	sent, err := u.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: notice.Title,
		Body:  notice.Body,
		Data:  notice.Data,
	})
	if err != nil {
		u.log.Error("push send failed", zap.Error(err))
		return nil
	}

	result.PushSent = sent.SuccessCount > 0
	result.Delivered = sent.SuccessCount
	u.log.Info("push sent", zap.Int("delivered", sent.SuccessCount), zap.Int("devices", len(tokenStrings)))

	if len(sent.StaleTokens) > 0 {
		if err := u.tokenRepo.DeleteTokens(sent.StaleTokens); err != nil {
			u.log.Error("failed to clean up stale tokens", zap.Error(err))
		} else {
			result.RemovedTokens = len(sent.StaleTokens)
			u.log.Info("stale tokens removed", zap.Int("count", len(sent.StaleTokens)))
		}
	}
	return nil
}

func (u *pushUsecase) PruneStale(maxAge time.Duration) (int64, error) {
	removed, err := u.tokenRepo.DeleteTokensOlderThan(time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to prune push tokens: %w", err)
	}
	if removed > 0 {
		u.log.Info("expired push tokens pruned", zap.Int64("count", removed), zap.Duration("max_age", maxAge))
	}
	return removed, nil
}
