package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/config"
	"github.com/spec-kit/commerce-service/internal/events"
)

// NotificationService delivers outbound mail for domain events. SMTP
// transport is a stub collaborator; delivery failures are logged and never
// propagate to the operation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	email      config.EmailConfig
	baseURL    string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, email config.EmailConfig, baseURL string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		email:      email,
		baseURL:    baseURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for account_registered", zap.String("event_id", event.ID))
		return nil
	}
	return n.sendVerificationEmail(ctx, payload.Email, payload.VerificationToken)
}

func (n *NotificationService) handleOrderCreated(_ context.Context, event events.Event) error {
	n.logger.Info("OrderCreated", zap.String("account_id", event.AccountID), zap.Any("payload", event.Payload))
	return nil
}

// sendVerificationEmail stubs the SMTP collaborator. The link mirrors the
// verify route so the token travels as a URL path segment.
func (n *NotificationService) sendVerificationEmail(_ context.Context, to, token string) error {
	link := fmt.Sprintf("%s/api/users/verify/%s", n.baseURL, token)
	if n.email.Host == "" {
		n.logger.Info("verification email (no SMTP host configured)",
			zap.String("to", to),
			zap.String("link", link))
		return nil
	}
	n.logger.Info("verification email sent",
		zap.String("from", n.email.From),
		zap.String("to", to),
		zap.String("host", n.email.Host))
	return nil
}
