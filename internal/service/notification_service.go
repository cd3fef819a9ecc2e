package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEmployeeRegistered, n.handleEmployeeRegistered)
	n.dispatcher.Subscribe(events.EventEnquirySubmitted, n.handleEnquirySubmitted)
	n.dispatcher.Subscribe(events.EventEnquiryClaimed, n.handleEnquiryClaimed)
}

func (n *NotificationService) handleEmployeeRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeRegistered", zap.String("employee_id", event.AggregateID))
	return nil
}

// New enquiries go out on both channels so counselors see them quickly.
func (n *NotificationService) handleEnquirySubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("EnquirySubmitted", zap.String("enquiry_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEnquiryClaimed(ctx context.Context, event events.Event) error {
	n.logger.Info("EnquiryClaimed", zap.String("enquiry_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("enquiry_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("enquiry_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}
