package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/events"
)

// NotificationService delivers best-effort notifications for complaint
// events. Delivery failures are logged and never propagated; the mutation
// that triggered the event has already committed.
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
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventComplaintCommentAdded, n.handleCommentAdded)
}

// Notify sends a message about a complaint to a target user. Errors are
// reported to the caller only through the log.
func (n *NotificationService) Notify(ctx context.Context, targetUserID, message, complaintID string) {
	if targetUserID == "" {
		return
	}
	n.logger.Info("notify",
		zap.String("target_user_id", targetUserID),
		zap.String("complaint_id", complaintID),
		zap.String("message", message))
	n.sendEmailStub(ctx, targetUserID, complaintID)
	n.sendWebhookStub(ctx, targetUserID, complaintID)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.Notify(ctx, event.RecipientID, "your complaint was received", event.ComplaintID)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.Notify(ctx, event.RecipientID, "your complaint status changed", event.ComplaintID)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	n.Notify(ctx, event.RecipientID, "complaint assignment updated", event.ComplaintID)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.Notify(ctx, event.RecipientID, "new comment on your complaint", event.ComplaintID)
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, targetUserID, complaintID string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("target_user_id", targetUserID),
		zap.String("complaint_id", complaintID))
}

func (n *NotificationService) sendWebhookStub(_ context.Context, targetUserID, complaintID string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("target_user_id", targetUserID),
		zap.String("complaint_id", complaintID))
}
