// Package notification delivers automated emails through the transactional
// outbox so that a delivery failure never affects the business operation
// that triggered it.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	billingapp "github.com/leasedesk/backend/internal/application/billing"
	terminationapp "github.com/leasedesk/backend/internal/application/termination"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// EventTypeEmailRequested is the outbox event type for queued emails
const EventTypeEmailRequested = "notification.email_requested"

// EmailRequest is the outbox payload for an automated email
type EmailRequest struct {
	TriggerEvent string            `json:"trigger_event"`
	Variables    map[string]string `json:"variables"`
	Recipients   []string          `json:"recipients"`
}

// emailRequestedEvent wraps an email request as a domain event for the outbox
type emailRequestedEvent struct {
	shared.BaseDomainEvent
}

func newEmailRequestedEvent() *emailRequestedEvent {
	return &emailRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmailRequested, "EmailRequest", uuid.New()),
	}
}

// Ensure OutboxNotificationGateway satisfies the application gateways
var (
	_ billingapp.NotificationGateway     = (*OutboxNotificationGateway)(nil)
	_ terminationapp.NotificationGateway = (*OutboxNotificationGateway)(nil)
)

// OutboxNotificationGateway queues automated emails as outbox entries.
// The dispatcher picks them up asynchronously.
type OutboxNotificationGateway struct {
	outbox shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxNotificationGateway creates a new OutboxNotificationGateway
func NewOutboxNotificationGateway(outbox shared.OutboxRepository, logger *zap.Logger) *OutboxNotificationGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxNotificationGateway{outbox: outbox, logger: logger}
}

// EnqueueAutomatedEmail stores an email request in the outbox
func (g *OutboxNotificationGateway) EnqueueAutomatedEmail(ctx context.Context, triggerEvent string, variables map[string]string, recipients []string) error {
	if triggerEvent == "" {
		return errors.New("trigger event is required")
	}
	if len(recipients) == 0 {
		return errors.New("at least one recipient is required")
	}

	payload, err := json.Marshal(EmailRequest{
		TriggerEvent: triggerEvent,
		Variables:    variables,
		Recipients:   recipients,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize email request: %w", err)
	}

	entry := shared.NewOutboxEntry(newEmailRequestedEvent(), payload)
	if err := g.outbox.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	g.logger.Debug("email queued",
		zap.String("trigger_event", triggerEvent),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}
