package masterdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// Automated email trigger events
const (
	TriggerInvoicePosted      = "INVOICE_POSTED"
	TriggerInvoicePaid        = "INVOICE_PAID"
	TriggerReceiptPosted      = "RECEIPT_POSTED"
	TriggerTerminationCreated = "TERMINATION_CREATED"
	TriggerRefundProcessed    = "REFUND_PROCESSED"
)

// EmailTemplate is a reusable template for automated notifications.
// Placeholders use the {{variable}} form and are substituted at render time.
type EmailTemplate struct {
	shared.AuditedAggregateRoot
	Code         string `json:"code"`
	TriggerEvent string `json:"trigger_event"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	IsActive     bool   `json:"is_active"`
}

// NewEmailTemplate creates an active email template
func NewEmailTemplate(code, triggerEvent, subject, body string, createdBy uuid.UUID) (*EmailTemplate, error) {
	if code == "" {
		return nil, shared.NewValidationError("Template code cannot be empty")
	}
	if triggerEvent == "" {
		return nil, shared.NewValidationError("Trigger event cannot be empty")
	}
	if subject == "" {
		return nil, shared.NewValidationError("Template subject cannot be empty")
	}
	if body == "" {
		return nil, shared.NewValidationError("Template body cannot be empty")
	}

	return &EmailTemplate{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		TriggerEvent:         triggerEvent,
		Subject:              subject,
		Body:                 body,
		IsActive:             true,
	}, nil
}

// Update changes the template's subject and body
func (et *EmailTemplate) Update(subject, body string, actor uuid.UUID) error {
	if subject == "" {
		return shared.NewValidationError("Template subject cannot be empty")
	}
	if body == "" {
		return shared.NewValidationError("Template body cannot be empty")
	}
	et.Subject = subject
	et.Body = body
	et.Touch(actor)
	et.UpdatedAt = time.Now()
	et.IncrementVersion()
	return nil
}

// Activate enables the template
func (et *EmailTemplate) Activate(actor uuid.UUID) {
	et.IsActive = true
	et.Touch(actor)
	et.UpdatedAt = time.Now()
	et.IncrementVersion()
}

// Deactivate disables the template
func (et *EmailTemplate) Deactivate(actor uuid.UUID) {
	et.IsActive = false
	et.Touch(actor)
	et.UpdatedAt = time.Now()
	et.IncrementVersion()
}

// Render substitutes {{variable}} placeholders in the subject and body
func (et *EmailTemplate) Render(variables map[string]string) (subject, body string) {
	subject, body = et.Subject, et.Body
	for name, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", name)
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return subject, body
}

// EmailTemplateRepository provides persistence for email templates
type EmailTemplateRepository interface {
	shared.Repository[EmailTemplate]
	FindByCode(ctx context.Context, code string) (*EmailTemplate, error)
	FindByTrigger(ctx context.Context, triggerEvent string) (*EmailTemplate, error)
	FindActive(ctx context.Context) ([]EmailTemplate, error)
}
