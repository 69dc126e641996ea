package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// EmailSender delivers a rendered email to its recipients
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// LogEmailSender writes emails to the application log instead of sending
// them. Used in development and as the default until an SMTP or provider
// integration is configured.
type LogEmailSender struct {
	logger *zap.Logger
}

// NewLogEmailSender creates a new LogEmailSender
func NewLogEmailSender(logger *zap.Logger) *LogEmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEmailSender{logger: logger}
}

// Send logs the email instead of delivering it
func (s *LogEmailSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	s.logger.Info("email (log sender)",
		zap.String("to", strings.Join(recipients, ", ")),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}

// DispatcherConfig holds configuration for the email dispatcher
type DispatcherConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultDispatcherConfig returns default configuration
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BatchSize:        50,
		PollInterval:     10 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// Dispatcher polls the outbox for queued emails, renders the template bound
// to each trigger event and hands the result to the sender.
type Dispatcher struct {
	outbox    shared.OutboxRepository
	templates masterdata.EmailTemplateRepository
	sender    EmailSender
	config    DispatcherConfig
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a new email dispatcher
func NewDispatcher(
	outbox shared.OutboxRepository,
	templates masterdata.EmailTemplateRepository,
	sender EmailSender,
	config DispatcherConfig,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultDispatcherConfig().BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultDispatcherConfig().PollInterval
	}
	return &Dispatcher{
		outbox:    outbox,
		templates: templates,
		sender:    sender,
		config:    config,
		logger:    logger,
	}
}

// Start starts the background dispatch loop
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.dispatchLoop(ctx)

	if d.config.CleanupEnabled {
		d.wg.Add(1)
		go d.cleanupLoop(ctx)
	}

	d.logger.Info("email dispatcher started",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Duration("poll_interval", d.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the dispatcher
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("email dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatchLoop is the main dispatch loop
func (d *Dispatcher) dispatchLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.ProcessBatch(ctx)
		}
	}
}

// cleanupLoop periodically deletes old sent entries
func (d *Dispatcher) cleanupLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := d.outbox.DeleteOlderThan(ctx, time.Now().Add(-d.config.CleanupRetention))
			if err != nil {
				d.logger.Error("outbox cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				d.logger.Info("outbox cleanup", zap.Int64("deleted", deleted))
			}
		}
	}
}

// ProcessBatch processes one batch of pending and retryable entries.
// Exported so callers can drain the outbox on demand.
func (d *Dispatcher) ProcessBatch(ctx context.Context) {
	pending, err := d.outbox.FindPending(ctx, d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find pending entries", zap.Error(err))
		return
	}
	for _, entry := range pending {
		d.processEntry(ctx, entry)
	}

	retryable, err := d.outbox.FindRetryable(ctx, time.Now(), d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find retryable entries", zap.Error(err))
		return
	}
	for _, entry := range retryable {
		d.processEntry(ctx, entry)
	}
}

// processEntry renders and sends a single queued email
func (d *Dispatcher) processEntry(ctx context.Context, entry *shared.OutboxEntry) {
	if entry.EventType != EventTypeEmailRequested {
		// Foreign entries stay untouched for other consumers
		return
	}

	if err := entry.MarkProcessing(); err != nil {
		d.logger.Warn("skipping outbox entry",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return
	}

	var request EmailRequest
	if err := json.Unmarshal(entry.Payload, &request); err != nil {
		d.fail(ctx, entry, err)
		return
	}

	template, err := d.templates.FindByTrigger(ctx, request.TriggerEvent)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No active template bound to this trigger: nothing to send
			d.logger.Debug("no template for trigger",
				zap.String("trigger_event", request.TriggerEvent),
			)
			entry.MarkSent()
			d.update(ctx, entry)
			return
		}
		d.fail(ctx, entry, err)
		return
	}

	subject, body := template.Render(request.Variables)
	if err := d.sender.Send(ctx, request.Recipients, subject, body); err != nil {
		d.fail(ctx, entry, err)
		return
	}

	entry.MarkSent()
	d.update(ctx, entry)

	d.logger.Info("email sent",
		zap.String("trigger_event", request.TriggerEvent),
		zap.String("template", template.Code),
		zap.Int("recipients", len(request.Recipients)),
	)
}

func (d *Dispatcher) fail(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())
	if entry.IsDead() {
		d.logger.Warn("email moved to dead letter queue",
			zap.String("event_id", entry.EventID.String()),
			zap.Int("retry_count", entry.RetryCount),
			zap.String("last_error", entry.LastError),
		)
	} else {
		d.logger.Error("email delivery failed",
			zap.String("event_id", entry.EventID.String()),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(cause),
		)
	}
	d.update(ctx, entry)
}

func (d *Dispatcher) update(ctx context.Context, entry *shared.OutboxEntry) {
	if err := d.outbox.Update(ctx, entry); err != nil {
		d.logger.Error("failed to update outbox entry",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
	}
}
