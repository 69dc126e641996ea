package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot marks the consistency boundary of a write model: a
// versioned entity that records domain events for the outbox.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot embeds identity plus the optimistic-lock version and
// the event buffer. Every state mutation must bump Version; repositories
// compare it on save and reject stale writes.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int   { return a.Version }
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event until the repository drains it into the
// outbox within the same transaction as the aggregate save.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// AuditedAggregateRoot adds actor tracking. Aggregates never read
// identity from ambient state; the acting user is an explicit argument on
// every mutating operation and lands here.
type AuditedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy uuid.UUID  `gorm:"type:uuid;index"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

func NewAuditedAggregateRoot(createdBy uuid.UUID) AuditedAggregateRoot {
	return AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
	}
}

// Touch records who performed the latest mutation.
func (a *AuditedAggregateRoot) Touch(actor uuid.UUID) {
	if actor != uuid.Nil {
		a.UpdatedBy = &actor
	}
}

func (a *AuditedAggregateRoot) GetCreatedBy() uuid.UUID { return a.CreatedBy }
