package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// Supplier is a vendor engaged for maintenance and services
type Supplier struct {
	shared.AuditedAggregateRoot
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxNumber     string `json:"tax_number"`
	IsActive      bool   `json:"is_active"`
}

// NewSupplier creates an active supplier
func NewSupplier(code, name, contactPerson, email, phone string, createdBy uuid.UUID) (*Supplier, error) {
	if code == "" {
		return nil, shared.NewValidationError("Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}

	return &Supplier{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		Name:                 name,
		ContactPerson:        contactPerson,
		Email:                email,
		Phone:                phone,
		IsActive:             true,
	}, nil
}

// Update changes the supplier's contact details
func (s *Supplier) Update(name, contactPerson, email, phone, address, taxNumber string, actor uuid.UUID) error {
	if name == "" {
		return shared.NewValidationError("Supplier name cannot be empty")
	}
	s.Name = name
	s.ContactPerson = contactPerson
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.TaxNumber = taxNumber
	s.Touch(actor)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Activate enables the supplier
func (s *Supplier) Activate(actor uuid.UUID) {
	s.IsActive = true
	s.Touch(actor)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate disables the supplier
func (s *Supplier) Deactivate(actor uuid.UUID) {
	s.IsActive = false
	s.Touch(actor)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SupplierRepository provides persistence for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]
	FindByCode(ctx context.Context, code string) (*Supplier, error)
	FindActive(ctx context.Context) ([]Supplier, error)
}
