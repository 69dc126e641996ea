package termination

import (
	"context"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// TerminationFilter narrows termination queries
type TerminationFilter struct {
	shared.Filter
	ContractID        *uuid.UUID
	CustomerID        *uuid.UUID
	Status            *TerminationStatus
	ApprovalStatus    *shared.ApprovalStatus
	TerminationNumber string
	PendingRefund     bool
}

// ContractTerminationRepository provides persistence for terminations
type ContractTerminationRepository interface {
	shared.Repository[ContractTermination]
	FindByTerminationNumber(ctx context.Context, terminationNumber string) (*ContractTermination, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]ContractTermination, error)
	FindFiltered(ctx context.Context, filter TerminationFilter) (shared.Paginated[ContractTermination], error)
	FindPendingApproval(ctx context.Context) ([]ContractTermination, error)
	SaveWithLock(ctx context.Context, termination *ContractTermination, expectedVersion int) error
	NextTerminationNumber(ctx context.Context) (string, error)
}
