package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

func newTestReceipt(t *testing.T, amount float64, method PaymentMethod) *LeaseReceipt {
	t.Helper()
	rc, err := NewLeaseReceipt(
		"RCP-2026-0001",
		uuid.New(),
		uuid.New(),
		"Al Noor Trading LLC",
		valueobject.AED,
		valueobject.NewMoneyAEDFromFloat(amount),
		method,
		time.Now(),
		uuid.New(),
	)
	require.NoError(t, err)
	return rc
}

func TestNewLeaseReceipt(t *testing.T) {
	t.Run("creates draft receipt fully unallocated", func(t *testing.T) {
		rc := newTestReceipt(t, 1500, PaymentMethodBankTransfer)

		assert.Equal(t, ReceiptStatusDraft, rc.Status)
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(1500)))
		assert.True(t, rc.AllocatedAmount.IsZero())
		assert.False(t, rc.IsFullyAllocated())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewLeaseReceipt("RCP-1", uuid.New(), uuid.New(), "X",
			valueobject.AED, valueobject.ZeroAED(), PaymentMethodCash, time.Now(), uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidAmount))
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		_, err := NewLeaseReceipt("RCP-1", uuid.New(), uuid.New(), "X",
			valueobject.AED, valueobject.NewMoneyAEDFromFloat(100), PaymentMethod("BARTER"), time.Now(), uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})
}

func TestLeaseReceipt_Allocate(t *testing.T) {
	t.Run("allocation conserves receipt amount", func(t *testing.T) {
		rc := newTestReceipt(t, 1500, PaymentMethodBankTransfer)
		invID := uuid.New()

		alloc, err := rc.Allocate(invID, "INV-2026-0001", valueobject.NewMoneyAEDFromFloat(900))
		require.NoError(t, err)
		assert.True(t, alloc.AllocatedAmount.Equal(decimal.NewFromInt(900)))
		assert.True(t, rc.AllocatedAmount.Add(rc.UnallocatedAmount).Equal(rc.ReceiptAmount))
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("allocation beyond unallocated balance fails", func(t *testing.T) {
		rc := newTestReceipt(t, 500, PaymentMethodCash)

		_, err := rc.Allocate(uuid.New(), "INV-1", valueobject.NewMoneyAEDFromFloat(600))
		assert.True(t, shared.IsDomainError(err, shared.CodeInsufficientReceipt))
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(500)))
		assert.Empty(t, rc.Allocations)
	})

	t.Run("repeat allocation to same invoice tops up the row", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		invID := uuid.New()

		_, err := rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(300))
		require.NoError(t, err)
		_, err = rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(200))
		require.NoError(t, err)

		assert.Len(t, rc.Allocations, 1)
		assert.True(t, rc.Allocations[0].AllocatedAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("deallocate frees the full row", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		invID := uuid.New()
		_, err := rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(400))
		require.NoError(t, err)

		freed, err := rc.Deallocate(invID)
		require.NoError(t, err)
		assert.True(t, freed.Equal(decimal.NewFromInt(400)))
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(1000)))
		assert.Nil(t, rc.AllocationFor(invID))
	})

	t.Run("undo restores amounts version and event buffer", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		invID := uuid.New()
		versionBefore := rc.Version
		eventsBefore := len(rc.GetDomainEvents())

		_, err := rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(400))
		require.NoError(t, err)

		rc.undoAllocation(invID, decimal.NewFromInt(400))

		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, rc.AllocatedAmount.IsZero())
		assert.Nil(t, rc.AllocationFor(invID))
		assert.Equal(t, versionBefore, rc.Version)
		require.Len(t, rc.GetDomainEvents(), eventsBefore)
		for _, e := range rc.GetDomainEvents() {
			assert.NotEqual(t, "LeaseReceiptAllocated", e.EventType())
			assert.NotEqual(t, "LeaseReceiptDeallocated", e.EventType())
		}
	})

	t.Run("undo of a top-up keeps the earlier allocation", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		invID := uuid.New()
		_, err := rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(300))
		require.NoError(t, err)
		_, err = rc.Allocate(invID, "INV-1", valueobject.NewMoneyAEDFromFloat(200))
		require.NoError(t, err)

		rc.undoAllocation(invID, decimal.NewFromInt(200))

		require.NotNil(t, rc.AllocationFor(invID))
		assert.True(t, rc.AllocationFor(invID).AllocatedAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, rc.UnallocatedAmount.Equal(decimal.NewFromInt(700)))
	})

	t.Run("deallocate without allocation fails", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		_, err := rc.Deallocate(uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("non-draft receipt rejects allocation changes", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		require.NoError(t, rc.Validate(uuid.New()))

		_, err := rc.Allocate(uuid.New(), "INV-1", valueobject.NewMoneyAEDFromFloat(100))
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))

		_, err = rc.Deallocate(uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))
	})
}

func TestLeaseReceipt_Lifecycle(t *testing.T) {
	actor := uuid.New()

	t.Run("draft validate post cleared", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)

		require.NoError(t, rc.Validate(actor))
		assert.Equal(t, ReceiptStatusValidated, rc.Status)

		require.NoError(t, rc.Post(actor))
		assert.Equal(t, ReceiptStatusPosted, rc.Status)

		require.NoError(t, rc.MarkStatusCleared(actor))
		assert.Equal(t, ReceiptStatusCleared, rc.Status)
	})

	t.Run("cannot skip validation", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		err := rc.Post(actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})

	t.Run("remark edits only while draft", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		require.NoError(t, rc.SetRemark("First instalment", actor))
		assert.Equal(t, "First instalment", rc.Remark)

		require.NoError(t, rc.Validate(actor))
		err := rc.SetRemark("changed after validation", actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))
		assert.Equal(t, "First instalment", rc.Remark)
	})

	t.Run("cancel requires reason and non-terminal status", func(t *testing.T) {
		rc := newTestReceipt(t, 1000, PaymentMethodCash)
		err := rc.Cancel("", actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))

		require.NoError(t, rc.Cancel("Posted in error", actor))
		assert.Equal(t, ReceiptStatusCancelled, rc.Status)

		err = rc.Cancel("Again", actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})
}

func TestLeaseReceipt_ChequeClearing(t *testing.T) {
	actor := uuid.New()

	t.Run("cheque receipt records details and clears", func(t *testing.T) {
		rc := newTestReceipt(t, 2500, PaymentMethodCheque)
		require.NoError(t, rc.SetChequeDetails("000412", "Emirates NBD", actor))

		clearing := time.Now()
		require.NoError(t, rc.ToggleClearing(true, &clearing, actor))
		assert.True(t, rc.IsCleared)
		require.NotNil(t, rc.ClearingDate)
	})

	t.Run("clearing requires a date", func(t *testing.T) {
		rc := newTestReceipt(t, 2500, PaymentMethodCheque)
		err := rc.ToggleClearing(true, nil, actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("unclearing resets the flag", func(t *testing.T) {
		rc := newTestReceipt(t, 2500, PaymentMethodCheque)
		clearing := time.Now()
		require.NoError(t, rc.ToggleClearing(true, &clearing, actor))

		require.NoError(t, rc.ToggleClearing(false, nil, actor))
		assert.False(t, rc.IsCleared)
		assert.Nil(t, rc.ClearingDate)
	})

	t.Run("non-cheque receipts have no clearing", func(t *testing.T) {
		rc := newTestReceipt(t, 2500, PaymentMethodCash)
		clearing := time.Now()
		err := rc.ToggleClearing(true, &clearing, actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("uncleared cheque blocks terminal cleared status", func(t *testing.T) {
		rc := newTestReceipt(t, 2500, PaymentMethodCheque)
		require.NoError(t, rc.Validate(actor))
		require.NoError(t, rc.Post(actor))

		err := rc.MarkStatusCleared(actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))

		clearing := time.Now()
		require.NoError(t, rc.ToggleClearing(true, &clearing, actor))
		require.NoError(t, rc.MarkStatusCleared(actor))
		assert.Equal(t, ReceiptStatusCleared, rc.Status)
	})
}
