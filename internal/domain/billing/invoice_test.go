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

func newTestInvoice(t *testing.T, amount string, taxPct string) *LeaseInvoice {
	t.Helper()
	base, err := valueobject.NewMoneyAEDFromString(amount)
	require.NoError(t, err)
	tax, err := decimal.NewFromString(taxPct)
	require.NoError(t, err)

	inv, err := NewLeaseInvoice(
		"INV-2026-0001",
		uuid.New(),
		uuid.New(),
		"Al Noor Trading LLC",
		valueobject.AED,
		base,
		tax,
		time.Now(),
		nil,
		uuid.New(),
	)
	require.NoError(t, err)
	return inv
}

func TestNewLeaseInvoice(t *testing.T) {
	t.Run("creates draft invoice with derived totals", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "5")

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("1050.00")))
		assert.True(t, inv.BalanceAmount.Equal(inv.TotalAmount))
		assert.True(t, inv.PaidAmount.IsZero())
		assert.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, 1, inv.Version)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewLeaseInvoice("", uuid.New(), uuid.New(), "X",
			valueobject.AED, valueobject.NewMoneyAEDFromFloat(100), decimal.Zero,
			time.Now(), nil, uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewLeaseInvoice("INV-1", uuid.New(), uuid.New(), "X",
			valueobject.AED, valueobject.NewMoneyAEDFromFloat(-100), decimal.Zero,
			time.Now(), nil, uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidAmount))
	})
}

func TestLeaseInvoice_Totals(t *testing.T) {
	t.Run("total combines base tax charges and discount", func(t *testing.T) {
		// 1000 base, 5% tax, one 50 charge line, 20 discount -> 1080
		inv := newTestInvoice(t, "1000.00", "5")
		actor := uuid.New()

		_, err := inv.AddChargeLine("Maintenance fee", valueobject.NewMoneyAEDFromFloat(50), decimal.Zero, actor)
		require.NoError(t, err)
		err = inv.UpdateAmounts(valueobject.NewMoneyAEDFromFloat(1000), decimal.NewFromInt(5), decimal.NewFromInt(20), actor)
		require.NoError(t, err)

		assert.True(t, inv.TaxAmount.Equal(decimal.RequireFromString("50.00")), "tax was %s", inv.TaxAmount)
		assert.True(t, inv.AdditionalCharges.Equal(decimal.NewFromInt(50)))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1080)), "total was %s", inv.TotalAmount)
		assert.True(t, inv.BalanceAmount.Equal(decimal.NewFromInt(1080)))
	})

	t.Run("charge line carries its own tax", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")

		line, err := inv.AddChargeLine("Parking", valueobject.NewMoneyAEDFromFloat(100), decimal.NewFromInt(5), uuid.New())
		require.NoError(t, err)

		assert.True(t, line.TaxAmount.Equal(decimal.RequireFromString("5.00")))
		assert.True(t, line.TotalAmount.Equal(decimal.RequireFromString("105.00")))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1105)))
	})

	t.Run("discount exceeding gross is rejected and state restored", func(t *testing.T) {
		inv := newTestInvoice(t, "100.00", "0")

		err := inv.UpdateAmounts(valueobject.NewMoneyAEDFromFloat(100), decimal.Zero, decimal.NewFromInt(200), uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTotal))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, inv.DiscountAmount.IsZero())
	})

	t.Run("fractional tax rounds half up to fils", func(t *testing.T) {
		inv := newTestInvoice(t, "333.33", "5")
		// 333.33 * 5% = 16.6665 -> 16.67
		assert.Equal(t, "16.67", inv.TaxAmount.StringFixed(2))
	})

	t.Run("removing charge line recomputes totals", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		actor := uuid.New()
		line, err := inv.AddChargeLine("Utility", valueobject.NewMoneyAEDFromFloat(80), decimal.Zero, actor)
		require.NoError(t, err)
		require.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1080)))

		require.NoError(t, inv.RemoveChargeLine(line.ID, actor))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1000)))

		err = inv.RemoveChargeLine(uuid.New(), actor)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLeaseInvoice_Post(t *testing.T) {
	t.Run("posts draft invoice", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "5")

		err := inv.Post(uuid.New())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPosted, inv.Status)
		assert.NotNil(t, inv.PostedAt)
	})

	t.Run("cannot post twice", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "5")
		require.NoError(t, inv.Post(uuid.New()))

		err := inv.Post(uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})

	t.Run("posted invoice rejects edits", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "5")
		require.NoError(t, inv.Post(uuid.New()))

		err := inv.UpdateAmounts(valueobject.NewMoneyAEDFromFloat(500), decimal.Zero, decimal.Zero, uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))

		_, err = inv.AddChargeLine("Late fee", valueobject.NewMoneyAEDFromFloat(10), decimal.Zero, uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))
	})

	t.Run("remark edits only while draft", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "5")
		require.NoError(t, inv.SetRemark("First instalment", uuid.New()))
		assert.Equal(t, "First instalment", inv.Remark)

		require.NoError(t, inv.Post(uuid.New()))
		err := inv.SetRemark("changed after posting", uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))
		assert.Equal(t, "First instalment", inv.Remark)
	})
}

func TestLeaseInvoice_ApplyPayment(t *testing.T) {
	postedInvoice := func(t *testing.T) *LeaseInvoice {
		t.Helper()
		inv := newTestInvoice(t, "1000.00", "5")
		actor := uuid.New()
		_, err := inv.AddChargeLine("Maintenance fee", valueobject.NewMoneyAEDFromFloat(50), decimal.Zero, actor)
		require.NoError(t, err)
		require.NoError(t, inv.UpdateAmounts(valueobject.NewMoneyAEDFromFloat(1000), decimal.NewFromInt(5), decimal.NewFromInt(20), actor))
		require.NoError(t, inv.Post(actor))
		return inv // total 1080
	}

	t.Run("full payment marks invoice paid", func(t *testing.T) {
		inv := postedInvoice(t)

		err := inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(1080), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.BalanceAmount.IsZero())
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("partial payment marks partially paid", func(t *testing.T) {
		inv := postedInvoice(t)

		err := inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(400), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.BalanceAmount.Equal(decimal.NewFromInt(680)))

		err = inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(680), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("overpayment is rejected without state change", func(t *testing.T) {
		inv := postedInvoice(t)

		err := inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(1200), uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeOverpayment))
		assert.Equal(t, InvoiceStatusPosted, inv.Status)
		assert.True(t, inv.BalanceAmount.Equal(decimal.NewFromInt(1080)))
		assert.Empty(t, inv.PaymentRecords)
	})

	t.Run("zero payment is a no-op", func(t *testing.T) {
		inv := postedInvoice(t)
		before := inv.Version

		err := inv.ApplyPayment(valueobject.ZeroAED(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, before, inv.Version)
		assert.Empty(t, inv.PaymentRecords)
	})

	t.Run("draft invoice cannot take payment", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")

		err := inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(100), uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})
}

func TestLeaseInvoice_ReversePayment(t *testing.T) {
	t.Run("reversal restores balance and status", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		require.NoError(t, inv.Post(uuid.New()))
		receiptID := uuid.New()
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(1000), receiptID))
		require.Equal(t, InvoiceStatusPaid, inv.Status)

		reversed, err := inv.ReversePayment(receiptID)
		require.NoError(t, err)
		assert.True(t, reversed.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, InvoiceStatusPosted, inv.Status)
		assert.True(t, inv.BalanceAmount.Equal(decimal.NewFromInt(1000)))
		assert.Nil(t, inv.PaidAt)
		assert.Equal(t, 0, inv.ActivePaymentCount())
	})

	t.Run("partial reversal leaves partially paid", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		require.NoError(t, inv.Post(uuid.New()))
		r1, r2 := uuid.New(), uuid.New()
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(600), r1))
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyAEDFromFloat(400), r2))

		_, err := inv.ReversePayment(r2)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("unknown receipt fails", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		require.NoError(t, inv.Post(uuid.New()))

		_, err := inv.ReversePayment(uuid.New())
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})
}

func TestLeaseInvoice_StatusTransitions(t *testing.T) {
	actor := uuid.New()

	t.Run("cancel requires reason", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		err := inv.Cancel("", actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("cancel from draft", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		require.NoError(t, inv.Cancel("Duplicate entry", actor))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.NotNil(t, inv.CancelledAt)
		assert.Equal(t, "Duplicate entry", inv.CancelReason)
	})

	t.Run("terminal states reject transitions", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		require.NoError(t, inv.Void("Entry error", actor))

		err := inv.ChangeStatus(InvoiceStatusPosted, actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		err := inv.ChangeStatus(InvoiceStatus("FROZEN"), actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("same status rejected", func(t *testing.T) {
		inv := newTestInvoice(t, "1000.00", "0")
		err := inv.ChangeStatus(InvoiceStatusDraft, actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeInvalidTransition))
	})
}
