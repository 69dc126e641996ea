package termination

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/billing/acl"
	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
	domaintermination "github.com/leasedesk/backend/internal/domain/termination"
)

// ===================== In-memory fakes =====================

type fakeTerminationRepo struct {
	terminations map[uuid.UUID]*domaintermination.ContractTermination
	seq          int
}

func newFakeTerminationRepo() *fakeTerminationRepo {
	return &fakeTerminationRepo{terminations: make(map[uuid.UUID]*domaintermination.ContractTermination)}
}

func (r *fakeTerminationRepo) FindByID(_ context.Context, id uuid.UUID) (*domaintermination.ContractTermination, error) {
	return r.terminations[id], nil
}

func (r *fakeTerminationRepo) FindAll(_ context.Context, _ shared.Filter) ([]domaintermination.ContractTermination, error) {
	var out []domaintermination.ContractTermination
	for _, tm := range r.terminations {
		out = append(out, *tm)
	}
	return out, nil
}

func (r *fakeTerminationRepo) Save(_ context.Context, tm *domaintermination.ContractTermination) error {
	r.terminations[tm.ID] = tm
	return nil
}

func (r *fakeTerminationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.terminations, id)
	return nil
}

func (r *fakeTerminationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.terminations)), nil
}

func (r *fakeTerminationRepo) FindByTerminationNumber(_ context.Context, number string) (*domaintermination.ContractTermination, error) {
	for _, tm := range r.terminations {
		if tm.TerminationNumber == number {
			return tm, nil
		}
	}
	return nil, nil
}

func (r *fakeTerminationRepo) FindByContract(_ context.Context, contractID uuid.UUID) ([]domaintermination.ContractTermination, error) {
	var out []domaintermination.ContractTermination
	for _, tm := range r.terminations {
		if tm.ContractID == contractID {
			out = append(out, *tm)
		}
	}
	return out, nil
}

func (r *fakeTerminationRepo) FindFiltered(_ context.Context, filter domaintermination.TerminationFilter) (shared.Paginated[domaintermination.ContractTermination], error) {
	var items []domaintermination.ContractTermination
	for _, tm := range r.terminations {
		if filter.Status != nil && tm.Status != *filter.Status {
			continue
		}
		items = append(items, *tm)
	}
	return shared.NewPaginated(items, int64(len(items)), 1, 20), nil
}

func (r *fakeTerminationRepo) FindPendingApproval(_ context.Context) ([]domaintermination.ContractTermination, error) {
	return nil, nil
}

func (r *fakeTerminationRepo) SaveWithLock(_ context.Context, tm *domaintermination.ContractTermination, _ int) error {
	if _, ok := r.terminations[tm.ID]; !ok {
		return shared.ErrNotFound
	}
	r.terminations[tm.ID] = tm
	return nil
}

func (r *fakeTerminationRepo) NextTerminationNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("TRM-2026-%04d", r.seq), nil
}

// stubInvoiceRepo serves only the contract-history lookup; the rest of the
// interface is unused by the termination flow.
type stubInvoiceRepo struct {
	invoices []billing.LeaseInvoice
}

func (r *stubInvoiceRepo) FindByID(context.Context, uuid.UUID) (*billing.LeaseInvoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) FindAll(context.Context, shared.Filter) ([]billing.LeaseInvoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) Save(context.Context, *billing.LeaseInvoice) error   { return nil }
func (r *stubInvoiceRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (r *stubInvoiceRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *stubInvoiceRepo) FindByInvoiceNumber(context.Context, string) (*billing.LeaseInvoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) FindByContract(context.Context, uuid.UUID) ([]billing.LeaseInvoice, error) {
	return r.invoices, nil
}
func (r *stubInvoiceRepo) FindOpenByContract(context.Context, uuid.UUID) ([]billing.LeaseInvoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) FindFiltered(context.Context, billing.InvoiceFilter) (shared.Paginated[billing.LeaseInvoice], error) {
	return shared.Paginated[billing.LeaseInvoice]{}, nil
}
func (r *stubInvoiceRepo) FindOverdue(context.Context, time.Time) ([]billing.LeaseInvoice, error) {
	return nil, nil
}
func (r *stubInvoiceRepo) SaveWithLock(context.Context, *billing.LeaseInvoice, int) error {
	return nil
}
func (r *stubInvoiceRepo) NextInvoiceNumber(context.Context) (string, error) { return "", nil }

type stubReceiptRepo struct {
	receipts []billing.LeaseReceipt
}

func (r *stubReceiptRepo) FindByID(context.Context, uuid.UUID) (*billing.LeaseReceipt, error) {
	return nil, nil
}
func (r *stubReceiptRepo) FindAll(context.Context, shared.Filter) ([]billing.LeaseReceipt, error) {
	return nil, nil
}
func (r *stubReceiptRepo) Save(context.Context, *billing.LeaseReceipt) error   { return nil }
func (r *stubReceiptRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (r *stubReceiptRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *stubReceiptRepo) FindByReceiptNumber(context.Context, string) (*billing.LeaseReceipt, error) {
	return nil, nil
}
func (r *stubReceiptRepo) FindByContract(context.Context, uuid.UUID) ([]billing.LeaseReceipt, error) {
	return r.receipts, nil
}
func (r *stubReceiptRepo) FindFiltered(context.Context, billing.ReceiptFilter) (shared.Paginated[billing.LeaseReceipt], error) {
	return shared.Paginated[billing.LeaseReceipt]{}, nil
}
func (r *stubReceiptRepo) FindUnclearedCheques(context.Context) ([]billing.LeaseReceipt, error) {
	return nil, nil
}
func (r *stubReceiptRepo) SaveWithLock(context.Context, *billing.LeaseReceipt, int) error {
	return nil
}
func (r *stubReceiptRepo) NextReceiptNumber(context.Context) (string, error) { return "", nil }

type stubChargeRepo struct {
	charges map[uuid.UUID]*masterdata.DeductionCharge
}

func (r *stubChargeRepo) FindByID(_ context.Context, id uuid.UUID) (*masterdata.DeductionCharge, error) {
	return r.charges[id], nil
}
func (r *stubChargeRepo) FindAll(context.Context, shared.Filter) ([]masterdata.DeductionCharge, error) {
	return nil, nil
}
func (r *stubChargeRepo) Save(context.Context, *masterdata.DeductionCharge) error { return nil }
func (r *stubChargeRepo) Delete(context.Context, uuid.UUID) error                 { return nil }
func (r *stubChargeRepo) Count(context.Context, shared.Filter) (int64, error)     { return 0, nil }
func (r *stubChargeRepo) FindByCode(context.Context, string) (*masterdata.DeductionCharge, error) {
	return nil, nil
}
func (r *stubChargeRepo) FindActive(context.Context) ([]masterdata.DeductionCharge, error) {
	return nil, nil
}

type fakeReferenceData struct {
	contract *acl.ContractRef
	customer *acl.CustomerRef
}

func (f *fakeReferenceData) GetContract(_ context.Context, id uuid.UUID) (*acl.ContractRef, error) {
	if f.contract != nil && f.contract.ID == id {
		return f.contract, nil
	}
	return nil, nil
}

func (f *fakeReferenceData) GetCustomer(_ context.Context, id uuid.UUID) (*acl.CustomerRef, error) {
	if f.customer != nil && f.customer.ID == id {
		return f.customer, nil
	}
	return nil, nil
}

type fakeAttachmentStore struct {
	deleted []string
}

func (f *fakeAttachmentStore) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.example/upload/" + key, nil
}

func (f *fakeAttachmentStore) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.example/download/" + key, nil
}

func (f *fakeAttachmentStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeNotifier struct {
	enqueued []string
}

func (f *fakeNotifier) EnqueueAutomatedEmail(_ context.Context, trigger string, _ map[string]string, _ []string) error {
	f.enqueued = append(f.enqueued, trigger)
	return nil
}

// ===================== Fixtures =====================

type terminationFixture struct {
	svc      *TerminationService
	repo     *fakeTerminationRepo
	refs     *fakeReferenceData
	charges  *stubChargeRepo
	store    *fakeAttachmentStore
	notifier *fakeNotifier
	actor    uuid.UUID
}

func newTerminationFixture(t *testing.T) *terminationFixture {
	t.Helper()
	contractID, customerID := uuid.New(), uuid.New()
	refs := &fakeReferenceData{
		contract: &acl.ContractRef{
			ID:              contractID,
			ContractNumber:  "CTR-2001",
			CustomerID:      customerID,
			CurrencyCode:    "AED",
			SecurityDeposit: decimal.NewFromInt(2000),
			Active:          true,
		},
		customer: &acl.CustomerRef{
			ID:    customerID,
			Name:  "Marina Heights Tenant",
			Email: "tenant@marina.example",
		},
	}
	f := &terminationFixture{
		repo:     newFakeTerminationRepo(),
		refs:     refs,
		charges:  &stubChargeRepo{charges: make(map[uuid.UUID]*masterdata.DeductionCharge)},
		store:    &fakeAttachmentStore{},
		notifier: &fakeNotifier{},
		actor:    uuid.New(),
	}
	f.svc = NewTerminationService(
		f.repo,
		&stubInvoiceRepo{},
		&stubReceiptRepo{},
		f.charges,
		refs,
		refs,
		f.store,
		f.notifier,
		zap.NewNop(),
	)
	return f
}

func (f *terminationFixture) create(t *testing.T, requiresApproval bool) *TerminationResponse {
	t.Helper()
	resp, err := f.svc.CreateTermination(context.Background(), CreateTerminationRequest{
		ContractID:       f.refs.contract.ID,
		TerminationDate:  time.Now(),
		RequiresApproval: requiresApproval,
	}, f.actor)
	require.NoError(t, err)
	return resp
}

// ===================== Tests =====================

func TestTerminationService_CreateTermination(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds deposit and customer from the contract", func(t *testing.T) {
		f := newTerminationFixture(t)

		resp := f.create(t, false)
		assert.Equal(t, "TRM-2026-0001", resp.TerminationNumber)
		assert.Equal(t, "Marina Heights Tenant", resp.CustomerName)
		assert.True(t, resp.SecurityDepositAmount.Equal(decimal.RequireFromString("2000.00")))
		assert.True(t, resp.RefundAmount.Equal(decimal.RequireFromString("2000.00")))
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, []string{masterdata.TriggerTerminationCreated}, f.notifier.enqueued)
	})

	t.Run("unknown contract fails", func(t *testing.T) {
		f := newTerminationFixture(t)

		_, err := f.svc.CreateTermination(ctx, CreateTerminationRequest{
			ContractID:      uuid.New(),
			TerminationDate: time.Now(),
		}, f.actor)
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})
}

func TestTerminationService_Deductions(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit deduction reduces the refund", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		amount := decimal.NewFromInt(500)
		taxPct := decimal.NewFromInt(5)
		resp, err := f.svc.AddDeduction(ctx, created.ID, AddDeductionRequest{
			Description:     "Wall repainting",
			DeductionAmount: &amount,
			TaxPercentage:   &taxPct,
		}, f.actor)
		require.NoError(t, err)

		require.Len(t, resp.Deductions, 1)
		assert.True(t, resp.TotalDeductions.Equal(decimal.RequireFromString("525.00")))
		assert.True(t, resp.RefundAmount.Equal(decimal.RequireFromString("1475.00")))
	})

	t.Run("blank fields default from the charge definition", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		charge, err := masterdata.NewDeductionCharge(
			"CLEANING", "Deep cleaning", "Move-out deep cleaning",
			decimal.NewFromInt(350), decimal.NewFromInt(5), f.actor)
		require.NoError(t, err)
		f.charges.charges[charge.ID] = charge

		resp, err := f.svc.AddDeduction(ctx, created.ID, AddDeductionRequest{
			DeductionChargeID: &charge.ID,
		}, f.actor)
		require.NoError(t, err)

		require.Len(t, resp.Deductions, 1)
		assert.Equal(t, "Deep cleaning", resp.Deductions[0].Description)
		assert.True(t, resp.Deductions[0].DeductionAmount.Equal(decimal.RequireFromString("350.00")))
		assert.True(t, resp.Deductions[0].TaxPercentage.Equal(decimal.NewFromInt(5)))
	})

	t.Run("inactive charge is rejected", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		charge, err := masterdata.NewDeductionCharge(
			"OLD", "Retired charge", "", decimal.NewFromInt(100), decimal.Zero, f.actor)
		require.NoError(t, err)
		charge.Deactivate(f.actor)
		f.charges.charges[charge.ID] = charge

		_, err = f.svc.AddDeduction(ctx, created.ID, AddDeductionRequest{
			DeductionChargeID: &charge.ID,
		}, f.actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeValidation))
	})

	t.Run("deductions exceeding the deposit produce a credit note", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		amount := decimal.NewFromInt(2500)
		taxPct := decimal.Zero
		resp, err := f.svc.AddDeduction(ctx, created.ID, AddDeductionRequest{
			Description:     "Structural damage",
			DeductionAmount: &amount,
			TaxPercentage:   &taxPct,
		}, f.actor)
		require.NoError(t, err)

		assert.True(t, resp.RefundAmount.IsZero())
		assert.True(t, resp.CreditNoteAmount.Equal(decimal.RequireFromString("500.00")))
	})
}

func TestTerminationService_ApprovalAndRefund(t *testing.T) {
	ctx := context.Background()

	refundReq := ProcessRefundRequest{
		RefundDate:      time.Now(),
		RefundReference: "TT-20260829-001",
	}

	t.Run("full approval and refund flow", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, true)

		_, err := f.svc.Submit(ctx, created.ID, f.actor)
		require.NoError(t, err)

		resp, err := f.svc.Approve(ctx, created.ID, ApproveRequest{Comment: "Inspection clean"}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)

		f.notifier.enqueued = nil
		resp, err = f.svc.ProcessRefund(ctx, created.ID, refundReq, f.actor)
		require.NoError(t, err)
		assert.True(t, resp.IsRefundProcessed)
		assert.Equal(t, "TT-20260829-001", resp.RefundReference)
		assert.Equal(t, []string{masterdata.TriggerRefundProcessed}, f.notifier.enqueued)

		resp, err = f.svc.Complete(ctx, created.ID, f.actor)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
	})

	t.Run("refund before approval is blocked", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, true)

		_, err := f.svc.Submit(ctx, created.ID, f.actor)
		require.NoError(t, err)

		_, err = f.svc.ProcessRefund(ctx, created.ID, refundReq, f.actor)
		assert.Error(t, err)
	})

	t.Run("approval locks the settlement against edits", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, true)

		_, err := f.svc.Submit(ctx, created.ID, f.actor)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, created.ID, ApproveRequest{}, uuid.New())
		require.NoError(t, err)

		amount := decimal.NewFromInt(100)
		_, err = f.svc.AddDeduction(ctx, created.ID, AddDeductionRequest{
			Description:     "Late deduction",
			DeductionAmount: &amount,
		}, f.actor)
		assert.True(t, shared.IsDomainError(err, shared.CodeImmutableRecord))

		// reset unlocks; the settlement drops back to pending review
		resp, err := f.svc.ResetApproval(ctx, created.ID, f.actor)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("rejection requires a reason and returns to draft", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, true)

		_, err := f.svc.Submit(ctx, created.ID, f.actor)
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, created.ID, RejectRequest{}, uuid.New())
		assert.Error(t, err)

		resp, err := f.svc.Reject(ctx, created.ID, RejectRequest{Reason: "Photos missing"}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
	})

	t.Run("reset is blocked once the refund is paid", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, true)

		_, err := f.svc.Submit(ctx, created.ID, f.actor)
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, created.ID, ApproveRequest{}, uuid.New())
		require.NoError(t, err)
		_, err = f.svc.ProcessRefund(ctx, created.ID, refundReq, f.actor)
		require.NoError(t, err)

		_, err = f.svc.ResetApproval(ctx, created.ID, f.actor)
		assert.Error(t, err)
	})
}

func TestTerminationService_Attachments(t *testing.T) {
	ctx := context.Background()

	t.Run("attach issues an upload URL and get presigns downloads", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		result, err := f.svc.AttachDocument(ctx, created.ID, AttachDocumentRequest{
			FileName:    "inspection-report.pdf",
			ContentType: "application/pdf",
		}, f.actor)
		require.NoError(t, err)
		assert.Contains(t, result.UploadURL, "inspection-report.pdf")
		require.Len(t, result.Termination.Attachments, 1)

		resp, err := f.svc.GetTermination(ctx, created.ID)
		require.NoError(t, err)
		assert.Contains(t, resp.Attachments[0].DownloadURL, "https://storage.example/download/")
	})

	t.Run("remove deletes the stored binary", func(t *testing.T) {
		f := newTerminationFixture(t)
		created := f.create(t, false)

		result, err := f.svc.AttachDocument(ctx, created.ID, AttachDocumentRequest{
			FileName: "handover-checklist.pdf",
		}, f.actor)
		require.NoError(t, err)
		attachmentID := result.Termination.Attachments[0].ID

		_, err = f.svc.RemoveDocument(ctx, created.ID, attachmentID, f.actor)
		require.NoError(t, err)
		require.Len(t, f.store.deleted, 1)
		assert.Contains(t, f.store.deleted[0], "handover-checklist.pdf")
	})
}
