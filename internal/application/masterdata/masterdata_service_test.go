package masterdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// ===================== In-memory fakes =====================

type fakeCurrencyRepo struct {
	currencies map[string]*masterdata.Currency
	lookups    int
}

func newFakeCurrencyRepo() *fakeCurrencyRepo {
	return &fakeCurrencyRepo{currencies: make(map[string]*masterdata.Currency)}
}

func (r *fakeCurrencyRepo) FindByID(_ context.Context, id uuid.UUID) (*masterdata.Currency, error) {
	for _, c := range r.currencies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCurrencyRepo) FindAll(context.Context, shared.Filter) ([]masterdata.Currency, error) {
	return nil, nil
}

func (r *fakeCurrencyRepo) Save(_ context.Context, c *masterdata.Currency) error {
	r.currencies[c.Code] = c
	return nil
}

func (r *fakeCurrencyRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeCurrencyRepo) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(r.currencies)), nil
}

func (r *fakeCurrencyRepo) FindByCode(_ context.Context, code string) (*masterdata.Currency, error) {
	r.lookups++
	return r.currencies[code], nil
}

func (r *fakeCurrencyRepo) FindActive(_ context.Context) ([]masterdata.Currency, error) {
	var out []masterdata.Currency
	for _, c := range r.currencies {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCurrencyRepo) FindBase(_ context.Context) (*masterdata.Currency, error) {
	for _, c := range r.currencies {
		if c.IsBase {
			return c, nil
		}
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	templates map[string]*masterdata.EmailTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*masterdata.EmailTemplate)}
}

func (r *fakeTemplateRepo) FindByID(context.Context, uuid.UUID) (*masterdata.EmailTemplate, error) {
	return nil, nil
}
func (r *fakeTemplateRepo) FindAll(context.Context, shared.Filter) ([]masterdata.EmailTemplate, error) {
	return nil, nil
}
func (r *fakeTemplateRepo) Save(_ context.Context, et *masterdata.EmailTemplate) error {
	r.templates[et.Code] = et
	return nil
}
func (r *fakeTemplateRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (r *fakeTemplateRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (r *fakeTemplateRepo) FindByCode(_ context.Context, code string) (*masterdata.EmailTemplate, error) {
	return r.templates[code], nil
}
func (r *fakeTemplateRepo) FindByTrigger(_ context.Context, trigger string) (*masterdata.EmailTemplate, error) {
	for _, et := range r.templates {
		if et.TriggerEvent == trigger {
			return et, nil
		}
	}
	return nil, nil
}
func (r *fakeTemplateRepo) FindActive(_ context.Context) ([]masterdata.EmailTemplate, error) {
	var out []masterdata.EmailTemplate
	for _, et := range r.templates {
		out = append(out, *et)
	}
	return out, nil
}

type stubCostCenterRepo struct{}

func (stubCostCenterRepo) FindByID(context.Context, uuid.UUID) (*masterdata.CostCenter, error) {
	return nil, nil
}
func (stubCostCenterRepo) FindAll(context.Context, shared.Filter) ([]masterdata.CostCenter, error) {
	return nil, nil
}
func (stubCostCenterRepo) Save(context.Context, *masterdata.CostCenter) error  { return nil }
func (stubCostCenterRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (stubCostCenterRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (stubCostCenterRepo) FindByCode(context.Context, string) (*masterdata.CostCenter, error) {
	return nil, nil
}
func (stubCostCenterRepo) FindActive(context.Context) ([]masterdata.CostCenter, error) {
	return nil, nil
}
func (stubCostCenterRepo) FindChildren(context.Context, uuid.UUID) ([]masterdata.CostCenter, error) {
	return nil, nil
}

type stubSupplierRepo struct{}

func (stubSupplierRepo) FindByID(context.Context, uuid.UUID) (*masterdata.Supplier, error) {
	return nil, nil
}
func (stubSupplierRepo) FindAll(context.Context, shared.Filter) ([]masterdata.Supplier, error) {
	return nil, nil
}
func (stubSupplierRepo) Save(context.Context, *masterdata.Supplier) error    { return nil }
func (stubSupplierRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (stubSupplierRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (stubSupplierRepo) FindByCode(context.Context, string) (*masterdata.Supplier, error) {
	return nil, nil
}
func (stubSupplierRepo) FindActive(context.Context) ([]masterdata.Supplier, error) {
	return nil, nil
}

type stubCompanyRepo struct{}

func (stubCompanyRepo) FindByID(context.Context, uuid.UUID) (*masterdata.Company, error) {
	return nil, nil
}
func (stubCompanyRepo) FindAll(context.Context, shared.Filter) ([]masterdata.Company, error) {
	return nil, nil
}
func (stubCompanyRepo) Save(context.Context, *masterdata.Company) error     { return nil }
func (stubCompanyRepo) Delete(context.Context, uuid.UUID) error             { return nil }
func (stubCompanyRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (stubCompanyRepo) FindByCode(context.Context, string) (*masterdata.Company, error) {
	return nil, nil
}
func (stubCompanyRepo) FindActive(context.Context) ([]masterdata.Company, error) {
	return nil, nil
}

type stubChargeRepo struct{}

func (stubChargeRepo) FindByID(context.Context, uuid.UUID) (*masterdata.DeductionCharge, error) {
	return nil, nil
}
func (stubChargeRepo) FindAll(context.Context, shared.Filter) ([]masterdata.DeductionCharge, error) {
	return nil, nil
}
func (stubChargeRepo) Save(context.Context, *masterdata.DeductionCharge) error { return nil }
func (stubChargeRepo) Delete(context.Context, uuid.UUID) error                 { return nil }
func (stubChargeRepo) Count(context.Context, shared.Filter) (int64, error)     { return 0, nil }
func (stubChargeRepo) FindByCode(context.Context, string) (*masterdata.DeductionCharge, error) {
	return nil, nil
}
func (stubChargeRepo) FindActive(context.Context) ([]masterdata.DeductionCharge, error) {
	return nil, nil
}

type fakeRateCache struct {
	rates       map[string]decimal.Decimal
	sets        int
	invalidated []string
	fail        bool
}

func newFakeRateCache() *fakeRateCache {
	return &fakeRateCache{rates: make(map[string]decimal.Decimal)}
}

func (c *fakeRateCache) GetRate(_ context.Context, code string) (decimal.Decimal, bool, error) {
	if c.fail {
		return decimal.Zero, false, errors.New("redis connection refused")
	}
	rate, ok := c.rates[code]
	return rate, ok, nil
}

func (c *fakeRateCache) SetRate(_ context.Context, code string, rate decimal.Decimal, _ time.Duration) error {
	if c.fail {
		return errors.New("redis connection refused")
	}
	c.rates[code] = rate
	c.sets++
	return nil
}

func (c *fakeRateCache) Invalidate(_ context.Context, code string) error {
	delete(c.rates, code)
	c.invalidated = append(c.invalidated, code)
	return nil
}

// ===================== Fixtures =====================

func newMasterDataFixture() (*MasterDataService, *fakeCurrencyRepo, *fakeTemplateRepo, *fakeRateCache) {
	currencyRepo := newFakeCurrencyRepo()
	templateRepo := newFakeTemplateRepo()
	cache := newFakeRateCache()
	svc := NewMasterDataService(
		currencyRepo,
		stubCostCenterRepo{},
		stubSupplierRepo{},
		stubCompanyRepo{},
		stubChargeRepo{},
		templateRepo,
		cache,
		zap.NewNop(),
	)
	return svc, currencyRepo, templateRepo, cache
}

// ===================== Tests =====================

func TestMasterDataService_Currencies(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("create and duplicate rejection", func(t *testing.T) {
		svc, _, _, _ := newMasterDataFixture()

		resp, err := svc.CreateCurrency(ctx, CreateCurrencyRequest{
			Code: "USD", Name: "US Dollar", Symbol: "$",
			ExchangeRate: decimal.RequireFromString("3.6725"),
		}, actor)
		require.NoError(t, err)
		assert.Equal(t, "USD", resp.Code)

		_, err = svc.CreateCurrency(ctx, CreateCurrencyRequest{
			Code: "USD", Name: "US Dollar",
			ExchangeRate: decimal.RequireFromString("3.67"),
		}, actor)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rate update invalidates the cache", func(t *testing.T) {
		svc, _, _, cache := newMasterDataFixture()

		_, err := svc.CreateCurrency(ctx, CreateCurrencyRequest{
			Code: "EUR", Name: "Euro",
			ExchangeRate: decimal.RequireFromString("3.98"),
		}, actor)
		require.NoError(t, err)

		// warm the cache
		_, err = svc.GetExchangeRate(ctx, "EUR")
		require.NoError(t, err)
		require.Equal(t, 1, cache.sets)

		resp, err := svc.UpdateExchangeRate(ctx, "EUR", UpdateExchangeRateRequest{
			ExchangeRate: decimal.RequireFromString("4.02"),
		}, actor)
		require.NoError(t, err)
		assert.True(t, resp.ExchangeRate.Equal(decimal.RequireFromString("4.02")))
		assert.Equal(t, []string{"EUR"}, cache.invalidated)

		rate, err := svc.GetExchangeRate(ctx, "EUR")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("4.02")))
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, repo, _, _ := newMasterDataFixture()

		_, err := svc.CreateCurrency(ctx, CreateCurrencyRequest{
			Code: "GBP", Name: "Pound Sterling",
			ExchangeRate: decimal.RequireFromString("4.65"),
		}, actor)
		require.NoError(t, err)

		_, err = svc.GetExchangeRate(ctx, "GBP")
		require.NoError(t, err)
		lookupsAfterMiss := repo.lookups

		_, err = svc.GetExchangeRate(ctx, "GBP")
		require.NoError(t, err)
		assert.Equal(t, lookupsAfterMiss, repo.lookups)
	})

	t.Run("cache failure degrades to the repository", func(t *testing.T) {
		svc, _, _, cache := newMasterDataFixture()

		_, err := svc.CreateCurrency(ctx, CreateCurrencyRequest{
			Code: "INR", Name: "Indian Rupee",
			ExchangeRate: decimal.RequireFromString("0.0441"),
		}, actor)
		require.NoError(t, err)

		cache.fail = true
		rate, err := svc.GetExchangeRate(ctx, "INR")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("0.0441")))
	})

	t.Run("unknown currency rate lookup fails", func(t *testing.T) {
		svc, _, _, _ := newMasterDataFixture()

		_, err := svc.GetExchangeRate(ctx, "XXX")
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})
}

func TestMasterDataService_EmailTemplates(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("upsert creates then updates in place", func(t *testing.T) {
		svc, _, repo, _ := newMasterDataFixture()

		created, err := svc.UpsertEmailTemplate(ctx, UpsertEmailTemplateRequest{
			Code:         "invoice-posted",
			TriggerEvent: masterdata.TriggerInvoicePosted,
			Subject:      "Invoice {{number}}",
			Body:         "Dear {{customer}}, invoice {{number}} for {{amount}} is due.",
		}, actor)
		require.NoError(t, err)

		updated, err := svc.UpsertEmailTemplate(ctx, UpsertEmailTemplateRequest{
			Code:         "invoice-posted",
			TriggerEvent: masterdata.TriggerInvoicePosted,
			Subject:      "Your invoice {{number}}",
			Body:         "Dear {{customer}}, invoice {{number}} for {{amount}} is now due.",
		}, actor)
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Your invoice {{number}}", updated.Subject)
		assert.Len(t, repo.templates, 1)
	})
}
