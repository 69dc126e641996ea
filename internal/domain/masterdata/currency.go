package masterdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Currency is a reference currency with its exchange rate against the base
// currency. Rates carry four fractional digits.
type Currency struct {
	shared.AuditedAggregateRoot
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsBase       bool            `json:"is_base"`
	IsActive     bool            `json:"is_active"`
}

// NewCurrency creates a currency with its rate against the base currency
func NewCurrency(code, name, symbol string, exchangeRate decimal.Decimal, createdBy uuid.UUID) (*Currency, error) {
	if len(code) != 3 {
		return nil, shared.NewValidationError("Currency code must be 3 characters")
	}
	if name == "" {
		return nil, shared.NewValidationError("Currency name cannot be empty")
	}
	if !exchangeRate.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Exchange rate must be positive")
	}

	return &Currency{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		Name:                 name,
		Symbol:               symbol,
		ExchangeRate:         exchangeRate.Round(valueobject.RateScale),
		IsActive:             true,
	}, nil
}

// UpdateRate sets a new exchange rate, rounded to rate scale
func (c *Currency) UpdateRate(rate decimal.Decimal, actor uuid.UUID) error {
	if c.IsBase {
		return shared.NewValidationError("Base currency rate is fixed at 1")
	}
	if !rate.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Exchange rate must be positive")
	}

	c.ExchangeRate = rate.Round(valueobject.RateScale)
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// MarkAsBase pins this currency as the base with rate 1
func (c *Currency) MarkAsBase(actor uuid.UUID) {
	c.IsBase = true
	c.ExchangeRate = decimal.NewFromInt(1)
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate enables the currency for use
func (c *Currency) Activate(actor uuid.UUID) {
	c.IsActive = true
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate disables the currency; the base currency cannot be disabled
func (c *Currency) Deactivate(actor uuid.UUID) error {
	if c.IsBase {
		return shared.NewValidationError("Base currency cannot be deactivated")
	}
	c.IsActive = false
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Convert converts an amount in this currency to the base currency
func (c *Currency) Convert(amount valueobject.Money) (valueobject.Money, error) {
	if string(amount.Currency()) != c.Code {
		return valueobject.Money{}, shared.NewValidationError(
			fmt.Sprintf("Amount currency %s does not match %s", amount.Currency(), c.Code))
	}
	converted := amount.Amount().Mul(c.ExchangeRate).Round(valueobject.AmountScale)
	return valueobject.MoneyIn(converted, valueobject.DefaultCurrency), nil
}

// CurrencyRepository provides persistence for currencies
type CurrencyRepository interface {
	shared.Repository[Currency]
	FindByCode(ctx context.Context, code string) (*Currency, error)
	FindActive(ctx context.Context) ([]Currency, error)
	FindBase(ctx context.Context) (*Currency, error)
}
