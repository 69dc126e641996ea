package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	AED Currency = "AED" // UAE Dirham (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	SAR Currency = "SAR" // Saudi Riyal
	OMR Currency = "OMR" // Omani Rial
)

// DefaultCurrency applies wherever a currency code is absent.
const DefaultCurrency = AED

// Fixed scales used throughout the domain. Monetary totals carry two
// fractional digits; currency exchange rates carry four.
const (
	AmountScale int32 = 2
	RateScale   int32 = 4
)

// Money is an immutable amount in a single currency. Every operation
// returns a fresh value, and arithmetic stays in exact decimals; amounts
// never pass through binary floats.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// with derives a Money in the same currency holding a new amount.
func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

// sameCurrency guards cross-currency arithmetic.
func (m Money) sameCurrency(op string, other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

// NewMoney builds a Money, rejecting an empty currency code.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal string into Money.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// MoneyIn builds Money in the given currency, falling back to the system
// default when the code is blank. Used when rehydrating aggregates whose
// currency has already been validated.
func MoneyIn(amount decimal.Decimal, currency Currency) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// NewMoneyAED builds Money in the default dirham currency.
func NewMoneyAED(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: AED}
}

// NewMoneyAEDFromFloat converts a float into dirham Money.
func NewMoneyAEDFromFloat(amount float64) Money {
	return NewMoneyAED(decimal.NewFromFloat(amount))
}

// NewMoneyAEDFromString parses a decimal string into dirham Money.
func NewMoneyAEDFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyAED(d), nil
}

// NewNonNegativeMoney rejects negative amounts, for fields like charge
// amounts and deposits where a negative value is meaningless.
func NewNonNegativeMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount cannot be negative: %s", amount.String())
	}
	return NewMoney(amount, currency)
}

// Zero is the zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroAED is the zero amount in dirhams.
func ZeroAED() Money {
	return Zero(AED)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency("add", other); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

// MustAdd is Add for callers that have already checked currencies.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract takes the difference of two amounts of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency("subtract", other); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Sub(other.amount)), nil
}

// MustSubtract is Subtract for callers that have already checked currencies.
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply scales the amount by a decimal factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.with(m.amount.Mul(factor))
}

// PercentageOf returns rate percent of this amount, rounded to the amount
// scale. This is the tax computation used for invoices, additional charge
// lines and termination deductions: amount * rate / 100.
func (m Money) PercentageOf(rate decimal.Decimal) Money {
	return m.with(m.amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(AmountScale))
}

// Negate flips the sign.
func (m Money) Negate() Money {
	return m.with(m.amount.Neg())
}

// Abs strips the sign.
func (m Money) Abs() Money {
	return m.with(m.amount.Abs())
}

// Round rounds to the given number of decimal places.
func (m Money) Round(places int32) Money {
	return m.with(m.amount.Round(places))
}

// RoundAmount rounds to the monetary total scale.
func (m Money) RoundAmount() Money {
	return m.Round(AmountScale)
}

// Equals reports whether amount and currency both match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan compares amounts of the same currency.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency("compare", other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan compares amounts of the same currency.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency("compare", other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String renders the amount at display scale followed by the currency.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(AmountScale), m.currency)
}

// StringFixed renders the bare amount with the given decimal places.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Float64 converts for display only; precision may be lost.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount string: %w", err)
	}
	if raw.Currency == "" {
		return errors.New("currency cannot be empty")
	}
	m.amount = d
	m.currency = raw.Currency
	return nil
}
