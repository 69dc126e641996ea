package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// newMockInvoiceRepository creates a GormLeaseInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormLeaseInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormLeaseInvoiceRepository(gormDB), mock, mockDB
}

func TestNewGormLeaseInvoiceRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormLeaseInvoiceRepository_FindByID(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		contractID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "invoice_number", "contract_id", "currency_code", "status", "total_amount", "paid_amount"}).
			AddRow(invoiceID, 3, "INV-2026-0001", contractID, "AED", "POSTED", decimal.RequireFromString("1050.00"), decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "lease_invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.NoError(t, err)
		assert.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, "INV-2026-0001", invoice.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusPosted, invoice.Status)
		assert.Equal(t, 3, invoice.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for non-existent invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "lease_invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, invoice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeaseInvoiceRepository_FindByInvoiceNumber(t *testing.T) {
	t.Run("uppercases the document number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "status"}).
			AddRow(invoiceID, "INV-2026-0042", "DRAFT")

		mock.ExpectQuery(`SELECT \* FROM "lease_invoices" WHERE invoice_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("INV-2026-0042", 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByInvoiceNumber(context.Background(), "inv-2026-0042")

		assert.NoError(t, err)
		assert.Equal(t, "INV-2026-0042", invoice.InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeaseInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoice := &billing.LeaseInvoice{}
		invoice.ID = uuid.New()
		invoice.Version = 2
		invoice.InvoiceNumber = "INV-2026-0001"
		invoice.Status = billing.InvoiceStatusPosted
		invoice.CreatedBy = uuid.New()

		mock.ExpectExec(`UPDATE "lease_invoices" SET .* WHERE \(id = .* AND version = .*\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), invoice, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when no row matches the expected version", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoice := &billing.LeaseInvoice{}
		invoice.ID = uuid.New()
		invoice.Version = 2
		invoice.InvoiceNumber = "INV-2026-0001"
		invoice.Status = billing.InvoiceStatusPosted
		invoice.CreatedBy = uuid.New()

		mock.ExpectExec(`UPDATE "lease_invoices" SET .* WHERE \(id = .* AND version = .*\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), invoice, 1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeaseInvoiceRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "lease_invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), invoiceID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeaseInvoiceRepository_NextInvoiceNumber(t *testing.T) {
	year := time.Now().Year()

	t.Run("starts at one for an empty year", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"invoice_number"})

		mock.ExpectQuery(`SELECT "invoice_number" FROM "lease_invoices" WHERE invoice_number LIKE .*`).
			WillReturnRows(rows)

		number, err := repo.NextInvoiceNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-0001", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments the highest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"invoice_number"}).
			AddRow(fmt.Sprintf("INV-%d-0041", year))

		mock.ExpectQuery(`SELECT "invoice_number" FROM "lease_invoices" WHERE invoice_number LIKE .*`).
			WillReturnRows(rows)

		number, err := repo.NextInvoiceNumber(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-0042", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
