package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	t.Run("accepts asc and desc in any case", func(t *testing.T) {
		assert.Equal(t, "ASC", ValidateSortOrder("ASC"))
		assert.Equal(t, "ASC", ValidateSortOrder("asc"))
		assert.Equal(t, "ASC", ValidateSortOrder("  asc  "))
		assert.Equal(t, "DESC", ValidateSortOrder("DESC"))
		assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	})

	t.Run("everything else falls back to DESC", func(t *testing.T) {
		for _, input := range []string{"", "   ", "INVALID", "ascending", "ASC; DROP TABLE users;--"} {
			assert.Equal(t, "DESC", ValidateSortOrder(input), "input %q", input)
		}
	})
}

func TestValidateSortField(t *testing.T) {
	allowed := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}

	t.Run("allowlisted fields pass through", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", allowed, "created_at"))
		assert.Equal(t, "id", ValidateSortField("id", allowed, "created_at"))
		assert.Equal(t, "name", ValidateSortField("  name  ", allowed, "created_at"))
	})

	t.Run("unknown fields fall back to the default", func(t *testing.T) {
		for _, input := range []string{
			"",
			"   ",
			"balance_due", // real column, not in this allowlist
			"NAME",        // matching is case sensitive
			"name users",
			"name'--",
		} {
			assert.Equal(t, "created_at", ValidateSortField(input, allowed, "created_at"), "input %q", input)
		}
	})

	t.Run("default may be empty", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name", allowed, ""))
		assert.Empty(t, ValidateSortField("nope", allowed, ""))
	})
}

func TestSortFieldAllowlists(t *testing.T) {
	allowlists := map[string]map[string]bool{
		"InvoiceSortFields":         InvoiceSortFields,
		"ReceiptSortFields":         ReceiptSortFields,
		"TerminationSortFields":     TerminationSortFields,
		"CurrencySortFields":        CurrencySortFields,
		"CostCenterSortFields":      CostCenterSortFields,
		"SupplierSortFields":        SupplierSortFields,
		"CompanySortFields":         CompanySortFields,
		"DeductionChargeSortFields": DeductionChargeSortFields,
		"EmailTemplateSortFields":   EmailTemplateSortFields,
	}

	// Every aggregate table carries the audited base columns, so every
	// allowlist must accept them.
	for name, allowlist := range allowlists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, allowlist[field], "%s should allow %q", name, field)
			}
			assert.Greater(t, len(allowlist), 3)
		})
	}
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"id; DROP TABLE lease_invoices;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE lease_invoices;--",
		"id UNION SELECT * FROM lease_receipts",
		"id ORDER BY 1",
		"id, (SELECT secret FROM jwt_keys)",
		"CASE WHEN 1=1 THEN id ELSE name END",
		"id/**/;DROP TABLE lease_invoices",
		"id\n; DROP TABLE lease_invoices",
		"id\t; DROP TABLE lease_invoices",
		"' OR ''='",
	}

	for _, payload := range payloads {
		label := payload[:min(len(payload), 30)]
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, "created_at", ValidateSortField(payload, InvoiceSortFields, "created_at"))
			assert.Equal(t, "DESC", ValidateSortOrder(payload))
		})
	}
}
