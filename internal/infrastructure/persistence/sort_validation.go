package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// InvoiceSortFields contains allowed sort fields for lease invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"contract_id":    true,
	"customer_id":    true,
	"status":         true,
	"invoice_date":   true,
	"due_date":       true,
	"total_amount":   true,
	"paid_amount":    true,
	"posted_at":      true,
	"paid_at":        true,
}

// ReceiptSortFields contains allowed sort fields for lease receipts
var ReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"contract_id":    true,
	"customer_id":    true,
	"status":         true,
	"receipt_date":   true,
	"payment_method": true,
	"cheque_number":  true,
	"clearing_date":  true,
	"amount":         true,
	"validated_at":   true,
}

// TerminationSortFields contains allowed sort fields for contract terminations
var TerminationSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"termination_number": true,
	"contract_id":        true,
	"customer_id":        true,
	"status":             true,
	"termination_date":   true,
	"move_out_date":      true,
	"refund_amount":      true,
	"total_deductions":   true,
	"approval_status":    true,
}

// CurrencySortFields contains allowed sort fields for currencies
var CurrencySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"exchange_rate": true,
	"is_base":       true,
	"is_active":     true,
}

// CostCenterSortFields contains allowed sort fields for cost centers
var CostCenterSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"parent_id":  true,
	"is_active":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"contact_person": true,
	"email":          true,
	"is_active":      true,
}

// CompanySortFields contains allowed sort fields for companies
var CompanySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"legal_name": true,
	"is_active":  true,
}

// DeductionChargeSortFields contains allowed sort fields for deduction charges
var DeductionChargeSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"default_amount": true,
	"is_active":      true,
}

// EmailTemplateSortFields contains allowed sort fields for email templates
var EmailTemplateSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"trigger_event": true,
	"is_active":     true,
}
