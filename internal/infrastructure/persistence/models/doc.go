// Package models holds the GORM row types backing the repositories.
//
// Domain aggregates in internal/domain never see these types: each model
// carries the table mapping and column tags, and converts to and from its
// domain counterpart at the repository boundary. That keeps ORM concerns
// out of the billing, termination and masterdata packages entirely.
//
// File layout:
//   - base.go: embedded column sets (BaseModel, AuditedAggregateModel)
//   - billing.go: lease_invoices and lease_receipts rows
//   - termination.go: contract_terminations rows
//   - masterdata.go: currencies, cost centers, suppliers, companies,
//     deduction charges and email templates
//   - leasing.go: read-only rows over the leasing context tables
//     (contracts, customers, units, tax rates)
//   - outbox.go: outbox_events rows for event delivery
package models
