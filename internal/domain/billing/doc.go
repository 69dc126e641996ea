// Package billing provides domain models for lease invoicing and receipting.
//
// This package implements the billing bounded context, which is responsible for:
//   - Issuing lease invoices against contracts (rent, charges, tax, discounts)
//   - Tracking invoice payment state and outstanding balances
//   - Recording customer receipts and allocating them across open invoices
//
// Key Aggregates:
//   - LeaseInvoice: An invoice raised against a lease contract
//   - LeaseReceipt: A payment received from a customer
//
// Domain Services:
//   - AllocationService: Coordinates allocating receipt amounts to invoices
//     so that conservation holds on both sides of the allocation
//
// The billing domain integrates with:
//   - Leasing context: Read-only, through the acl subpackage gateways
//   - Master data: Currency and cost center references
package billing
