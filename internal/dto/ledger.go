package dto

import "github.com/ledgerline/accounting/internal/core/domain"

// CreateLedgerRequest carries the caller's input for creating a ledger.
type CreateLedgerRequest struct {
	Name string            `json:"name"`
	Type domain.LedgerType `json:"type"`
}
