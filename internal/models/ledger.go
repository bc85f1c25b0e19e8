package models

// Ledger is the database row shape for the accounting_ledgers table.
type Ledger struct {
	LedgerID string
	Name     string
	Type     string
	AuditFields
}
