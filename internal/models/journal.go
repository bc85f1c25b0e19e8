package models

// Journal is the database row shape for the accounting_journals table.
type Journal struct {
	JournalID string
	LedgerID  *string
	Currency  string
	Balance   int64
	OwnerType string
	OwnerID   int64
	AuditFields
}
