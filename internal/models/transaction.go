package models

import "time"

// Transaction is the database row shape for the
// accounting_journal_transactions table. Debit and credit are nullable;
// a CHECK constraint enforces that exactly one of them is positive.
type Transaction struct {
	TransactionID      string
	JournalID          string
	Debit              *int64
	Credit             *int64
	Currency           string
	Memo               *string
	PostDate           time.Time
	Tags               []string
	RefType            *string
	RefID              *int64
	TransactionGroupID *string
	DeletedAt          *time.Time
	AuditFields
}
