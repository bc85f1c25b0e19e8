package domain

// LedgerType defines the fundamental accounting classification of a ledger.
// Every type has a normal balance on exactly one side; the two Is*Normal
// methods partition the full set and must stay exhaustive if a type is ever
// added.
type LedgerType string

const (
	Asset     LedgerType = "asset"
	Liability LedgerType = "liability"
	Equity    LedgerType = "equity"
	Revenue   LedgerType = "revenue"
	Expense   LedgerType = "expense"
	Gain      LedgerType = "gain"
	Loss      LedgerType = "loss"
)

// LedgerTypeValues returns all valid ledger types.
func LedgerTypeValues() []LedgerType {
	return []LedgerType{Asset, Liability, Equity, Revenue, Expense, Gain, Loss}
}

// Valid reports whether t is one of the known ledger types.
func (t LedgerType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, Gain, Loss:
		return true
	}
	return false
}

// IsDebitNormal reports whether the type increases with debits.
func (t LedgerType) IsDebitNormal() bool {
	switch t {
	case Asset, Expense, Loss:
		return true
	}
	return false
}

// IsCreditNormal reports whether the type increases with credits.
func (t LedgerType) IsCreditNormal() bool {
	switch t {
	case Liability, Equity, Revenue, Gain:
		return true
	}
	return false
}

// Ledger is a named grouping of journals sharing one accounting
// classification. It stores no balance of its own; ledger balances are
// always derived from member journals' transactions.
type Ledger struct {
	LedgerID string     `json:"ledgerID"` // Primary Key (UUID)
	Name     string     `json:"name"`     // Non-empty display name
	Type     LedgerType `json:"type"`     // Immutable after creation
	AuditFields
}
