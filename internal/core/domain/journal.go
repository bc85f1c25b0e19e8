package domain

// ObjectRef is a weak reference to an external business object, recorded as
// a type tag plus an identifier. The engine never loads or mutates the
// referenced object; resolution happens through an injected resolver.
type ObjectRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Journal is an individual account. It accumulates transaction lines and
// caches a running balance in minor units of its currency.
//
// The cached balance equals sum(debit) - sum(credit) over all non-deleted
// transactions at any quiescent point; it is written only by a successful
// posting, by ResetCurrentBalances, or by the delete-triggered recompute.
type Journal struct {
	JournalID string  `json:"journalID"`          // Primary Key (UUID)
	LedgerID  *string `json:"ledgerID,omitempty"` // Nullable FK -> Ledger
	Currency  string  `json:"currency"`           // Fixed at creation
	Balance   int64   `json:"balance"`            // Cached, minor units
	OwnerType string  `json:"ownerType"`          // External owner type tag
	OwnerID   int64   `json:"ownerID"`            // External owner id
	AuditFields
}

// Owner returns the journal's owner back-reference.
func (j Journal) Owner() ObjectRef {
	return ObjectRef{Type: j.OwnerType, ID: j.OwnerID}
}
