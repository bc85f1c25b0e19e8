package dto

// InitJournalRequest carries the caller's input for initializing a journal
// for an external owner. CurrencyCode may be empty, in which case the
// configured default currency is used.
type InitJournalRequest struct {
	OwnerType    string  `json:"ownerType"`
	OwnerID      int64   `json:"ownerID"`
	CurrencyCode string  `json:"currencyCode,omitempty"`
	LedgerID     *string `json:"ledgerID,omitempty"`
}
