package domain

import (
	"errors"
	"time"
)

// TransactionType names the side of a journal transaction line.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// ParseTransactionType validates a caller-supplied method string. Only the
// exact strings "debit" and "credit" are accepted.
func ParseTransactionType(method string) (TransactionType, bool) {
	switch TransactionType(method) {
	case Debit, Credit:
		return TransactionType(method), true
	}
	return "", false
}

// ErrDebitCreditExclusive is returned by Validate when a transaction line
// does not carry exactly one positive amount.
var ErrDebitCreditExclusive = errors.New("journal transaction must carry exactly one of debit or credit as a positive amount")

// JournalTransaction is one immutable signed line item posted against
// exactly one journal. Exactly one of Debit/Credit is a positive amount.
// Once committed a line never changes except for soft deletion and for
// attaching an external object reference.
type JournalTransaction struct {
	TransactionID      string     `json:"transactionID"`                // Primary Key (UUID)
	JournalID          string     `json:"journalID"`                    // FK -> Journal (Not Null)
	Debit              *int64     `json:"debit,omitempty"`              // Minor units, XOR with Credit
	Credit             *int64     `json:"credit,omitempty"`             // Minor units, XOR with Debit
	Currency           string     `json:"currency"`                     // Descriptive label
	Memo               string     `json:"memo,omitempty"`               // Optional text
	PostDate           time.Time  `json:"postDate"`                     // Defaults to commit time
	Tags               []string   `json:"tags,omitempty"`               // Optional ordered labels
	Ref                *ObjectRef `json:"ref,omitempty"`                // Weak external reference
	TransactionGroupID *string    `json:"transactionGroupID,omitempty"` // Shared by one commit
	DeletedAt          *time.Time `json:"deletedAt,omitempty"`          // Soft delete marker
	AuditFields
}

// Validate enforces the debit-XOR-credit invariant at the storage boundary:
// exactly one of the two amount fields is a positive integer, the other is
// absent or zero.
func (t JournalTransaction) Validate() error {
	debit := t.Debit != nil && *t.Debit > 0
	credit := t.Credit != nil && *t.Credit > 0
	if debit == credit {
		return ErrDebitCreditExclusive
	}
	if t.Debit != nil && *t.Debit < 0 || t.Credit != nil && *t.Credit < 0 {
		return ErrDebitCreditExclusive
	}
	return nil
}

// Amount returns the line's single positive amount and its side.
func (t JournalTransaction) Amount() (int64, TransactionType) {
	if t.Debit != nil && *t.Debit != 0 {
		return *t.Debit, Debit
	}
	if t.Credit != nil {
		return *t.Credit, Credit
	}
	return 0, Debit
}

// IsDeleted reports whether the line has been soft deleted.
func (t JournalTransaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// ReferencesObject reports whether the line carries a matching external
// reference.
func (t JournalTransaction) ReferencesObject(ref ObjectRef) bool {
	return t.Ref != nil && t.Ref.Type == ref.Type && t.Ref.ID == ref.ID
}
