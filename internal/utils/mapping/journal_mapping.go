package mapping

import (
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/models"
)

// ToModelJournal converts a domain Journal to its row shape.
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:   d.JournalID,
		LedgerID:    d.LedgerID,
		Currency:    d.Currency,
		Balance:     d.Balance,
		OwnerType:   d.OwnerType,
		OwnerID:     d.OwnerID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a Journal row to the domain shape.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:   m.JournalID,
		LedgerID:    m.LedgerID,
		Currency:    m.Currency,
		Balance:     m.Balance,
		OwnerType:   m.OwnerType,
		OwnerID:     m.OwnerID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
