package mapping

import (
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/models"
)

// ToModelLedger converts a domain Ledger to its row shape.
func ToModelLedger(d domain.Ledger) models.Ledger {
	return models.Ledger{
		LedgerID:    d.LedgerID,
		Name:        d.Name,
		Type:        string(d.Type),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedger converts a Ledger row to the domain shape.
func ToDomainLedger(m models.Ledger) domain.Ledger {
	return domain.Ledger{
		LedgerID:    m.LedgerID,
		Name:        m.Name,
		Type:        domain.LedgerType(m.Type),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
