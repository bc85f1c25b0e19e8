package mapping

import (
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/models"
)

// ToModelTransaction converts a domain JournalTransaction to its row shape.
func ToModelTransaction(d domain.JournalTransaction) models.Transaction {
	m := models.Transaction{
		TransactionID:      d.TransactionID,
		JournalID:          d.JournalID,
		Debit:              d.Debit,
		Credit:             d.Credit,
		Currency:           d.Currency,
		PostDate:           d.PostDate,
		Tags:               d.Tags,
		TransactionGroupID: d.TransactionGroupID,
		DeletedAt:          d.DeletedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.Memo != "" {
		memo := d.Memo
		m.Memo = &memo
	}
	if d.Ref != nil {
		refType := d.Ref.Type
		refID := d.Ref.ID
		m.RefType = &refType
		m.RefID = &refID
	}
	return m
}

// ToDomainTransaction converts a Transaction row to the domain shape.
func ToDomainTransaction(m models.Transaction) domain.JournalTransaction {
	d := domain.JournalTransaction{
		TransactionID:      m.TransactionID,
		JournalID:          m.JournalID,
		Debit:              m.Debit,
		Credit:             m.Credit,
		Currency:           m.Currency,
		PostDate:           m.PostDate,
		Tags:               m.Tags,
		TransactionGroupID: m.TransactionGroupID,
		DeletedAt:          m.DeletedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.Memo != nil {
		d.Memo = *m.Memo
	}
	if m.RefType != nil && m.RefID != nil {
		d.Ref = &domain.ObjectRef{Type: *m.RefType, ID: *m.RefID}
	}
	return d
}

// ToDomainTransactionSlice converts a slice of Transaction rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.JournalTransaction {
	ds := make([]domain.JournalTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
