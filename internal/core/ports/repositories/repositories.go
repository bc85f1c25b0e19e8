// Package repositories defines the storage collaborator contracts. The
// engine requires create/read/update for ledgers, journals and transaction
// lines, aggregate sum queries, and an atomic multi-row apply with full
// rollback on any failure.
package repositories

import (
	"context"
	"time"

	"github.com/ledgerline/accounting/internal/core/domain"
)

// BalanceSums carries raw debit and credit totals in minor units. Soft
// deleted lines are always excluded.
type BalanceSums struct {
	Debit  int64
	Credit int64
}

// LedgerRepositoryFacade persists ledgers and aggregates across their
// member journals.
type LedgerRepositoryFacade interface {
	SaveLedger(ctx context.Context, ledger domain.Ledger) error
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	// SumTransactionsByLedgerID totals debit and credit over every
	// non-deleted transaction of every journal under the ledger.
	SumTransactionsByLedgerID(ctx context.Context, ledgerID string) (BalanceSums, error)
}

// JournalRepositoryFacade persists journals and answers the filtered sum
// queries behind the balance algorithms.
type JournalRepositoryFacade interface {
	SaveJournal(ctx context.Context, journal domain.Journal) error
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	// FindJournalByOwner returns the journal attached to the given owner
	// reference, or ErrNotFound.
	FindJournalByOwner(ctx context.Context, owner domain.ObjectRef) (*domain.Journal, error)
	AssignJournalToLedger(ctx context.Context, journalID string, ledgerID string) error
	UpdateJournalBalance(ctx context.Context, journalID string, balance int64, updatedAt time.Time) error
	SumTransactionsByJournalID(ctx context.Context, journalID string) (BalanceSums, error)
	// SumTransactionsOnOrBefore totals lines with post_date <= date (inclusive).
	SumTransactionsOnOrBefore(ctx context.Context, journalID string, date time.Time) (BalanceSums, error)
	// SumTransactionsBetween totals lines with start <= post_date <= end.
	SumTransactionsBetween(ctx context.Context, journalID string, start, end time.Time) (BalanceSums, error)
}

// TransactionRepositoryFacade persists journal transaction lines.
type TransactionRepositoryFacade interface {
	// SaveTransactions applies every line and refreshes the cached balance
	// of every affected journal inside one atomic scope: either all rows
	// become durable and all balances are updated, or nothing is.
	SaveTransactions(ctx context.Context, transactions []domain.JournalTransaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error)
	FindTransactionsByGroupID(ctx context.Context, groupID string) ([]domain.JournalTransaction, error)
	FindTransactionsByReference(ctx context.Context, journalID string, ref domain.ObjectRef) ([]domain.JournalTransaction, error)
	// UpdateTransactionReference attaches or replaces the weak external
	// reference on an existing line. Idempotent.
	UpdateTransactionReference(ctx context.Context, transactionID string, ref domain.ObjectRef, updatedAt time.Time) error
	// SoftDeleteTransaction marks the line deleted. The caller is
	// responsible for recomputing the owning journal's balance afterwards.
	SoftDeleteTransaction(ctx context.Context, transactionID string, deletedAt time.Time) error
}
