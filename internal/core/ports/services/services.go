// Package services defines the facade interfaces implemented by the core
// services. Callers and tests depend on these, not on the concrete types.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/dto"
)

// LedgerSvcFacade classifies accounts and derives polarity-applied balances.
type LedgerSvcFacade interface {
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest) (*domain.Ledger, error)
	GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	// GetCurrentBalance aggregates raw debit/credit totals across the
	// ledger's journals and applies the type's polarity rule. The currency
	// argument labels the result; it is not validated against member
	// journals.
	GetCurrentBalance(ctx context.Context, ledgerID string, currency string) (domain.Money, error)
	GetCurrentBalanceInDollars(ctx context.Context, ledgerID string) (decimal.Decimal, error)
}

// JournalSvcFacade owns journal lifecycle, posting primitives and balance
// queries.
type JournalSvcFacade interface {
	InitJournal(ctx context.Context, req dto.InitJournalRequest) (*domain.Journal, error)
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	AssignToLedger(ctx context.Context, journalID string, ledgerID string) error

	// Credit and Debit post a single line and refresh the cached balance.
	// An amount with an empty currency label assumes the journal's own
	// currency. postDate defaults to the clock's now; groupID is optional.
	Credit(ctx context.Context, journalID string, amount domain.Money, memo string, postDate *time.Time, groupID *string) (*domain.JournalTransaction, error)
	Debit(ctx context.Context, journalID string, amount domain.Money, memo string, postDate *time.Time, groupID *string) (*domain.JournalTransaction, error)
	CreditDollars(ctx context.Context, journalID string, dollars decimal.Decimal, memo string, postDate *time.Time) (*domain.JournalTransaction, error)
	DebitDollars(ctx context.Context, journalID string, dollars decimal.Decimal, memo string, postDate *time.Time) (*domain.JournalTransaction, error)

	GetBalance(ctx context.Context, journalID string) (domain.Money, error)
	GetBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error)
	GetDebitBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error)
	GetCreditBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error)
	GetCurrentBalance(ctx context.Context, journalID string) (domain.Money, error)
	GetBalanceInDollars(ctx context.Context, journalID string) (decimal.Decimal, error)
	GetCurrentBalanceInDollars(ctx context.Context, journalID string) (decimal.Decimal, error)
	GetDollarsDebitedOn(ctx context.Context, journalID string, date time.Time) (decimal.Decimal, error)
	GetDollarsCreditedOn(ctx context.Context, journalID string, date time.Time) (decimal.Decimal, error)
	GetDollarsDebitedToday(ctx context.Context, journalID string) (decimal.Decimal, error)
	GetDollarsCreditedToday(ctx context.Context, journalID string) (decimal.Decimal, error)

	ResetCurrentBalances(ctx context.Context, journalID string) (domain.Money, error)

	TransactionsReferencingObject(ctx context.Context, journalID string, ref domain.ObjectRef) ([]domain.JournalTransaction, error)
	SetReference(ctx context.Context, transactionID string, ref domain.ObjectRef) error
	GetReferencedObject(ctx context.Context, transactionID string) (any, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
}
