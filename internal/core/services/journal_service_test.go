package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/core/ports"
	"github.com/ledgerline/accounting/internal/core/services"
	"github.com/ledgerline/accounting/internal/dto"
	"github.com/ledgerline/accounting/internal/repositories/database/memory"
)

// stubResolver resolves one known reference and fails on everything else.
type stubResolver struct {
	known domain.ObjectRef
	value any
}

func (r *stubResolver) ResolveReference(_ context.Context, ref domain.ObjectRef) (any, error) {
	if ref == r.known {
		return r.value, nil
	}
	return nil, errors.New("object not found")
}

type JournalServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	svcs     *services.Container
	resolver *stubResolver

	journalID string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.resolver = &stubResolver{
		known: domain.ObjectRef{Type: "invoice", ID: 42},
		value: map[string]any{"number": "INV-42"},
	}
	suite.svcs = services.NewContainer(
		suite.store, suite.store, suite.store,
		suite.resolver,
		"USD",
		ports.ClockFunc(func() time.Time { return fixedTime }),
		sequentialIDs(),
	)

	journal, err := suite.svcs.Journal.InitJournal(context.Background(), dto.InitJournalRequest{OwnerType: "user", OwnerID: 7})
	suite.Require().NoError(err)
	suite.journalID = journal.JournalID
}

func (suite *JournalServiceTestSuite) TestInitJournal_DefaultsAndBalance() {
	ctx := context.Background()

	journal, err := suite.svcs.Journal.GetJournalByID(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal("USD", journal.Currency)
	suite.Equal(int64(0), journal.Balance)
	suite.Equal("user", journal.OwnerType)
	suite.Equal(int64(7), journal.OwnerID)
}

func (suite *JournalServiceTestSuite) TestInitJournal_DuplicateOwnerRejected() {
	_, err := suite.svcs.Journal.InitJournal(context.Background(), dto.InitJournalRequest{OwnerType: "user", OwnerID: 7})
	suite.ErrorIs(err, apperrors.ErrJournalAlreadyExists)
}

func (suite *JournalServiceTestSuite) TestInitJournal_ExplicitCurrency() {
	journal, err := suite.svcs.Journal.InitJournal(context.Background(), dto.InitJournalRequest{OwnerType: "company", OwnerID: 1, CurrencyCode: "EUR"})
	suite.Require().NoError(err)
	suite.Equal("EUR", journal.Currency)
}

func (suite *JournalServiceTestSuite) TestInitJournal_EmptyOwnerTypeRejected() {
	_, err := suite.svcs.Journal.InitJournal(context.Background(), dto.InitJournalRequest{OwnerType: "", OwnerID: 9})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreditAndDebit_RefreshCachedBalance() {
	ctx := context.Background()

	_, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(10000, ""), "deposit", nil, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Credit(ctx, suite.journalID, domain.NewMoney(2500, ""), "fee", nil, nil)
	suite.Require().NoError(err)

	balance, err := suite.svcs.Journal.GetBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(7500), balance.Amount)
	suite.Equal("USD", balance.Currency)

	// Cached balance on the stored row matches the derived value.
	journal, err := suite.svcs.Journal.GetJournalByID(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(7500), journal.Balance)
}

func (suite *JournalServiceTestSuite) TestPost_EmptyCurrencyTakesJournalCurrency() {
	ctx := context.Background()

	txn, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(100, ""), "", nil, nil)
	suite.Require().NoError(err)
	suite.Equal("USD", txn.Currency)

	labelled, err := suite.svcs.Journal.Credit(ctx, suite.journalID, domain.NewMoney(100, "EUR"), "", nil, nil)
	suite.Require().NoError(err)
	suite.Equal("EUR", labelled.Currency)
}

func (suite *JournalServiceTestSuite) TestDollarPrimitives_Truncate() {
	ctx := context.Background()

	_, err := suite.svcs.Journal.DebitDollars(ctx, suite.journalID, decimal.NewFromFloat(100.509), "", nil)
	suite.Require().NoError(err)

	balance, err := suite.svcs.Journal.GetBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(10050), balance.Amount)

	_, err = suite.svcs.Journal.CreditDollars(ctx, suite.journalID, decimal.NewFromFloat(0.505), "", nil)
	suite.Require().NoError(err)

	balance, err = suite.svcs.Journal.GetBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(10000), balance.Amount)
}

func (suite *JournalServiceTestSuite) TestGetBalanceOn_PointInTime() {
	ctx := context.Background()
	day1 := fixedTime.AddDate(0, 0, -2)
	day2 := fixedTime.AddDate(0, 0, -1)
	future := fixedTime.AddDate(0, 0, 5)

	_, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(100, ""), "", &day1, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(200, ""), "", &day2, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(400, ""), "", &future, nil)
	suite.Require().NoError(err)

	on1, err := suite.svcs.Journal.GetBalanceOn(ctx, suite.journalID, day1)
	suite.Require().NoError(err)
	suite.Equal(int64(100), on1.Amount)

	on2, err := suite.svcs.Journal.GetBalanceOn(ctx, suite.journalID, day2)
	suite.Require().NoError(err)
	suite.Equal(int64(300), on2.Amount)

	// Moving the query date forward never drops entries.
	suite.LessOrEqual(on1.Amount, on2.Amount)

	// Current balance excludes the future-dated line; full balance includes it.
	current, err := suite.svcs.Journal.GetCurrentBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(300), current.Amount)

	full, err := suite.svcs.Journal.GetBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(700), full.Amount)
}

func (suite *JournalServiceTestSuite) TestDebitAndCreditBalancesOn() {
	ctx := context.Background()

	_, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(500, ""), "", nil, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Credit(ctx, suite.journalID, domain.NewMoney(200, ""), "", nil, nil)
	suite.Require().NoError(err)

	debits, err := suite.svcs.Journal.GetDebitBalanceOn(ctx, suite.journalID, fixedTime)
	suite.Require().NoError(err)
	suite.Equal(int64(500), debits.Amount)

	credits, err := suite.svcs.Journal.GetCreditBalanceOn(ctx, suite.journalID, fixedTime)
	suite.Require().NoError(err)
	suite.Equal(int64(200), credits.Amount)
}

func (suite *JournalServiceTestSuite) TestDollarsDebitedAndCreditedToday() {
	ctx := context.Background()
	yesterday := fixedTime.AddDate(0, 0, -1)
	endOfToday := time.Date(fixedTime.Year(), fixedTime.Month(), fixedTime.Day(), 23, 59, 59, 0, time.UTC)

	_, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(10000, ""), "", &yesterday, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(2500, ""), "", nil, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Credit(ctx, suite.journalID, domain.NewMoney(1200, ""), "", &endOfToday, nil)
	suite.Require().NoError(err)

	debited, err := suite.svcs.Journal.GetDollarsDebitedToday(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.True(debited.Equal(decimal.NewFromFloat(25.00)), "got %s", debited)

	credited, err := suite.svcs.Journal.GetDollarsCreditedToday(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.True(credited.Equal(decimal.NewFromFloat(12.00)), "got %s", credited)

	debitedYesterday, err := suite.svcs.Journal.GetDollarsDebitedOn(ctx, suite.journalID, yesterday)
	suite.Require().NoError(err)
	suite.True(debitedYesterday.Equal(decimal.NewFromFloat(100.00)), "got %s", debitedYesterday)
}

func (suite *JournalServiceTestSuite) TestResetCurrentBalances_Idempotent() {
	ctx := context.Background()

	_, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(900, ""), "", nil, nil)
	suite.Require().NoError(err)

	first, err := suite.svcs.Journal.ResetCurrentBalances(ctx, suite.journalID)
	suite.Require().NoError(err)
	second, err := suite.svcs.Journal.ResetCurrentBalances(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(first.Amount, second.Amount)
	suite.Equal(int64(900), second.Amount)
}

func (suite *JournalServiceTestSuite) TestDeleteTransaction_RecomputesBalance() {
	ctx := context.Background()

	keep, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(1000, ""), "", nil, nil)
	suite.Require().NoError(err)
	drop, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(500, ""), "", nil, nil)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svcs.Journal.DeleteTransaction(ctx, drop.TransactionID))

	balance, err := suite.svcs.Journal.GetBalance(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(1000), balance.Amount)

	journal, err := suite.svcs.Journal.GetJournalByID(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Equal(int64(1000), journal.Balance)

	// The deleted line still exists as a row, just marked.
	deleted, err := suite.store.FindTransactionByID(ctx, drop.TransactionID)
	suite.Require().NoError(err)
	suite.True(deleted.IsDeleted())

	kept, err := suite.store.FindTransactionByID(ctx, keep.TransactionID)
	suite.Require().NoError(err)
	suite.False(kept.IsDeleted())
}

func (suite *JournalServiceTestSuite) TestReferences_RoundTrip() {
	ctx := context.Background()
	ref := domain.ObjectRef{Type: "invoice", ID: 42}

	txn, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(100, ""), "", nil, nil)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svcs.Journal.SetReference(ctx, txn.TransactionID, ref))

	matches, err := suite.svcs.Journal.TransactionsReferencingObject(ctx, suite.journalID, ref)
	suite.Require().NoError(err)
	suite.Require().Len(matches, 1)
	suite.Equal(txn.TransactionID, matches[0].TransactionID)

	obj, err := suite.svcs.Journal.GetReferencedObject(ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(suite.resolver.value, obj)

	// Re-setting the same reference is idempotent.
	suite.Require().NoError(suite.svcs.Journal.SetReference(ctx, txn.TransactionID, ref))
	matches, err = suite.svcs.Journal.TransactionsReferencingObject(ctx, suite.journalID, ref)
	suite.Require().NoError(err)
	suite.Len(matches, 1)
}

func (suite *JournalServiceTestSuite) TestGetReferencedObject_NoReference() {
	ctx := context.Background()

	txn, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(100, ""), "", nil, nil)
	suite.Require().NoError(err)

	obj, err := suite.svcs.Journal.GetReferencedObject(ctx, txn.TransactionID)
	suite.NoError(err)
	suite.Nil(obj)
}

func (suite *JournalServiceTestSuite) TestGetReferencedObject_ResolutionFailure() {
	ctx := context.Background()

	txn, err := suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(100, ""), "", nil, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svcs.Journal.SetReference(ctx, txn.TransactionID, domain.ObjectRef{Type: "invoice", ID: 999}))

	_, err = suite.svcs.Journal.GetReferencedObject(ctx, txn.TransactionID)
	suite.ErrorIs(err, apperrors.ErrReferenceResolution)
}

func (suite *JournalServiceTestSuite) TestAssignToLedger() {
	ctx := context.Background()

	ledger, err := suite.svcs.Ledger.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Cash", Type: domain.Asset})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svcs.Journal.AssignToLedger(ctx, suite.journalID, ledger.LedgerID))

	journal, err := suite.svcs.Journal.GetJournalByID(ctx, suite.journalID)
	suite.Require().NoError(err)
	suite.Require().NotNil(journal.LedgerID)
	suite.Equal(ledger.LedgerID, *journal.LedgerID)
}

func (suite *JournalServiceTestSuite) TestLedgerCurrentBalance_Polarity() {
	ctx := context.Background()

	asset, err := suite.svcs.Ledger.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Assets", Type: domain.Asset})
	suite.Require().NoError(err)
	liability, err := suite.svcs.Ledger.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Liabilities", Type: domain.Liability})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svcs.Journal.AssignToLedger(ctx, suite.journalID, asset.LedgerID))

	_, err = suite.svcs.Journal.Debit(ctx, suite.journalID, domain.NewMoney(50000, ""), "", nil, nil)
	suite.Require().NoError(err)
	_, err = suite.svcs.Journal.Credit(ctx, suite.journalID, domain.NewMoney(20000, ""), "", nil, nil)
	suite.Require().NoError(err)

	assetBalance, err := suite.svcs.Ledger.GetCurrentBalance(ctx, asset.LedgerID, "USD")
	suite.Require().NoError(err)
	suite.Equal(int64(30000), assetBalance.Amount)

	// Same raw entries under a credit-normal ledger flip sign.
	suite.Require().NoError(suite.svcs.Journal.AssignToLedger(ctx, suite.journalID, liability.LedgerID))
	liabilityBalance, err := suite.svcs.Ledger.GetCurrentBalance(ctx, liability.LedgerID, "USD")
	suite.Require().NoError(err)
	suite.Equal(int64(-30000), liabilityBalance.Amount)

	dollars, err := suite.svcs.Ledger.GetCurrentBalanceInDollars(ctx, liability.LedgerID)
	suite.Require().NoError(err)
	suite.True(dollars.Equal(decimal.NewFromInt(-300)), "got %s", dollars)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
