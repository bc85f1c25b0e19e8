// Package accounting holds the pure balance arithmetic shared by services
// and repositories.
package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/accounting/internal/core/domain"
)

// RawBalance is the journal-level convention: sum(debit) - sum(credit) over
// non-deleted lines, sign applied uniformly regardless of account type.
func RawBalance(sumDebit, sumCredit int64) int64 {
	return sumDebit - sumCredit
}

// LedgerBalance applies a ledger type's polarity rule to raw debit/credit
// totals. Debit-normal types report sum(debit) - sum(credit); credit-normal
// types report the negation.
func LedgerBalance(ledgerType domain.LedgerType, sumDebit, sumCredit int64) (int64, error) {
	switch {
	case ledgerType.IsDebitNormal():
		return sumDebit - sumCredit, nil
	case ledgerType.IsCreditNormal():
		return sumCredit - sumDebit, nil
	default:
		return 0, fmt.Errorf("unknown ledger type '%s'", ledgerType)
	}
}

// DollarsToCents converts a major-unit decimal to minor units by truncating
// multiplication by 100. IntPart truncates toward zero, matching the
// engine's compatibility requirement: half-cent amounts are dropped, never
// rounded up.
func DollarsToCents(dollars decimal.Decimal) int64 {
	return dollars.Mul(decimal.NewFromInt(100)).IntPart()
}

// CentsToDollars converts minor units to an exact major-unit decimal.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
