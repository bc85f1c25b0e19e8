package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/accounting/internal/core/domain"
)

func TestLedgerType_Valid(t *testing.T) {
	for _, lt := range domain.LedgerTypeValues() {
		assert.True(t, lt.Valid(), "expected %s to be valid", lt)
	}
	assert.False(t, domain.LedgerType("").Valid())
	assert.False(t, domain.LedgerType("income").Valid())
	assert.False(t, domain.LedgerType("Asset").Valid())
}

func TestLedgerType_PolarityPartition(t *testing.T) {
	tests := []struct {
		ledgerType  domain.LedgerType
		debitNormal bool
	}{
		{domain.Asset, true},
		{domain.Expense, true},
		{domain.Loss, true},
		{domain.Liability, false},
		{domain.Equity, false},
		{domain.Revenue, false},
		{domain.Gain, false},
	}

	assert.Len(t, tests, len(domain.LedgerTypeValues()), "partition must cover every ledger type")

	for _, tt := range tests {
		t.Run(string(tt.ledgerType), func(t *testing.T) {
			assert.Equal(t, tt.debitNormal, tt.ledgerType.IsDebitNormal())
			assert.Equal(t, !tt.debitNormal, tt.ledgerType.IsCreditNormal())
		})
	}
}

func TestLedgerType_UnknownTypeIsNeitherPolarity(t *testing.T) {
	unknown := domain.LedgerType("banana")
	assert.False(t, unknown.IsDebitNormal())
	assert.False(t, unknown.IsCreditNormal())
}
