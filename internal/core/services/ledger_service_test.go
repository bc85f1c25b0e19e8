package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	"github.com/ledgerline/accounting/internal/core/services"
	"github.com/ledgerline/accounting/internal/dto"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) SumTransactionsByLedgerID(ctx context.Context, ledgerID string) (portsrepo.BalanceSums, error) {
	args := m.Called(ctx, ledgerID)
	return args.Get(0).(portsrepo.BalanceSums), args.Error(1)
}

func TestCreateLedger_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := services.NewLedgerService(mockRepo, "USD", nil, nil)

	mockRepo.On("SaveLedger", ctx, mock.AnythingOfType("domain.Ledger")).Return(nil).Once()

	ledger, err := service.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Cash", Type: domain.Asset})

	assert.NoError(t, err)
	assert.NotNil(t, ledger)
	assert.NotEmpty(t, ledger.LedgerID)
	assert.Equal(t, "Cash", ledger.Name)
	assert.Equal(t, domain.Asset, ledger.Type)
	mockRepo.AssertExpectations(t)
}

func TestCreateLedger_Validation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := services.NewLedgerService(mockRepo, "USD", nil, nil)

	tests := []struct {
		name string
		req  dto.CreateLedgerRequest
	}{
		{"empty name", dto.CreateLedgerRequest{Name: "", Type: domain.Asset}},
		{"unknown type", dto.CreateLedgerRequest{Name: "Cash", Type: domain.LedgerType("banana")}},
		{"empty type", dto.CreateLedgerRequest{Name: "Cash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateLedger(ctx, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	mockRepo.AssertNotCalled(t, "SaveLedger", mock.Anything, mock.Anything)
}

func TestCreateLedger_RepoError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := services.NewLedgerService(mockRepo, "USD", nil, nil)

	expectedErr := errors.New("database connection lost")
	mockRepo.On("SaveLedger", ctx, mock.AnythingOfType("domain.Ledger")).Return(expectedErr).Once()

	_, err := service.CreateLedger(ctx, dto.CreateLedgerRequest{Name: "Cash", Type: domain.Asset})
	assert.ErrorIs(t, err, expectedErr)
	mockRepo.AssertExpectations(t)
}

func TestGetLedgerByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := services.NewLedgerService(mockRepo, "USD", nil, nil)

	mockRepo.On("FindLedgerByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.GetLedgerByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestGetCurrentBalance_AppliesPolarity(t *testing.T) {
	ctx := context.Background()
	sums := portsrepo.BalanceSums{Debit: 50000, Credit: 20000}

	tests := []struct {
		ledgerType domain.LedgerType
		want       int64
	}{
		{domain.Asset, 30000},
		{domain.Liability, -30000},
	}

	for _, tt := range tests {
		t.Run(string(tt.ledgerType), func(t *testing.T) {
			mockRepo := new(MockLedgerRepository)
			service := services.NewLedgerService(mockRepo, "USD", nil, nil)

			ledger := &domain.Ledger{LedgerID: "led-1", Name: "L", Type: tt.ledgerType}
			mockRepo.On("FindLedgerByID", ctx, "led-1").Return(ledger, nil).Once()
			mockRepo.On("SumTransactionsByLedgerID", ctx, "led-1").Return(sums, nil).Once()

			balance, err := service.GetCurrentBalance(ctx, "led-1", "USD")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, balance.Amount)
			assert.Equal(t, "USD", balance.Currency)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetCurrentBalance_CurrencyLabelsOnly(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := services.NewLedgerService(mockRepo, "USD", nil, nil)

	ledger := &domain.Ledger{LedgerID: "led-1", Name: "L", Type: domain.Asset}
	mockRepo.On("FindLedgerByID", ctx, "led-1").Return(ledger, nil).Once()
	mockRepo.On("SumTransactionsByLedgerID", ctx, "led-1").Return(portsrepo.BalanceSums{Debit: 100}, nil).Once()

	// The requested currency only labels the result; amounts are raw sums.
	balance, err := service.GetCurrentBalance(ctx, "led-1", "JPY")
	assert.NoError(t, err)
	assert.Equal(t, int64(100), balance.Amount)
	assert.Equal(t, "JPY", balance.Currency)
	mockRepo.AssertExpectations(t)
}
