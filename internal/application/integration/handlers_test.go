package integration

import (
	"context"
	"testing"
	"time"

	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/station"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindByName(ctx context.Context, name string) (*ledger.LedgerAccount, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ledger.LedgerAccount, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*ledger.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]ledger.LedgerAccount, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, filter ledger.AccountFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) HasPostedLines(ctx context.Context, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// MockVoucherRepository is a mock implementation of ledger.VoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalVoucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByNumber(ctx context.Context, voucherNumber string) (*ledger.JournalVoucher, error) {
	args := m.Called(ctx, voucherNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalVoucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAll(ctx context.Context, filter ledger.VoucherFilter) ([]ledger.JournalVoucher, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.JournalVoucher), args.Error(1)
}

func (m *MockVoucherRepository) Count(ctx context.Context, filter ledger.VoucherFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) Create(ctx context.Context, voucher *ledger.JournalVoucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) Save(ctx context.Context, voucher *ledger.JournalVoucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

// staticResolver serves one pre-built domain for a fixed tenant key
type staticResolver struct {
	domain *tenant.Domain
}

func (r *staticResolver) Resolve(ctx context.Context, tenantKey string) (*tenant.Domain, error) {
	if tenantKey != r.domain.Key {
		return nil, tenant.ErrUnknownTenant
	}
	return r.domain, nil
}

const testTenantKey = "station-north"

type handlerFixture struct {
	resolver *staticResolver
	accounts *MockAccountRepository
	vouchers *MockVoucherRepository
	service  *appledger.VoucherService
}

func newHandlerFixture() *handlerFixture {
	accounts := new(MockAccountRepository)
	vouchers := new(MockVoucherRepository)
	resolver := &staticResolver{domain: &tenant.Domain{
		Key:      testTenantKey,
		Accounts: accounts,
		Vouchers: vouchers,
	}}
	return &handlerFixture{
		resolver: resolver,
		accounts: accounts,
		vouchers: vouchers,
		service:  appledger.NewVoucherService(resolver, nil, zap.NewNop()),
	}
}

// seedAccount registers a system account under its well-known name
func (f *handlerFixture) seedAccount(t *testing.T, name string, accountType ledger.AccountType) *ledger.LedgerAccount {
	t.Helper()
	account, err := ledger.NewSystemAccount(name, accountType, "")
	require.NoError(t, err)
	account.ClearDomainEvents()
	f.accounts.On("FindByName", mock.Anything, name).Return(account, nil)
	return account
}

func (f *handlerFixture) expectPost(number string, match func(*ledger.JournalVoucher) bool, seeded ...*ledger.LedgerAccount) {
	byID := make(map[uuid.UUID]*ledger.LedgerAccount, len(seeded))
	for _, a := range seeded {
		byID[a.ID] = a
	}
	f.accounts.On("FindByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return(byID, nil)
	f.vouchers.On("Create", mock.Anything, mock.MatchedBy(match)).
		Run(func(args mock.Arguments) {
			args.Get(1).(*ledger.JournalVoucher).VoucherNumber = number
		}).Return(nil)
}

func TestFuelSaleCompletedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a receipt voucher for the sale", func(t *testing.T) {
		f := newHandlerFixture()
		bank := f.seedAccount(t, "Cash at Bank", ledger.AccountTypeBank)
		sales := f.seedAccount(t, "Fuel Sales Revenue", ledger.AccountTypeAsset)

		amount := decimal.RequireFromString("5230.50")
		f.expectPost("RV-000015", func(v *ledger.JournalVoucher) bool {
			if v.Type != ledger.VoucherTypeReceipt || len(v.Lines) != 2 {
				return false
			}
			return v.Lines[0].AccountID == bank.ID && v.Lines[0].Debit.Equal(amount) &&
				v.Lines[1].AccountID == sales.ID && v.Lines[1].Credit.Equal(amount)
		}, bank, sales)

		handler := NewFuelSaleCompletedHandler(f.resolver, f.service, zap.NewNop())
		event := station.NewFuelSaleCompletedEvent(testTenantKey, uuid.New(), "SALE-0042",
			"DIESEL", decimal.RequireFromString("58.70"), amount,
			time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC), uuid.New())

		require.NoError(t, handler.Handle(ctx, event))
		f.vouchers.AssertExpectations(t)
	})

	t.Run("fails when the seeded chart is missing", func(t *testing.T) {
		f := newHandlerFixture()
		f.accounts.On("FindByName", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)

		handler := NewFuelSaleCompletedHandler(f.resolver, f.service, zap.NewNop())
		event := station.NewFuelSaleCompletedEvent(testTenantKey, uuid.New(), "SALE-0043",
			"PETROL", decimal.NewFromInt(20), decimal.NewFromInt(2000), time.Now(), uuid.New())

		err := handler.Handle(ctx, event)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.vouchers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects an event of the wrong concrete type", func(t *testing.T) {
		f := newHandlerFixture()
		handler := NewFuelSaleCompletedHandler(f.resolver, f.service, zap.NewNop())

		wrong := station.NewFuelPurchaseRecordedEvent(testTenantKey, uuid.New(), "PUR-0001",
			"IndianOil", "DIESEL", decimal.NewFromInt(5000), decimal.NewFromInt(400000), time.Now(), uuid.New())

		err := handler.Handle(ctx, wrong)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})

	t.Run("subscribes to the sale event only", func(t *testing.T) {
		f := newHandlerFixture()
		handler := NewFuelSaleCompletedHandler(f.resolver, f.service, zap.NewNop())
		assert.Equal(t, []string{station.EventTypeFuelSaleCompleted}, handler.EventTypes())
	})
}

func TestFuelPurchaseRecordedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a payment voucher for the delivery", func(t *testing.T) {
		f := newHandlerFixture()
		expense := f.seedAccount(t, "Fuel Purchase", ledger.AccountTypeDirectExpense)
		bank := f.seedAccount(t, "Cash at Bank", ledger.AccountTypeBank)

		amount := decimal.RequireFromString("412000.00")
		f.expectPost("PV-000008", func(v *ledger.JournalVoucher) bool {
			if v.Type != ledger.VoucherTypePayment || len(v.Lines) != 2 {
				return false
			}
			return v.Lines[0].AccountID == expense.ID && v.Lines[0].Debit.Equal(amount) &&
				v.Lines[1].AccountID == bank.ID && v.Lines[1].Credit.Equal(amount)
		}, expense, bank)

		handler := NewFuelPurchaseRecordedHandler(f.resolver, f.service, zap.NewNop())
		event := station.NewFuelPurchaseRecordedEvent(testTenantKey, uuid.New(), "PUR-0007",
			"IndianOil", "DIESEL", decimal.NewFromInt(5000), amount,
			time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC), uuid.New())

		require.NoError(t, handler.Handle(ctx, event))
		f.vouchers.AssertExpectations(t)
	})

	t.Run("surfaces resolver failures for retry", func(t *testing.T) {
		f := newHandlerFixture()
		handler := NewFuelPurchaseRecordedHandler(f.resolver, f.service, zap.NewNop())

		event := station.NewFuelPurchaseRecordedEvent("station-ghost", uuid.New(), "PUR-0008",
			"IndianOil", "DIESEL", decimal.NewFromInt(100), decimal.NewFromInt(8000), time.Now(), uuid.New())

		err := handler.Handle(ctx, event)
		assert.ErrorIs(t, err, tenant.ErrUnknownTenant)
	})
}
