package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
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

// MockReportRepository is a mock implementation of ledger.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) AccountSums(ctx context.Context, accountID uuid.UUID, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportRepository) AllAccountSums(ctx context.Context, asOf time.Time) ([]ledger.AccountSums, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountSums), args.Error(1)
}

func (m *MockReportRepository) StatementLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]ledger.StatementLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.StatementLine), args.Error(1)
}

func (m *MockReportRepository) CashFlowSums(ctx context.Context, from, to time.Time) ([]ledger.CashFlowSums, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.CashFlowSums), args.Error(1)
}

func (m *MockReportRepository) PostedVoucherSums(ctx context.Context) ([]ledger.VoucherSums, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.VoucherSums), args.Error(1)
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

// capturingBus records every published event
type capturingBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *capturingBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	b.events = append(b.events, events...)
	b.mu.Unlock()
	return nil
}

func (b *capturingBus) published() []shared.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]shared.DomainEvent(nil), b.events...)
}

const testTenantKey = "station-north"

func newTestDomain(accounts *MockAccountRepository, vouchers *MockVoucherRepository, reports *MockReportRepository) *tenant.Domain {
	return &tenant.Domain{
		Key:      testTenantKey,
		Accounts: accounts,
		Vouchers: vouchers,
		Reports:  reports,
	}
}
