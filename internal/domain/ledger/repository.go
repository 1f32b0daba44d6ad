package ledger

import (
	"context"
	"time"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountFilter defines filtering options for chart-of-accounts queries
type AccountFilter struct {
	shared.Filter
	Type   *AccountType
	Status *AccountStatus
}

// AccountRepository defines persistence for the chart of accounts
type AccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerAccount, error)

	// FindByName finds an account by its tenant-unique name
	FindByName(ctx context.Context, name string) (*LedgerAccount, error)

	// FindByIDs loads the referenced accounts keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*LedgerAccount, error)

	// FindAll finds accounts with filtering and pagination
	FindAll(ctx context.Context, filter AccountFilter) ([]LedgerAccount, error)

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter AccountFilter) (int64, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *LedgerAccount) error

	// Delete removes an account. Callers must check HasPostedLines first.
	Delete(ctx context.Context, id uuid.UUID) error

	// HasPostedLines reports whether any posted, non-cancelled voucher line
	// references the account.
	HasPostedLines(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// VoucherFilter defines filtering options for voucher queries
type VoucherFilter struct {
	shared.Filter
	Type     *VoucherType
	Status   *VoucherStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// VoucherRepository defines persistence for journal vouchers
type VoucherRepository interface {
	// FindByID finds a voucher with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*JournalVoucher, error)

	// FindByNumber finds a voucher by its tenant-unique number
	FindByNumber(ctx context.Context, voucherNumber string) (*JournalVoucher, error)

	// FindAll finds vouchers with filtering and pagination
	FindAll(ctx context.Context, filter VoucherFilter) ([]JournalVoucher, error)

	// Count counts vouchers matching the filter
	Count(ctx context.Context, filter VoucherFilter) (int64, error)

	// Create persists the voucher header and all lines as one atomic unit,
	// assigning the next monotonic voucher number for its type before insert.
	// Either every row exists afterwards or none do.
	Create(ctx context.Context, voucher *JournalVoucher) error

	// Save updates a voucher header with optimistic locking; used for
	// cancellation only since posted vouchers are otherwise immutable.
	Save(ctx context.Context, voucher *JournalVoucher) error
}

// AccountSums is the raw posted debit/credit totals for one account
type AccountSums struct {
	AccountID   uuid.UUID
	AccountName string
	AccountType AccountType
	Debits      decimal.Decimal
	Credits     decimal.Decimal
}

// VoucherSums is the raw line totals for one posted voucher
type VoucherSums struct {
	VoucherID     uuid.UUID
	VoucherNumber string
	Debits        decimal.Decimal
	Credits       decimal.Decimal
}

// StatementLine is one posted line joined with its voucher header, ordered
// for statement rendering.
type StatementLine struct {
	VoucherID     uuid.UUID
	VoucherNumber string
	VoucherType   VoucherType
	VoucherDate   time.Time
	Narration     string
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// CashFlowSums is the bank-account movement for one voucher type
type CashFlowSums struct {
	VoucherType VoucherType
	Inflow      decimal.Decimal
	Outflow     decimal.Decimal
}

// ReportRepository defines the read-only queries behind the reporting
// engine. Implementations must never observe partially written vouchers and
// must never mutate state.
type ReportRepository interface {
	// AccountSums returns posted debit/credit totals for one account up to
	// and including asOf.
	AccountSums(ctx context.Context, accountID uuid.UUID, asOf time.Time) (debits, credits decimal.Decimal, err error)

	// AllAccountSums returns posted totals for every active account up to
	// and including asOf, including accounts with no activity.
	AllAccountSums(ctx context.Context, asOf time.Time) ([]AccountSums, error)

	// StatementLines returns posted lines for an account within the range,
	// ordered by voucher date then voucher number ascending.
	StatementLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]StatementLine, error)

	// CashFlowSums aggregates movement through Bank-type accounts within the
	// window, grouped by voucher type.
	CashFlowSums(ctx context.Context, from, to time.Time) ([]CashFlowSums, error)

	// PostedVoucherSums re-sums every posted voucher's lines from first
	// principles for the integrity check.
	PostedVoucherSums(ctx context.Context) ([]VoucherSums, error)
}
