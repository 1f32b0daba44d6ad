package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountBalance is the derived balance of a single account. Balance is the
// non-negative amount on BalanceType, the account's reporting side.
type AccountBalance struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceType BalanceSide     `json:"balance_type"`
	AsOf        time.Time       `json:"as_of"`
}

// TrialBalanceRow is one account's contribution to the trial balance
type TrialBalanceRow struct {
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every active account's balance classified into the debit
// or credit column. Because every posted voucher is individually balanced,
// TotalDebits and TotalCredits must always match; a mismatch means the
// persisted data is corrupt.
type TrialBalance struct {
	AsOf         time.Time         `json:"as_of"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	IsBalanced   bool              `json:"is_balanced"`
}

// LedgerEntry is one transaction in an account statement, annotated with the
// running balance after applying it.
type LedgerEntry struct {
	VoucherID      uuid.UUID       `json:"voucher_id"`
	VoucherNumber  string          `json:"voucher_number"`
	VoucherType    VoucherType     `json:"voucher_type"`
	VoucherDate    time.Time       `json:"voucher_date"`
	Narration      string          `json:"narration"`
	Description    string          `json:"description,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// LedgerStatement is the per-account ledger report: opening balance strictly
// before the range, the ordered transactions within it, and the closing
// balance. Balances are signed on the account's natural side.
type LedgerStatement struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountName    string          `json:"account_name"`
	AccountType    AccountType     `json:"account_type"`
	NaturalSide    BalanceSide     `json:"natural_side"`
	FromDate       time.Time       `json:"from_date"`
	ToDate         time.Time       `json:"to_date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Entries        []LedgerEntry   `json:"entries"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CashFlowGroup aggregates bank-account movement for one voucher type
type CashFlowGroup struct {
	VoucherType VoucherType     `json:"voucher_type"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Net         decimal.Decimal `json:"net"`
}

// CashFlowReport aggregates movements through Bank-type accounts within the
// window, grouped by voucher type.
type CashFlowReport struct {
	FromDate   time.Time       `json:"from_date"`
	ToDate     time.Time       `json:"to_date"`
	Groups     []CashFlowGroup `json:"groups"`
	NetInflow  decimal.Decimal `json:"net_inflow"`
	NetOutflow decimal.Decimal `json:"net_outflow"`
}

// IntegrityFinding describes one posted voucher whose own lines do not
// balance. Findings are reported as data for manual remediation, never
// auto-corrected.
type IntegrityFinding struct {
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	TotalDebits   decimal.Decimal `json:"total_debits"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	Difference    decimal.Decimal `json:"difference"`
}

// IntegrityReport is the result of recomputing the ledger from first
// principles: every posted line re-summed, every voucher re-checked.
type IntegrityReport struct {
	CheckedAt       time.Time          `json:"checked_at"`
	VouchersChecked int64              `json:"vouchers_checked"`
	TotalDebits     decimal.Decimal    `json:"total_debits"`
	TotalCredits    decimal.Decimal    `json:"total_credits"`
	TrialBalanced   bool               `json:"trial_balanced"`
	Findings        []IntegrityFinding `json:"findings"`
	Clean           bool               `json:"clean"`
}
