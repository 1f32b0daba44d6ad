package persistence

import (
	"context"
	"time"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements ledger.ReportRepository using GORM.
// Every query is read-only; derived figures are always recomputed from
// posted voucher lines, never read from a cached aggregate.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// AccountSums returns posted debit/credit totals for one account up to and
// including asOf.
func (r *GormReportRepository) AccountSums(ctx context.Context, accountID uuid.UUID, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Debits  decimal.Decimal
		Credits decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("journal_entry_lines l").
		Select("COALESCE(SUM(l.debit), 0) AS debits, COALESCE(SUM(l.credit), 0) AS credits").
		Joins("JOIN journal_vouchers v ON v.id = l.voucher_id").
		Where("l.account_id = ?", accountID).
		Where("v.status = ?", ledger.VoucherStatusPosted).
		Where("v.voucher_date <= ?", asOf).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Debits, row.Credits, nil
}

// AllAccountSums returns posted totals for every active account up to and
// including asOf. Accounts with no activity appear with zero sums. Lines are
// joined through their voucher so cancelled and post-cutoff vouchers drop
// out of the sums entirely, matching AccountSums for the same account.
func (r *GormReportRepository) AllAccountSums(ctx context.Context, asOf time.Time) ([]ledger.AccountSums, error) {
	var rows []struct {
		AccountID   uuid.UUID
		AccountName string
		AccountType string
		Debits      decimal.Decimal
		Credits     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("ledger_accounts a").
		Select(`a.id AS account_id, a.name AS account_name, a.type AS account_type,
			COALESCE(SUM(pl.debit), 0) AS debits, COALESCE(SUM(pl.credit), 0) AS credits`).
		Joins(`LEFT JOIN (
			SELECT l.account_id, l.debit, l.credit
			FROM journal_entry_lines l
			JOIN journal_vouchers v ON v.id = l.voucher_id
			WHERE v.status = ? AND v.voucher_date <= ?
		) pl ON pl.account_id = a.id`, ledger.VoucherStatusPosted, asOf).
		Where("a.status = ?", ledger.AccountStatusActive).
		Group("a.id, a.name, a.type").
		Order("a.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make([]ledger.AccountSums, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, ledger.AccountSums{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			AccountType: ledger.AccountType(row.AccountType),
			Debits:      row.Debits,
			Credits:     row.Credits,
		})
	}
	return sums, nil
}

// StatementLines returns posted lines for an account within the range,
// ordered by voucher date then voucher number ascending.
func (r *GormReportRepository) StatementLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]ledger.StatementLine, error) {
	var rows []struct {
		VoucherID     uuid.UUID
		VoucherNumber string
		VoucherType   string
		VoucherDate   time.Time
		Narration     string
		Description   string
		Debit         decimal.Decimal
		Credit        decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("journal_entry_lines l").
		Select(`v.id AS voucher_id, v.voucher_number, v.type AS voucher_type,
			v.voucher_date, v.narration, l.description, l.debit, l.credit`).
		Joins("JOIN journal_vouchers v ON v.id = l.voucher_id").
		Where("l.account_id = ?", accountID).
		Where("v.status = ?", ledger.VoucherStatusPosted).
		Where("v.voucher_date >= ? AND v.voucher_date <= ?", from, to).
		Order("v.voucher_date ASC, v.voucher_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]ledger.StatementLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, ledger.StatementLine{
			VoucherID:     row.VoucherID,
			VoucherNumber: row.VoucherNumber,
			VoucherType:   ledger.VoucherType(row.VoucherType),
			VoucherDate:   row.VoucherDate,
			Narration:     row.Narration,
			Description:   row.Description,
			Debit:         row.Debit,
			Credit:        row.Credit,
		})
	}
	return lines, nil
}

// CashFlowSums aggregates movement through Bank-type accounts within the
// window, grouped by voucher type. A debit to a bank account is an inflow.
func (r *GormReportRepository) CashFlowSums(ctx context.Context, from, to time.Time) ([]ledger.CashFlowSums, error) {
	var rows []struct {
		VoucherType string
		Inflow      decimal.Decimal
		Outflow     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("journal_entry_lines l").
		Select(`v.type AS voucher_type,
			COALESCE(SUM(l.debit), 0) AS inflow, COALESCE(SUM(l.credit), 0) AS outflow`).
		Joins("JOIN journal_vouchers v ON v.id = l.voucher_id").
		Joins("JOIN ledger_accounts a ON a.id = l.account_id").
		Where("a.type = ?", ledger.AccountTypeBank).
		Where("v.status = ?", ledger.VoucherStatusPosted).
		Where("v.voucher_date >= ? AND v.voucher_date <= ?", from, to).
		Group("v.type").
		Order("v.type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make([]ledger.CashFlowSums, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, ledger.CashFlowSums{
			VoucherType: ledger.VoucherType(row.VoucherType),
			Inflow:      row.Inflow,
			Outflow:     row.Outflow,
		})
	}
	return sums, nil
}

// PostedVoucherSums re-sums every posted voucher's lines from first
// principles for the integrity check.
func (r *GormReportRepository) PostedVoucherSums(ctx context.Context) ([]ledger.VoucherSums, error) {
	var rows []struct {
		VoucherID     uuid.UUID
		VoucherNumber string
		Debits        decimal.Decimal
		Credits       decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Table("journal_vouchers v").
		Select(`v.id AS voucher_id, v.voucher_number,
			COALESCE(SUM(l.debit), 0) AS debits, COALESCE(SUM(l.credit), 0) AS credits`).
		Joins("LEFT JOIN journal_entry_lines l ON l.voucher_id = v.id").
		Where("v.status = ?", ledger.VoucherStatusPosted).
		Group("v.id, v.voucher_number").
		Order("v.voucher_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make([]ledger.VoucherSums, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, ledger.VoucherSums{
			VoucherID:     row.VoucherID,
			VoucherNumber: row.VoucherNumber,
			Debits:        row.Debits,
			Credits:       row.Credits,
		})
	}
	return sums, nil
}
