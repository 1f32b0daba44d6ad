package ledger

import (
	"context"
	"time"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService derives financial reports from posted voucher lines. Reports
// are always recomputed from first principles; no balance is ever stored.
type ReportService struct {
	resolver tenant.Resolver
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(resolver tenant.Resolver, logger *zap.Logger) *ReportService {
	return &ReportService{
		resolver: resolver,
		logger:   logger,
	}
}

// GetTrialBalance computes every active account's balance as of the date and
// classifies it into the debit or credit column. Because every posted voucher
// balances individually, the two columns must always match; a mismatch means
// the persisted data is corrupt.
func (s *ReportService) GetTrialBalance(ctx context.Context, tenantKey string, asOf time.Time) (*ledger.TrialBalance, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}

	sums, err := d.Reports.AllAccountSums(ctx, asOf)
	if err != nil {
		return nil, err
	}

	tb := &ledger.TrialBalance{
		AsOf: asOf,
		Rows: make([]ledger.TrialBalanceRow, 0, len(sums)),
	}
	for _, s := range sums {
		balance, side := ledger.NaturalBalance(s.AccountType, s.Debits, s.Credits)
		row := ledger.TrialBalanceRow{
			AccountID:   s.AccountID,
			AccountName: s.AccountName,
			AccountType: s.AccountType,
		}
		if side == ledger.BalanceSideDebit {
			row.Debit = balance
			tb.TotalDebits = tb.TotalDebits.Add(balance)
		} else {
			row.Credit = balance
			tb.TotalCredits = tb.TotalCredits.Add(balance)
		}
		tb.Rows = append(tb.Rows, row)
	}
	tb.IsBalanced = tb.TotalDebits.Equal(tb.TotalCredits)

	if !tb.IsBalanced {
		s.logger.Error("trial balance does not balance",
			zap.String("tenant_key", tenantKey),
			zap.String("total_debits", tb.TotalDebits.StringFixed(2)),
			zap.String("total_credits", tb.TotalCredits.StringFixed(2)))
	}
	return tb, nil
}

// GetLedgerStatement renders one account's statement for a date range: the
// opening balance from all posted activity strictly before the range, each
// transaction with a running balance, and the closing balance. Balances are
// signed on the account's natural side.
func (s *ReportService) GetLedgerStatement(ctx context.Context, tenantKey string, accountID uuid.UUID, from, to time.Time) (*ledger.LedgerStatement, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	account, err := d.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}
	if to.IsZero() {
		to = time.Now()
	}
	if to.Before(from) {
		return nil, ledger.NewValidationError("Statement range end must not precede its start")
	}

	openDebits, openCredits, err := d.Reports.AccountSums(ctx, accountID, from.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	naturalSide := account.Type.NaturalSide()
	opening := signedOnSide(naturalSide, openDebits, openCredits)

	rows, err := d.Reports.StatementLines(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	statement := &ledger.LedgerStatement{
		AccountID:      account.ID,
		AccountName:    account.Name,
		AccountType:    account.Type,
		NaturalSide:    naturalSide,
		FromDate:       from,
		ToDate:         to,
		OpeningBalance: opening,
		Entries:        make([]ledger.LedgerEntry, 0, len(rows)),
	}

	running := opening
	for _, row := range rows {
		running = running.Add(signedOnSide(naturalSide, row.Debit, row.Credit))
		statement.Entries = append(statement.Entries, ledger.LedgerEntry{
			VoucherID:      row.VoucherID,
			VoucherNumber:  row.VoucherNumber,
			VoucherType:    row.VoucherType,
			VoucherDate:    row.VoucherDate,
			Narration:      row.Narration,
			Description:    row.Description,
			Debit:          row.Debit,
			Credit:         row.Credit,
			RunningBalance: running,
		})
	}
	statement.ClosingBalance = running

	return statement, nil
}

// GetCashFlowReport aggregates movement through Bank-type accounts within
// the window, grouped by voucher type. A debit to a bank account is an
// inflow, a credit an outflow.
func (s *ReportService) GetCashFlowReport(ctx context.Context, tenantKey string, from, to time.Time) (*ledger.CashFlowReport, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = time.Now()
	}

	sums, err := d.Reports.CashFlowSums(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &ledger.CashFlowReport{
		FromDate: from,
		ToDate:   to,
		Groups:   make([]ledger.CashFlowGroup, 0, len(sums)),
	}
	for _, s := range sums {
		report.Groups = append(report.Groups, ledger.CashFlowGroup{
			VoucherType: s.VoucherType,
			Inflow:      s.Inflow,
			Outflow:     s.Outflow,
			Net:         s.Inflow.Sub(s.Outflow),
		})
		report.NetInflow = report.NetInflow.Add(s.Inflow)
		report.NetOutflow = report.NetOutflow.Add(s.Outflow)
	}
	return report, nil
}

// GetIntegrityCheck recomputes the ledger from first principles: every
// posted voucher's lines are re-summed and every imbalance is reported as a
// finding. Findings are data for remediation, never raised as errors.
func (s *ReportService) GetIntegrityCheck(ctx context.Context, tenantKey string) (*ledger.IntegrityReport, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	sums, err := d.Reports.PostedVoucherSums(ctx)
	if err != nil {
		return nil, err
	}

	report := &ledger.IntegrityReport{
		CheckedAt:       time.Now(),
		VouchersChecked: int64(len(sums)),
		Findings:        make([]ledger.IntegrityFinding, 0),
	}
	for _, v := range sums {
		report.TotalDebits = report.TotalDebits.Add(v.Debits)
		report.TotalCredits = report.TotalCredits.Add(v.Credits)
		if !v.Debits.Equal(v.Credits) {
			report.Findings = append(report.Findings, ledger.IntegrityFinding{
				VoucherID:     v.VoucherID,
				VoucherNumber: v.VoucherNumber,
				TotalDebits:   v.Debits,
				TotalCredits:  v.Credits,
				Difference:    v.Debits.Sub(v.Credits).Abs(),
			})
		}
	}
	report.TrialBalanced = report.TotalDebits.Equal(report.TotalCredits)
	report.Clean = report.TrialBalanced && len(report.Findings) == 0

	if !report.Clean {
		s.logger.Error("ledger integrity check found inconsistencies",
			zap.String("tenant_key", tenantKey),
			zap.Int("findings", len(report.Findings)),
			zap.Bool("trial_balanced", report.TrialBalanced))
	}
	return report, nil
}

// signedOnSide folds raw debit/credit amounts into a signed balance on the
// given side. Negative values mean the balance currently sits on the other
// side.
func signedOnSide(side ledger.BalanceSide, debits, credits decimal.Decimal) decimal.Decimal {
	if side == ledger.BalanceSideDebit {
		return debits.Sub(credits)
	}
	return credits.Sub(debits)
}
