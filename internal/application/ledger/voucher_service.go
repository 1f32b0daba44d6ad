package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VoucherService provides application-level voucher posting operations.
// A voucher is either fully posted with all its lines or rejected before any
// write; there is no persisted draft state.
type VoucherService struct {
	resolver tenant.Resolver
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(resolver tenant.Resolver, eventBus shared.EventPublisher, logger *zap.Logger) *VoucherService {
	return &VoucherService{
		resolver: resolver,
		eventBus: eventBus,
		logger:   logger,
	}
}

// VoucherLineRequest is one proposed debit or credit leg
type VoucherLineRequest struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"max=500"`
}

// CreateVoucherRequest represents a request to post a voucher
type CreateVoucherRequest struct {
	Type            string               `json:"type" binding:"omitempty,voucher_type"`
	VoucherDate     time.Time            `json:"voucher_date" binding:"required"`
	ReferenceNumber string               `json:"reference_number" binding:"max=100"`
	Narration       string               `json:"narration" binding:"max=1000"`
	Lines           []VoucherLineRequest `json:"lines" binding:"required,min=1"`
	CreatedBy       *uuid.UUID           `json:"-"` // Set from request context, not from body
}

// CancelVoucherRequest represents a request to cancel a posted voucher
type CancelVoucherRequest struct {
	Reason      string     `json:"reason" binding:"required,max=500"`
	CancelledBy *uuid.UUID `json:"-"`
}

// VoucherLineResponse represents a voucher line in API responses
type VoucherLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	Position    int             `json:"position"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID             `json:"id"`
	VoucherNumber   string                `json:"voucher_number"`
	Type            string                `json:"type"`
	VoucherDate     time.Time             `json:"voucher_date"`
	ReferenceNumber string                `json:"reference_number,omitempty"`
	Narration       string                `json:"narration,omitempty"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	Lines           []VoucherLineResponse `json:"lines,omitempty"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	CancelledBy     *uuid.UUID            `json:"cancelled_by,omitempty"`
	CancelReason    string                `json:"cancel_reason,omitempty"`
	CreatedBy       *uuid.UUID            `json:"created_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// VoucherValidationResponse is the outcome of a dry-run validation
type VoucherValidationResponse struct {
	Valid        bool            `json:"valid"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	ErrorCode    string          `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// VoucherListFilter defines filtering options for voucher list queries
type VoucherListFilter struct {
	Search   string     `form:"search"`
	Type     string     `form:"type"`
	Status   string     `form:"status"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ValidateVoucher runs the full double-entry validation without persisting
// anything. Rule rejections are reported as data, not errors.
func (s *VoucherService) ValidateVoucher(ctx context.Context, tenantKey string, req CreateVoucherRequest) (*VoucherValidationResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	lines, accounts, err := s.loadLines(ctx, d, req.Lines)
	if err != nil {
		return nil, err
	}

	resp := &VoucherValidationResponse{}
	for _, l := range lines {
		resp.TotalDebits = resp.TotalDebits.Add(l.Debit)
		resp.TotalCredits = resp.TotalCredits.Add(l.Credit)
	}

	if !ledger.VoucherType(req.Type).IsValid() {
		resp.ErrorCode = ledger.CodeValidation
		resp.ErrorMessage = "Unknown voucher type"
		return resp, nil
	}
	if err := ledger.ValidateLines(lines, accounts); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			resp.ErrorCode = domainErr.Code
			resp.ErrorMessage = domainErr.Message
			return resp, nil
		}
		return nil, err
	}

	resp.Valid = true
	return resp, nil
}

// CreateVoucher validates and posts a voucher atomically with all its lines
func (s *VoucherService) CreateVoucher(ctx context.Context, tenantKey string, req CreateVoucherRequest) (*VoucherResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	lines, accounts, err := s.loadLines(ctx, d, req.Lines)
	if err != nil {
		return nil, err
	}

	voucher, err := ledger.NewJournalVoucher(
		ledger.VoucherType(req.Type),
		req.VoucherDate,
		req.ReferenceNumber,
		req.Narration,
		lines,
		accounts,
		actorOrNil(req.CreatedBy),
	)
	if err != nil {
		return nil, err
	}

	if err := d.Vouchers.Create(ctx, voucher); err != nil {
		return nil, err
	}

	voucher.MarkPosted()
	publishDomainEvents(ctx, s.eventBus, s.logger, tenantKey, voucher)

	s.logger.Info("voucher posted",
		zap.String("tenant_key", tenantKey),
		zap.String("voucher_number", voucher.VoucherNumber),
		zap.String("voucher_type", voucher.Type.String()),
		zap.String("total_amount", voucher.TotalAmount.StringFixed(2)),
		zap.Int("lines", voucher.LineCount()))

	return toVoucherResponse(voucher), nil
}

// CreatePaymentVoucher posts a payment voucher (money out). A request that
// carries only debit legs gets its credit side defaulted to the Cash at Bank
// system account for the full amount before posting.
func (s *VoucherService) CreatePaymentVoucher(ctx context.Context, tenantKey string, req CreateVoucherRequest) (*VoucherResponse, error) {
	req.Type = ledger.VoucherTypePayment.String()
	if err := s.defaultBankLeg(ctx, tenantKey, &req, ledger.BalanceSideCredit); err != nil {
		return nil, err
	}
	return s.CreateVoucher(ctx, tenantKey, req)
}

// CreateReceiptVoucher posts a receipt voucher (money in). A request that
// carries only credit legs gets its debit side defaulted to the Cash at Bank
// system account for the full amount before posting.
func (s *VoucherService) CreateReceiptVoucher(ctx context.Context, tenantKey string, req CreateVoucherRequest) (*VoucherResponse, error) {
	req.Type = ledger.VoucherTypeReceipt.String()
	if err := s.defaultBankLeg(ctx, tenantKey, &req, ledger.BalanceSideDebit); err != nil {
		return nil, err
	}
	return s.CreateVoucher(ctx, tenantKey, req)
}

// CreateJournalVoucher posts a general journal voucher. Journal entries have
// no default pairing; the caller supplies both sides.
func (s *VoucherService) CreateJournalVoucher(ctx context.Context, tenantKey string, req CreateVoucherRequest) (*VoucherResponse, error) {
	req.Type = ledger.VoucherTypeJournal.String()
	return s.CreateVoucher(ctx, tenantKey, req)
}

// defaultBankLeg appends the balancing bank leg to a typed request whose
// given side is entirely absent. Requests already carrying both sides pass
// through untouched and keep their normal validation outcome.
func (s *VoucherService) defaultBankLeg(ctx context.Context, tenantKey string, req *CreateVoucherRequest, side ledger.BalanceSide) error {
	totalDebits, totalCredits := decimal.Zero, decimal.Zero
	for _, l := range req.Lines {
		totalDebits = totalDebits.Add(l.Debit)
		totalCredits = totalCredits.Add(l.Credit)
	}

	missing, carried := totalCredits, totalDebits
	if side == ledger.BalanceSideDebit {
		missing, carried = totalDebits, totalCredits
	}
	if !missing.IsZero() || !carried.IsPositive() {
		return nil
	}

	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return err
	}
	bank, err := d.Accounts.FindByName(ctx, SystemAccountCashAtBank)
	if err != nil {
		return err
	}
	if bank == nil {
		return ledger.NewValidationError(fmt.Sprintf("%s account is required to balance a single-sided %s voucher", SystemAccountCashAtBank, req.Type))
	}

	line := VoucherLineRequest{AccountID: bank.ID, Credit: carried}
	if side == ledger.BalanceSideDebit {
		line = VoucherLineRequest{AccountID: bank.ID, Debit: carried}
	}
	req.Lines = append(req.Lines, line)
	return nil
}

// CancelVoucher cancels a posted voucher, keeping its rows for audit
func (s *VoucherService) CancelVoucher(ctx context.Context, tenantKey string, id uuid.UUID, req CancelVoucherRequest) (*VoucherResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	voucher, err := d.Vouchers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}

	if err := voucher.Cancel(actorOrNil(req.CancelledBy), req.Reason); err != nil {
		return nil, err
	}
	if err := d.Vouchers.Save(ctx, voucher); err != nil {
		return nil, err
	}

	publishDomainEvents(ctx, s.eventBus, s.logger, tenantKey, voucher)

	s.logger.Info("voucher cancelled",
		zap.String("tenant_key", tenantKey),
		zap.String("voucher_number", voucher.VoucherNumber),
		zap.String("reason", req.Reason))

	return toVoucherResponse(voucher), nil
}

// GetVoucher gets a voucher with its lines by ID
func (s *VoucherService) GetVoucher(ctx context.Context, tenantKey string, id uuid.UUID) (*VoucherResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	voucher, err := d.Vouchers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(voucher), nil
}

// GetVoucherByNumber gets a voucher by its tenant-unique number
func (s *VoucherService) GetVoucherByNumber(ctx context.Context, tenantKey, voucherNumber string) (*VoucherResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	voucher, err := d.Vouchers.FindByNumber(ctx, voucherNumber)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Voucher not found")
	}
	return toVoucherResponse(voucher), nil
}

// ListVouchers lists vouchers with filtering and pagination
func (s *VoucherService) ListVouchers(ctx context.Context, tenantKey string, filter VoucherListFilter) (*shared.Paginated[VoucherResponse], error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	repoFilter := ledger.VoucherFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	if filter.Type != "" {
		t := ledger.VoucherType(filter.Type)
		if !t.IsValid() {
			return nil, ledger.NewValidationError("Unknown voucher type filter")
		}
		repoFilter.Type = &t
	}
	if filter.Status != "" {
		st := ledger.VoucherStatus(filter.Status)
		if !st.IsValid() {
			return nil, ledger.NewValidationError("Unknown voucher status filter")
		}
		repoFilter.Status = &st
	}

	vouchers, err := d.Vouchers.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := d.Vouchers.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, *toVoucherResponse(&vouchers[i]))
	}

	repoFilter.Normalize()
	page := shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize)
	return &page, nil
}

// loadLines converts request lines into domain line inputs and loads every
// referenced account in one query.
func (s *VoucherService) loadLines(ctx context.Context, d *tenant.Domain, reqLines []VoucherLineRequest) ([]ledger.LineInput, map[uuid.UUID]*ledger.LedgerAccount, error) {
	lines := make([]ledger.LineInput, 0, len(reqLines))
	ids := make([]uuid.UUID, 0, len(reqLines))
	seen := make(map[uuid.UUID]struct{}, len(reqLines))
	for _, l := range reqLines {
		lines = append(lines, ledger.LineInput{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
		if _, dup := seen[l.AccountID]; !dup && l.AccountID != uuid.Nil {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := d.Accounts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return lines, accounts, nil
}

func toVoucherResponse(v *ledger.JournalVoucher) *VoucherResponse {
	resp := &VoucherResponse{
		ID:              v.ID,
		VoucherNumber:   v.VoucherNumber,
		Type:            v.Type.String(),
		VoucherDate:     v.VoucherDate,
		ReferenceNumber: v.ReferenceNumber,
		Narration:       v.Narration,
		TotalAmount:     v.TotalAmount,
		Status:          string(v.Status),
		CancelledAt:     v.CancelledAt,
		CancelledBy:     v.CancelledBy,
		CancelReason:    v.CancelReason,
		CreatedBy:       v.CreatedBy,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		Version:         v.Version,
	}
	for i := range v.Lines {
		l := &v.Lines[i]
		resp.Lines = append(resp.Lines, VoucherLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Position:    l.Position,
		})
	}
	return resp
}
