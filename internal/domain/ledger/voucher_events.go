package ledger

import (
	"time"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for journal voucher events
const (
	EventTypeVoucherPosted    = "JournalVoucherPosted"
	EventTypeVoucherCancelled = "JournalVoucherCancelled"
)

// VoucherPostedEvent is raised when a voucher is posted
type VoucherPostedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	VoucherDate   time.Time       `json:"voucher_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	LineCount     int             `json:"line_count"`
}

// EventType returns the event type name
func (e *VoucherPostedEvent) EventType() string {
	return EventTypeVoucherPosted
}

// NewVoucherPostedEvent creates a new VoucherPostedEvent
func NewVoucherPostedEvent(v *JournalVoucher) *VoucherPostedEvent {
	return &VoucherPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherPosted, "JournalVoucher", v.ID, ""),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.Type,
		VoucherDate:     v.VoucherDate,
		TotalAmount:     v.TotalAmount,
		LineCount:       len(v.Lines),
	}
}

// VoucherCancelledEvent is raised when a posted voucher is cancelled
type VoucherCancelledEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CancelReason  string          `json:"cancel_reason"`
}

// EventType returns the event type name
func (e *VoucherCancelledEvent) EventType() string {
	return EventTypeVoucherCancelled
}

// NewVoucherCancelledEvent creates a new VoucherCancelledEvent
func NewVoucherCancelledEvent(v *JournalVoucher) *VoucherCancelledEvent {
	return &VoucherCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherCancelled, "JournalVoucher", v.ID, ""),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.Type,
		TotalAmount:     v.TotalAmount,
		CancelReason:    v.CancelReason,
	}
}
