package ledger

import (
	"fmt"
	"time"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherType classifies a journal voucher
type VoucherType string

const (
	VoucherTypePayment VoucherType = "PAYMENT"
	VoucherTypeReceipt VoucherType = "RECEIPT"
	VoucherTypeJournal VoucherType = "JOURNAL"
)

// IsValid checks if the voucher type is valid
func (t VoucherType) IsValid() bool {
	return t == VoucherTypePayment || t == VoucherTypeReceipt || t == VoucherTypeJournal
}

// String returns the string representation
func (t VoucherType) String() string {
	return string(t)
}

// NumberPrefix returns the voucher-number prefix used for this type
func (t VoucherType) NumberPrefix() string {
	switch t {
	case VoucherTypePayment:
		return "PV"
	case VoucherTypeReceipt:
		return "RV"
	default:
		return "JV"
	}
}

// VoucherStatus represents the state of a voucher.
// Drafts exist only in memory: a voucher is persisted as POSTED or not at all.
type VoucherStatus string

const (
	VoucherStatusPosted    VoucherStatus = "POSTED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s VoucherStatus) IsValid() bool {
	return s == VoucherStatusPosted || s == VoucherStatusCancelled
}

// JournalEntryLine is one debit or credit leg of a voucher
type JournalEntryLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountName string          `gorm:"type:varchar(200);not null"` // Denormalized for statements
	Debit       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Position    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalEntryLine) TableName() string {
	return "journal_entry_lines"
}

// IsDebit returns true if this is a debit leg
func (l *JournalEntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line
func (l *JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// JournalVoucher is a single balanced posting event. It is created atomically
// with its lines and immutable once posted, except for cancellation.
type JournalVoucher struct {
	shared.AuditedAggregateRoot
	VoucherNumber   string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            VoucherType        `gorm:"type:varchar(20);not null;index"`
	VoucherDate     time.Time          `gorm:"not null;index"`
	ReferenceNumber string             `gorm:"type:varchar(100)"`
	Narration       string             `gorm:"type:varchar(1000)"`
	TotalAmount     decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Status          VoucherStatus      `gorm:"type:varchar(20);not null;default:'POSTED';index"`
	Lines           []JournalEntryLine `gorm:"foreignKey:VoucherID;references:ID"`
	CancelledAt     *time.Time
	CancelledBy     *uuid.UUID `gorm:"type:uuid"`
	CancelReason    string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (JournalVoucher) TableName() string {
	return "journal_vouchers"
}

// NewJournalVoucher builds a posted voucher from validated line inputs.
// The voucher number is assigned by the repository inside the posting
// transaction; the aggregate is constructed without one. ValidateLines must
// have been run against the same inputs and accounts; this constructor
// re-checks the balance invariant as a last line of defense.
func NewJournalVoucher(
	voucherType VoucherType,
	voucherDate time.Time,
	referenceNumber string,
	narration string,
	lines []LineInput,
	accounts map[uuid.UUID]*LedgerAccount,
	createdBy uuid.UUID,
) (*JournalVoucher, error) {
	if !voucherType.IsValid() {
		return nil, NewValidationError(fmt.Sprintf("%q is not a valid voucher type", string(voucherType)))
	}
	if voucherDate.IsZero() {
		return nil, NewValidationError("Voucher date is required")
	}
	if err := ValidateLines(lines, accounts); err != nil {
		return nil, err
	}

	v := &JournalVoucher{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Type:                 voucherType,
		VoucherDate:          voucherDate,
		ReferenceNumber:      referenceNumber,
		Narration:            narration,
		Status:               VoucherStatusPosted,
		Lines:                make([]JournalEntryLine, 0, len(lines)),
	}

	total := decimal.Zero
	for i, in := range lines {
		account := accounts[in.AccountID]
		v.Lines = append(v.Lines, JournalEntryLine{
			ID:          uuid.New(),
			VoucherID:   v.ID,
			AccountID:   in.AccountID,
			AccountName: account.Name,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Description: in.Description,
			Position:    i + 1,
		})
		total = total.Add(in.Debit)
	}
	v.TotalAmount = total

	return v, nil
}

// MarkPosted raises the posted event. Called after the repository has
// assigned the voucher number and committed the posting transaction.
func (v *JournalVoucher) MarkPosted() {
	v.AddDomainEvent(NewVoucherPostedEvent(v))
}

// Cancel transitions the voucher to CANCELLED. Rows are kept for audit;
// cancelled vouchers are excluded from all balance computations.
func (v *JournalVoucher) Cancel(cancelledBy uuid.UUID, reason string) error {
	if v.Status == VoucherStatusCancelled {
		return NewAlreadyCancelledError(v.VoucherNumber)
	}
	if reason == "" {
		return NewValidationError("Cancel reason is required")
	}

	now := v.Touch()
	v.Status = VoucherStatusCancelled
	v.CancelledAt = &now
	if cancelledBy != uuid.Nil {
		v.CancelledBy = &cancelledBy
	}
	v.CancelReason = reason
	v.SetUpdatedBy(cancelledBy)
	v.IncrementVersion()

	v.AddDomainEvent(NewVoucherCancelledEvent(v))

	return nil
}

// IsPosted returns true if the voucher counts toward balances
func (v *JournalVoucher) IsPosted() bool {
	return v.Status == VoucherStatusPosted
}

// IsCancelled returns true if the voucher has been cancelled
func (v *JournalVoucher) IsCancelled() bool {
	return v.Status == VoucherStatusCancelled
}

// TotalDebits sums the debit legs
func (v *JournalVoucher) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Lines {
		total = total.Add(v.Lines[i].Debit)
	}
	return total
}

// TotalCredits sums the credit legs
func (v *JournalVoucher) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for i := range v.Lines {
		total = total.Add(v.Lines[i].Credit)
	}
	return total
}

// IsBalanced reports whether the voucher's own lines balance exactly
func (v *JournalVoucher) IsBalanced() bool {
	return v.TotalDebits().Equal(v.TotalCredits())
}

// LineCount returns the number of lines
func (v *JournalVoucher) LineCount() int {
	return len(v.Lines)
}
