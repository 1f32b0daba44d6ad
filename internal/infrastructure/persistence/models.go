package persistence

import (
	"github.com/fuelops/backend/internal/domain/ledger"
)

// VoucherSequence backs the monotonic per-type voucher numbering. One row
// per voucher type per tenant database; values are never reused.
type VoucherSequence struct {
	VoucherType string `gorm:"type:varchar(20);primaryKey"`
	LastValue   int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VoucherSequence) TableName() string {
	return "voucher_sequences"
}

// LedgerModels lists every model in a tenant schema, in migration order.
// The schema is fixed at compile time and shared by all tenants; only the
// connection target varies.
func LedgerModels() []any {
	return []any{
		&ledger.LedgerAccount{},
		&ledger.JournalVoucher{},
		&ledger.JournalEntryLine{},
		&VoucherSequence{},
	}
}
