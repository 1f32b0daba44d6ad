package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVoucherRepository implements ledger.VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher with its lines
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalVoucher, error) {
	var voucher ledger.JournalVoucher
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// FindByNumber finds a voucher by its tenant-unique number
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, voucherNumber string) (*ledger.JournalVoucher, error) {
	var voucher ledger.JournalVoucher
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&voucher, "voucher_number = ?", voucherNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// FindAll finds vouchers with filtering and pagination
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter ledger.VoucherFilter) ([]ledger.JournalVoucher, error) {
	var vouchers []ledger.JournalVoucher
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	filter.Normalize()
	query = query.Limit(filter.PageSize).Offset(filter.Offset())

	if err := query.
		Order("voucher_date DESC, voucher_number DESC").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Count counts vouchers matching the filter
func (r *GormVoucherRepository) Count(ctx context.Context, filter ledger.VoucherFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.JournalVoucher{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter ledger.VoucherFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("voucher_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("voucher_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("narration ILIKE ? OR reference_number ILIKE ?", pattern, pattern)
	}
	return query
}

// Create persists the voucher header and all lines inside one transaction,
// assigning the next monotonic number for its type first. Either every row
// exists afterwards or none do.
func (r *GormVoucherRepository) Create(ctx context.Context, voucher *ledger.JournalVoucher) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextVoucherNumber(tx, voucher.Type)
		if err != nil {
			return fmt.Errorf("failed to assign voucher number: %w", err)
		}
		voucher.VoucherNumber = number

		if err := tx.Omit("Lines").Create(voucher).Error; err != nil {
			return err
		}
		for i := range voucher.Lines {
			voucher.Lines[i].VoucherID = voucher.ID
		}
		if err := tx.Create(&voucher.Lines).Error; err != nil {
			return err
		}
		return nil
	})
}

// nextVoucherNumber increments the per-type sequence inside the caller's
// transaction and renders the formatted number. The row lock taken by the
// upsert serializes concurrent posts of the same type.
func nextVoucherNumber(tx *gorm.DB, voucherType ledger.VoucherType) (string, error) {
	var next int64
	err := tx.Raw(`
		INSERT INTO voucher_sequences (voucher_type, last_value)
		VALUES (?, 1)
		ON CONFLICT (voucher_type)
		DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value`, voucherType.String()).Scan(&next).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", voucherType.NumberPrefix(), next), nil
}

// Save updates a voucher header with optimistic locking. Lines are never
// updated: posted vouchers are immutable except for cancellation metadata.
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *ledger.JournalVoucher) error {
	result := r.db.WithContext(ctx).Model(&ledger.JournalVoucher{}).
		Where("id = ? AND version = ?", voucher.ID, voucher.Version-1).
		Updates(map[string]any{
			"status":        voucher.Status,
			"cancelled_at":  voucher.CancelledAt,
			"cancelled_by":  voucher.CancelledBy,
			"cancel_reason": voucher.CancelReason,
			"updated_by":    voucher.UpdatedBy,
			"updated_at":    voucher.UpdatedAt,
			"version":       voucher.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
