package persistence

import (
	"context"
	"errors"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LedgerAccount, error) {
	var account ledger.LedgerAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByName finds an account by its tenant-unique name
func (r *GormAccountRepository) FindByName(ctx context.Context, name string) (*ledger.LedgerAccount, error) {
	var account ledger.LedgerAccount
	if err := r.db.WithContext(ctx).First(&account, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDs loads the referenced accounts keyed by ID
func (r *GormAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ledger.LedgerAccount, error) {
	result := make(map[uuid.UUID]*ledger.LedgerAccount, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var accounts []ledger.LedgerAccount
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for i := range accounts {
		result[accounts[i].ID] = &accounts[i]
	}
	return result, nil
}

// FindAll finds accounts with filtering and pagination
func (r *GormAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]ledger.LedgerAccount, error) {
	var accounts []ledger.LedgerAccount
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	filter.Normalize()
	query = query.Limit(filter.PageSize).Offset(filter.Offset())

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	dir := "asc"
	if filter.OrderDir == "desc" {
		dir = "desc"
	}
	if err := query.Order(orderBy + " " + dir).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Count counts accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter ledger.AccountFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.LedgerAccount{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter ledger.AccountFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

// Save creates or updates an account with optimistic locking on updates
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.LedgerAccount) error {
	db := r.db.WithContext(ctx)

	var existing ledger.LedgerAccount
	err := db.Select("id", "version").First(&existing, "id = ?", account.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(account).Error
	}
	if err != nil {
		return err
	}

	result := db.Model(&ledger.LedgerAccount{}).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]any{
			"name":        account.Name,
			"type":        account.Type,
			"description": account.Description,
			"status":      account.Status,
			"updated_by":  account.UpdatedBy,
			"updated_at":  account.UpdatedAt,
			"version":     account.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an account. Callers must check HasPostedLines first.
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.LedgerAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasPostedLines reports whether any posted, non-cancelled voucher line
// references the account.
func (r *GormAccountRepository) HasPostedLines(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledger.JournalEntryLine{}).
		Joins("JOIN journal_vouchers ON journal_vouchers.id = journal_entry_lines.voucher_id").
		Where("journal_entry_lines.account_id = ?", accountID).
		Where("journal_vouchers.status = ?", ledger.VoucherStatusPosted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
