// Package ledger provides the application services behind the chart of
// accounts, voucher posting, and the reporting engine. Every operation takes
// a tenant key and resolves the tenant's isolated domain before touching data.
package ledger

import (
	"context"
	"time"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService provides application-level chart-of-accounts operations
type AccountService struct {
	resolver tenant.Resolver
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(resolver tenant.Resolver, eventBus shared.EventPublisher, logger *zap.Logger) *AccountService {
	return &AccountService{
		resolver: resolver,
		eventBus: eventBus,
		logger:   logger,
	}
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	IsSystem    bool       `json:"is_system"`
	Status      string     `json:"status"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Type        string     `json:"type" binding:"required,account_type"`
	Description string     `json:"description" binding:"max=500"`
	CreatedBy   *uuid.UUID `json:"-"` // Set from request context, not from body
}

// UpdateAccountRequest represents a partial account update. Nil fields are
// left untouched.
type UpdateAccountRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=200"`
	Type        *string    `json:"type" binding:"omitempty,account_type"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	UpdatedBy   *uuid.UUID `json:"-"`
}

// AccountListFilter defines filtering options for account list queries
type AccountListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateAccount creates a new account in the tenant's chart of accounts
func (s *AccountService) CreateAccount(ctx context.Context, tenantKey string, req CreateAccountRequest) (*AccountResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	existing, err := d.Accounts.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this name already exists")
	}

	account, err := ledger.NewLedgerAccount(req.Name, ledger.AccountType(req.Type), req.Description, actorOrNil(req.CreatedBy))
	if err != nil {
		return nil, err
	}

	if err := d.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenantKey, account)
	s.logger.Info("ledger account created",
		zap.String("tenant_key", tenantKey),
		zap.String("account_name", account.Name),
		zap.String("account_type", account.Type.String()))

	return toAccountResponse(account), nil
}

// GetAccount gets an account by ID
func (s *AccountService) GetAccount(ctx context.Context, tenantKey string, id uuid.UUID) (*AccountResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	account, err := d.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}
	return toAccountResponse(account), nil
}

// ListAccounts lists accounts with filtering and pagination
func (s *AccountService) ListAccounts(ctx context.Context, tenantKey string, filter AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	repoFilter := ledger.AccountFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		},
	}
	if filter.Type != "" {
		t := ledger.AccountType(filter.Type)
		if !t.IsValid() {
			return nil, ledger.NewValidationError("Unknown account type filter")
		}
		repoFilter.Type = &t
	}
	if filter.Status != "" {
		st := ledger.AccountStatus(filter.Status)
		if !st.IsValid() {
			return nil, ledger.NewValidationError("Unknown account status filter")
		}
		repoFilter.Status = &st
	}

	accounts, err := d.Accounts.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := d.Accounts.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, *toAccountResponse(&accounts[i]))
	}

	repoFilter.Normalize()
	page := shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize)
	return &page, nil
}

// UpdateAccount applies a partial update to an account. System accounts
// reject name and type changes.
func (s *AccountService) UpdateAccount(ctx context.Context, tenantKey string, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	account, err := d.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}

	actor := actorOrNil(req.UpdatedBy)

	if req.Name != nil && *req.Name != account.Name {
		duplicate, err := d.Accounts.FindByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if duplicate != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this name already exists")
		}
		if err := account.Rename(*req.Name, actor); err != nil {
			return nil, err
		}
	}
	if req.Type != nil && ledger.AccountType(*req.Type) != account.Type {
		if err := account.ChangeType(ledger.AccountType(*req.Type), actor); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := account.SetDescription(*req.Description, actor); err != nil {
			return nil, err
		}
	}

	if err := d.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenantKey, account)
	return toAccountResponse(account), nil
}

// DeactivateAccount marks an account inactive, keeping its history
func (s *AccountService) DeactivateAccount(ctx context.Context, tenantKey string, id uuid.UUID, actorID *uuid.UUID) (*AccountResponse, error) {
	return s.setStatus(ctx, tenantKey, id, actorID, func(a *ledger.LedgerAccount, actor uuid.UUID) error {
		return a.Deactivate(actor)
	})
}

// ActivateAccount marks an inactive account active again
func (s *AccountService) ActivateAccount(ctx context.Context, tenantKey string, id uuid.UUID, actorID *uuid.UUID) (*AccountResponse, error) {
	return s.setStatus(ctx, tenantKey, id, actorID, func(a *ledger.LedgerAccount, actor uuid.UUID) error {
		return a.Activate(actor)
	})
}

func (s *AccountService) setStatus(ctx context.Context, tenantKey string, id uuid.UUID, actorID *uuid.UUID, mutate func(*ledger.LedgerAccount, uuid.UUID) error) (*AccountResponse, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	account, err := d.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}

	if err := mutate(account, actorOrNil(actorID)); err != nil {
		return nil, err
	}
	if err := d.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tenantKey, account)
	return toAccountResponse(account), nil
}

// DeleteAccount removes an account. System accounts and accounts referenced
// by posted voucher lines cannot be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, tenantKey string, id uuid.UUID) error {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return err
	}

	account, err := d.Accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}
	if account.IsSystem {
		return ledger.NewImmutableSystemAccountError(account.Name, "deleted")
	}

	inUse, err := d.Accounts.HasPostedLines(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ledger.NewAccountInUseError(account.Name)
	}

	if err := d.Accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("ledger account deleted",
		zap.String("tenant_key", tenantKey),
		zap.String("account_name", account.Name))
	return nil
}

// GetAccountBalance derives an account's balance as of a date from posted
// voucher lines. The balance is non-negative; BalanceType names its side.
func (s *AccountService) GetAccountBalance(ctx context.Context, tenantKey string, id uuid.UUID, asOf time.Time) (*ledger.AccountBalance, error) {
	d, err := s.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	account, err := d.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Ledger account not found")
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	debits, credits, err := d.Reports.AccountSums(ctx, id, asOf)
	if err != nil {
		return nil, err
	}

	balance, side := ledger.NaturalBalance(account.Type, debits, credits)
	return &ledger.AccountBalance{
		AccountID:   account.ID,
		AccountName: account.Name,
		AccountType: account.Type,
		Balance:     balance,
		BalanceType: side,
		AsOf:        asOf,
	}, nil
}

// SystemAccountCashAtBank is the settlement account the typed voucher
// creators default to when a request carries only one side.
const SystemAccountCashAtBank = "Cash at Bank"

// systemAccounts is the built-in chart every tenant starts with
var systemAccounts = []struct {
	Name        string
	Type        ledger.AccountType
	Description string
}{
	{"Cash in Hand", ledger.AccountTypeAsset, "Physical cash at the station"},
	{SystemAccountCashAtBank, ledger.AccountTypeBank, "Primary station bank account"},
	{"Fuel Sales Revenue", ledger.AccountTypeAsset, "Receivable from fuel dispensed"},
	{"Fuel Purchase", ledger.AccountTypeDirectExpense, "Fuel bought from oil companies"},
	{"Station Expenses", ledger.AccountTypeIndirectExpense, "Operating overheads"},
	{"Oil Company Payable", ledger.AccountTypeLiability, "Outstanding supplier dues"},
}

// SeedSystemAccounts idempotently creates the built-in chart of accounts in a
// tenant domain. Safe to run on every resolve; existing accounts are kept.
func SeedSystemAccounts(ctx context.Context, d *tenant.Domain) error {
	for _, def := range systemAccounts {
		existing, err := d.Accounts.FindByName(ctx, def.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		account, err := ledger.NewSystemAccount(def.Name, def.Type, def.Description)
		if err != nil {
			return err
		}
		account.ClearDomainEvents()
		if err := d.Accounts.Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func (s *AccountService) publishEvents(ctx context.Context, tenantKey string, root shared.AggregateRoot) {
	publishDomainEvents(ctx, s.eventBus, s.logger, tenantKey, root)
}

func toAccountResponse(a *ledger.LedgerAccount) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type.String(),
		Description: a.Description,
		IsSystem:    a.IsSystem,
		Status:      string(a.Status),
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Version:     a.Version,
	}
}

func actorOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
