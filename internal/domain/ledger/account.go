package ledger

import (
	"fmt"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountType classifies a ledger account in the chart of accounts
type AccountType string

const (
	AccountTypeDirectExpense   AccountType = "DIRECT_EXPENSE"
	AccountTypeIndirectExpense AccountType = "INDIRECT_EXPENSE"
	AccountTypeAsset           AccountType = "ASSET"
	AccountTypeLiability       AccountType = "LIABILITY"
	AccountTypeCustomer        AccountType = "CUSTOMER"
	AccountTypeVendor          AccountType = "VENDOR"
	AccountTypeBank            AccountType = "BANK"
)

// IsValid checks if the account type is one of the enumerated values
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeDirectExpense, AccountTypeIndirectExpense, AccountTypeAsset,
		AccountTypeLiability, AccountTypeCustomer, AccountTypeVendor, AccountTypeBank:
		return true
	}
	return false
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// BalanceSide identifies which side of the ledger a balance sits on
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "debit"
	BalanceSideCredit BalanceSide = "credit"
)

// NaturalSide returns the side an account of this type normally carries its
// balance on. Liability and Vendor accounts are credit-natural; everything
// else is debit-natural.
func (t AccountType) NaturalSide() BalanceSide {
	switch t {
	case AccountTypeLiability, AccountTypeVendor:
		return BalanceSideCredit
	default:
		return BalanceSideDebit
	}
}

// AccountStatus represents the lifecycle state of a ledger account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// IsValid checks if the status is valid
func (s AccountStatus) IsValid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// LedgerAccount is a node in the tenant's chart of accounts
type LedgerAccount struct {
	shared.AuditedAggregateRoot
	Name        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type        AccountType   `gorm:"type:varchar(30);not null;index"`
	Description string        `gorm:"type:varchar(500)"`
	IsSystem    bool          `gorm:"not null;default:false"`
	Status      AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// NewLedgerAccount creates a new ledger account
func NewLedgerAccount(name string, accountType AccountType, description string, createdBy uuid.UUID) (*LedgerAccount, error) {
	if name == "" {
		return nil, NewValidationError("Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, NewValidationError("Account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, NewValidationError(fmt.Sprintf("%q is not a valid account type", string(accountType)))
	}

	a := &LedgerAccount{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Name:                 name,
		Type:                 accountType,
		Description:          description,
		Status:               AccountStatusActive,
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

// NewSystemAccount creates a built-in account protected from deletion
func NewSystemAccount(name string, accountType AccountType, description string) (*LedgerAccount, error) {
	a, err := NewLedgerAccount(name, accountType, description, uuid.Nil)
	if err != nil {
		return nil, err
	}
	a.IsSystem = true
	return a, nil
}

// Rename changes the account name. System accounts keep their name.
func (a *LedgerAccount) Rename(name string, actorID uuid.UUID) error {
	if a.IsSystem {
		return NewImmutableSystemAccountError(a.Name, "renamed")
	}
	if name == "" {
		return NewValidationError("Account name cannot be empty")
	}
	if len(name) > 200 {
		return NewValidationError("Account name cannot exceed 200 characters")
	}

	a.Name = name
	a.touch(actorID)
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// ChangeType reclassifies the account. System accounts keep their type.
func (a *LedgerAccount) ChangeType(accountType AccountType, actorID uuid.UUID) error {
	if a.IsSystem {
		return NewImmutableSystemAccountError(a.Name, "reclassified")
	}
	if !accountType.IsValid() {
		return NewValidationError(fmt.Sprintf("%q is not a valid account type", string(accountType)))
	}

	a.Type = accountType
	a.touch(actorID)
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
	return nil
}

// SetDescription updates the free-text description
func (a *LedgerAccount) SetDescription(description string, actorID uuid.UUID) error {
	if len(description) > 500 {
		return NewValidationError("Account description cannot exceed 500 characters")
	}
	a.Description = description
	a.touch(actorID)
	return nil
}

// Deactivate marks the account inactive. Inactive accounts cannot appear on
// new voucher lines but keep their history.
func (a *LedgerAccount) Deactivate(actorID uuid.UUID) error {
	if a.Status == AccountStatusInactive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account %q is already inactive", a.Name))
	}
	a.Status = AccountStatusInactive
	a.touch(actorID)
	a.AddDomainEvent(NewAccountDeactivatedEvent(a))
	return nil
}

// Activate marks the account active again
func (a *LedgerAccount) Activate(actorID uuid.UUID) error {
	if a.Status == AccountStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account %q is already active", a.Name))
	}
	a.Status = AccountStatusActive
	a.touch(actorID)
	return nil
}

// IsActive returns true if the account can be posted to
func (a *LedgerAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

func (a *LedgerAccount) touch(actorID uuid.UUID) {
	a.SetUpdatedBy(actorID)
	a.Touch()
	a.IncrementVersion()
}
