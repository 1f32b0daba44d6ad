package ledger

import (
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type names for ledger account events
const (
	EventTypeAccountCreated     = "LedgerAccountCreated"
	EventTypeAccountUpdated     = "LedgerAccountUpdated"
	EventTypeAccountDeactivated = "LedgerAccountDeactivated"
)

// AccountCreatedEvent is raised when a new ledger account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID   `json:"account_id"`
	AccountName string      `json:"account_name"`
	AccountType AccountType `json:"account_type"`
	IsSystem    bool        `json:"is_system"`
}

// EventType returns the event type name
func (e *AccountCreatedEvent) EventType() string {
	return EventTypeAccountCreated
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *LedgerAccount) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, "LedgerAccount", a.ID, ""),
		AccountID:       a.ID,
		AccountName:     a.Name,
		AccountType:     a.Type,
		IsSystem:        a.IsSystem,
	}
}

// AccountUpdatedEvent is raised when an account is renamed or reclassified
type AccountUpdatedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID   `json:"account_id"`
	AccountName string      `json:"account_name"`
	AccountType AccountType `json:"account_type"`
}

// EventType returns the event type name
func (e *AccountUpdatedEvent) EventType() string {
	return EventTypeAccountUpdated
}

// NewAccountUpdatedEvent creates a new AccountUpdatedEvent
func NewAccountUpdatedEvent(a *LedgerAccount) *AccountUpdatedEvent {
	return &AccountUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountUpdated, "LedgerAccount", a.ID, ""),
		AccountID:       a.ID,
		AccountName:     a.Name,
		AccountType:     a.Type,
	}
}

// AccountDeactivatedEvent is raised when an account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID   uuid.UUID `json:"account_id"`
	AccountName string    `json:"account_name"`
}

// EventType returns the event type name
func (e *AccountDeactivatedEvent) EventType() string {
	return EventTypeAccountDeactivated
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *LedgerAccount) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeactivated, "LedgerAccount", a.ID, ""),
		AccountID:       a.ID,
		AccountName:     a.Name,
	}
}
