// Package station defines the integration events other station modules
// (sales, purchasing) emit toward the ledger. The ledger core consumes these
// at its boundary; it does not own pump, shift, or decantation data.
package station

import (
	"time"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names for station integration events
const (
	EventTypeFuelSaleCompleted    = "FuelSaleCompleted"
	EventTypeFuelPurchaseRecorded = "FuelPurchaseRecorded"
)

// FuelSaleCompletedEvent is emitted when a fuel sale settles. The ledger
// posts it as a Receipt voucher: debit the bank account, credit sales
// revenue.
type FuelSaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	SaleNumber  string          `json:"sale_number"`
	FuelType    string          `json:"fuel_type"`
	Litres      decimal.Decimal `json:"litres"`
	Amount      decimal.Decimal `json:"amount"`
	SoldAt      time.Time       `json:"sold_at"`
	RecordedBy  uuid.UUID       `json:"recorded_by"`
	Description string          `json:"description,omitempty"`
}

// EventType returns the event type name
func (e *FuelSaleCompletedEvent) EventType() string {
	return EventTypeFuelSaleCompleted
}

// NewFuelSaleCompletedEvent creates a new FuelSaleCompletedEvent
func NewFuelSaleCompletedEvent(
	tenantKey string,
	saleID uuid.UUID,
	saleNumber string,
	fuelType string,
	litres decimal.Decimal,
	amount decimal.Decimal,
	soldAt time.Time,
	recordedBy uuid.UUID,
) *FuelSaleCompletedEvent {
	return &FuelSaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFuelSaleCompleted, "FuelSale", saleID, tenantKey),
		SaleID:          saleID,
		SaleNumber:      saleNumber,
		FuelType:        fuelType,
		Litres:          litres,
		Amount:          amount,
		SoldAt:          soldAt,
		RecordedBy:      recordedBy,
	}
}

// FuelPurchaseRecordedEvent is emitted when a fuel purchase is booked. The
// ledger posts it as a Payment voucher: debit fuel purchase expense, credit
// the bank account.
type FuelPurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	PurchaseID     uuid.UUID       `json:"purchase_id"`
	PurchaseNumber string          `json:"purchase_number"`
	SupplierName   string          `json:"supplier_name"`
	FuelType       string          `json:"fuel_type"`
	Litres         decimal.Decimal `json:"litres"`
	Amount         decimal.Decimal `json:"amount"`
	PurchasedAt    time.Time       `json:"purchased_at"`
	RecordedBy     uuid.UUID       `json:"recorded_by"`
}

// EventType returns the event type name
func (e *FuelPurchaseRecordedEvent) EventType() string {
	return EventTypeFuelPurchaseRecorded
}

// NewFuelPurchaseRecordedEvent creates a new FuelPurchaseRecordedEvent
func NewFuelPurchaseRecordedEvent(
	tenantKey string,
	purchaseID uuid.UUID,
	purchaseNumber string,
	supplierName string,
	fuelType string,
	litres decimal.Decimal,
	amount decimal.Decimal,
	purchasedAt time.Time,
	recordedBy uuid.UUID,
) *FuelPurchaseRecordedEvent {
	return &FuelPurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFuelPurchaseRecorded, "FuelPurchase", purchaseID, tenantKey),
		PurchaseID:      purchaseID,
		PurchaseNumber:  purchaseNumber,
		SupplierName:    supplierName,
		FuelType:        fuelType,
		Litres:          litres,
		Amount:          amount,
		PurchasedAt:     purchasedAt,
		RecordedBy:      recordedBy,
	}
}
