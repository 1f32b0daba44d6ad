package integration

import (
	"context"
	"fmt"

	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/fuelops/backend/internal/domain/station"
	"github.com/fuelops/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FuelPurchaseRecordedHandler posts a Payment voucher for every booked fuel
// delivery: debit fuel purchase expense, credit the bank account.
type FuelPurchaseRecordedHandler struct {
	resolver tenant.Resolver
	vouchers *appledger.VoucherService
	logger   *zap.Logger
}

// NewFuelPurchaseRecordedHandler creates a new FuelPurchaseRecordedHandler
func NewFuelPurchaseRecordedHandler(resolver tenant.Resolver, vouchers *appledger.VoucherService, logger *zap.Logger) *FuelPurchaseRecordedHandler {
	return &FuelPurchaseRecordedHandler{
		resolver: resolver,
		vouchers: vouchers,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *FuelPurchaseRecordedHandler) EventTypes() []string {
	return []string{station.EventTypeFuelPurchaseRecorded}
}

// Handle posts the purchase to the tenant's ledger
func (h *FuelPurchaseRecordedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	purchase, ok := event.(*station.FuelPurchaseRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	tenantKey := purchase.TenantKey()
	expenseID, bankID, err := h.postingAccounts(ctx, tenantKey)
	if err != nil {
		return err
	}

	recordedBy := purchase.RecordedBy
	req := appledger.CreateVoucherRequest{
		VoucherDate:     purchase.PurchasedAt,
		ReferenceNumber: purchase.PurchaseNumber,
		Narration: fmt.Sprintf("Fuel purchase %s from %s: %s L of %s",
			purchase.PurchaseNumber, purchase.SupplierName,
			purchase.Litres.StringFixed(2), purchase.FuelType),
		Lines: []appledger.VoucherLineRequest{
			{AccountID: expenseID, Debit: purchase.Amount, Description: "Fuel delivered"},
			{AccountID: bankID, Credit: purchase.Amount, Description: "Supplier payment"},
		},
		CreatedBy: &recordedBy,
	}

	voucher, err := h.vouchers.CreatePaymentVoucher(ctx, tenantKey, req)
	if err != nil {
		return fmt.Errorf("failed to post payment for purchase %s: %w", purchase.PurchaseNumber, err)
	}

	h.logger.Info("fuel purchase posted to ledger",
		zap.String("tenant_key", tenantKey),
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("voucher_number", voucher.VoucherNumber))
	return nil
}

func (h *FuelPurchaseRecordedHandler) postingAccounts(ctx context.Context, tenantKey string) (expense, bank uuid.UUID, err error) {
	d, err := h.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	expenseAccount, err := d.Accounts.FindByName(ctx, accountFuelPurchase)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	bankAccount, err := d.Accounts.FindByName(ctx, accountCashAtBank)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if expenseAccount == nil || bankAccount == nil {
		return uuid.Nil, uuid.Nil, shared.NewDomainError("NOT_FOUND",
			"Built-in posting accounts are missing; seed the chart of accounts first")
	}
	return expenseAccount.ID, bankAccount.ID, nil
}

// Ensure FuelPurchaseRecordedHandler implements EventHandler
var _ shared.EventHandler = (*FuelPurchaseRecordedHandler)(nil)
