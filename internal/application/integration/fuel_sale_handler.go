// Package integration subscribes the ledger to station events. Each handler
// turns an operational fact (a fuel sale, a fuel delivery) into a posted
// voucher in the originating tenant's ledger.
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

// System account names the integration handlers post against
const (
	accountCashAtBank   = "Cash at Bank"
	accountFuelSales    = "Fuel Sales Revenue"
	accountFuelPurchase = "Fuel Purchase"
)

// FuelSaleCompletedHandler posts a Receipt voucher for every settled fuel
// sale: debit the bank account, credit sales revenue.
type FuelSaleCompletedHandler struct {
	resolver tenant.Resolver
	vouchers *appledger.VoucherService
	logger   *zap.Logger
}

// NewFuelSaleCompletedHandler creates a new FuelSaleCompletedHandler
func NewFuelSaleCompletedHandler(resolver tenant.Resolver, vouchers *appledger.VoucherService, logger *zap.Logger) *FuelSaleCompletedHandler {
	return &FuelSaleCompletedHandler{
		resolver: resolver,
		vouchers: vouchers,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *FuelSaleCompletedHandler) EventTypes() []string {
	return []string{station.EventTypeFuelSaleCompleted}
}

// Handle posts the sale to the tenant's ledger
func (h *FuelSaleCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sale, ok := event.(*station.FuelSaleCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	tenantKey := sale.TenantKey()
	bankID, salesID, err := h.postingAccounts(ctx, tenantKey)
	if err != nil {
		return err
	}

	recordedBy := sale.RecordedBy
	req := appledger.CreateVoucherRequest{
		VoucherDate:     sale.SoldAt,
		ReferenceNumber: sale.SaleNumber,
		Narration: fmt.Sprintf("Fuel sale %s: %s L of %s",
			sale.SaleNumber, sale.Litres.StringFixed(2), sale.FuelType),
		Lines: []appledger.VoucherLineRequest{
			{AccountID: bankID, Debit: sale.Amount, Description: "Sale proceeds"},
			{AccountID: salesID, Credit: sale.Amount, Description: "Fuel dispensed"},
		},
		CreatedBy: &recordedBy,
	}

	voucher, err := h.vouchers.CreateReceiptVoucher(ctx, tenantKey, req)
	if err != nil {
		return fmt.Errorf("failed to post receipt for sale %s: %w", sale.SaleNumber, err)
	}

	h.logger.Info("fuel sale posted to ledger",
		zap.String("tenant_key", tenantKey),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("voucher_number", voucher.VoucherNumber))
	return nil
}

func (h *FuelSaleCompletedHandler) postingAccounts(ctx context.Context, tenantKey string) (bank, sales uuid.UUID, err error) {
	d, err := h.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	bankAccount, err := d.Accounts.FindByName(ctx, accountCashAtBank)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	salesAccount, err := d.Accounts.FindByName(ctx, accountFuelSales)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if bankAccount == nil || salesAccount == nil {
		return uuid.Nil, uuid.Nil, shared.NewDomainError("NOT_FOUND",
			"Built-in posting accounts are missing; seed the chart of accounts first")
	}
	return bankAccount.ID, salesAccount.ID, nil
}

// Ensure FuelSaleCompletedHandler implements EventHandler
var _ shared.EventHandler = (*FuelSaleCompletedHandler)(nil)
