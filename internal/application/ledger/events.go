package ledger

import (
	"context"

	"github.com/fuelops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishDomainEvents stamps pending events with the tenant key and hands
// them to the bus. Delivery failures are logged, never surfaced: the state
// change is already committed.
func publishDomainEvents(ctx context.Context, bus shared.EventPublisher, logger *zap.Logger, tenantKey string, root shared.AggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	for _, e := range events {
		if stamper, ok := e.(shared.TenantStamper); ok {
			stamper.SetTenantKey(tenantKey)
		}
	}
	if bus != nil {
		if err := bus.Publish(ctx, events...); err != nil {
			logger.Warn("failed to publish domain events",
				zap.String("tenant_key", tenantKey),
				zap.Error(err))
		}
	}
	root.ClearDomainEvents()
}
