// Package tenant defines the tenant-resolution contracts of the platform.
// Every tenant owns an isolated database; resolving a tenant key yields a
// fully initialized Domain bound to that database.
package tenant

import (
	"context"
	"fmt"

	"github.com/fuelops/backend/internal/domain/ledger"
	"github.com/fuelops/backend/internal/domain/shared"
)

// Connection holds the parameters needed to reach one tenant's database
type Connection struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the connection as a Postgres DSN
func (c Connection) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// Registry maps an opaque tenant key to connection parameters
type Registry interface {
	// LookupConnection returns the connection parameters for the tenant,
	// or ErrUnknownTenant if no entry exists.
	LookupConnection(ctx context.Context, tenantKey string) (Connection, error)
}

// Domain is one tenant's fully initialized data context. It is owned by the
// resolver cache and shared by every request for the tenant.
type Domain struct {
	Key      string
	Accounts ledger.AccountRepository
	Vouchers ledger.VoucherRepository
	Reports  ledger.ReportRepository
}

// Resolver resolves a tenant key to its initialized Domain. Implementations
// must initialize each key at most once under concurrent access, cache the
// result, and not cache failures.
type Resolver interface {
	Resolve(ctx context.Context, tenantKey string) (*Domain, error)
}

// ErrUnknownTenant is returned when no registry entry exists for the key.
// The request cannot be retried; the tenant simply does not exist.
var ErrUnknownTenant = shared.NewDomainError("UNKNOWN_TENANT", "No tenant is registered under this key")

// InitializationError reports a failed tenant domain initialization.
// A later resolve for the same key retries cleanly.
type InitializationError struct {
	TenantKey string
	Err       error
}

// Error implements the error interface
func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize tenant domain %q: %v", e.TenantKey, e.Err)
}

// Unwrap returns the underlying cause
func (e *InitializationError) Unwrap() error {
	return e.Err
}

// NewInitializationError wraps an initialization failure for a tenant key
func NewInitializationError(tenantKey string, err error) *InitializationError {
	return &InitializationError{TenantKey: tenantKey, Err: err}
}
