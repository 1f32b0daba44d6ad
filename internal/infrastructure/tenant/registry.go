// Package tenant implements tenant resolution: a config-backed registry
// mapping tenant keys to database connections, and a caching resolver that
// initializes each tenant's domain at most once.
package tenant

import (
	"context"

	domain "github.com/fuelops/backend/internal/domain/tenant"
	"github.com/fuelops/backend/internal/infrastructure/config"
)

// ConfigRegistry serves tenant connections from the static registry section
// of the application configuration. The registry is immutable after load;
// adding a tenant is a config change plus restart.
type ConfigRegistry struct {
	entries map[string]domain.Connection
}

// NewConfigRegistry builds a registry from the loaded configuration
func NewConfigRegistry(cfg config.RegistryConfig, defaults config.DatabaseConfig) *ConfigRegistry {
	entries := make(map[string]domain.Connection, len(cfg.Tenants))
	for _, t := range cfg.Tenants {
		sslMode := t.SSLMode
		if sslMode == "" {
			sslMode = defaults.SSLMode
		}
		entries[t.Key] = domain.Connection{
			Host:     t.Host,
			Port:     t.Port,
			User:     t.User,
			Password: t.Password,
			DBName:   t.DBName,
			SSLMode:  sslMode,
		}
	}
	return &ConfigRegistry{entries: entries}
}

// LookupConnection returns the connection parameters for the tenant key
func (r *ConfigRegistry) LookupConnection(_ context.Context, tenantKey string) (domain.Connection, error) {
	conn, ok := r.entries[tenantKey]
	if !ok {
		return domain.Connection{}, domain.ErrUnknownTenant
	}
	return conn, nil
}

// Keys returns every registered tenant key
func (r *ConfigRegistry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}
