package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/fuelops/backend/internal/domain/tenant"
	"github.com/fuelops/backend/internal/infrastructure/config"
	"github.com/fuelops/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Opener connects to one tenant's database. Injected so tests can supply
// in-memory databases instead of Postgres.
type Opener func(conn domain.Connection) (*persistence.Database, error)

// Initializer runs once against a freshly opened tenant domain, before it
// becomes visible to callers. Used to seed required rows.
type Initializer func(ctx context.Context, d *domain.Domain) error

// CachingResolver resolves tenant keys to initialized domains. Each key is
// initialized at most once across concurrent callers; successful domains are
// cached for the process lifetime, failures are never cached.
type CachingResolver struct {
	registry    domain.Registry
	dbConfig    config.DatabaseConfig
	open        Opener
	initializer Initializer
	log         *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	domains map[string]*cachedDomain
}

type cachedDomain struct {
	domain *domain.Domain
	db     *persistence.Database
}

// Option customizes a CachingResolver
type Option func(*CachingResolver)

// WithOpener overrides how tenant databases are opened
func WithOpener(open Opener) Option {
	return func(r *CachingResolver) { r.open = open }
}

// WithInitializer sets a hook that runs once per tenant after the schema is
// ready and before the domain is cached
func WithInitializer(init Initializer) Option {
	return func(r *CachingResolver) { r.initializer = init }
}

// NewCachingResolver creates a resolver backed by the given registry
func NewCachingResolver(registry domain.Registry, dbConfig config.DatabaseConfig, log *zap.Logger, opts ...Option) *CachingResolver {
	r := &CachingResolver{
		registry: registry,
		dbConfig: dbConfig,
		log:      log,
		domains:  make(map[string]*cachedDomain),
	}
	r.open = func(conn domain.Connection) (*persistence.Database, error) {
		return persistence.Open(conn, &r.dbConfig, nil)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the tenant's domain, initializing it on first use.
// Concurrent resolves of the same key share one initialization; every caller
// of a failed initialization receives the error and a later resolve retries.
func (r *CachingResolver) Resolve(ctx context.Context, tenantKey string) (*domain.Domain, error) {
	r.mu.RLock()
	cached, ok := r.domains[tenantKey]
	r.mu.RUnlock()
	if ok {
		return cached.domain, nil
	}

	result, err, _ := r.group.Do(tenantKey, func() (any, error) {
		// A concurrent caller may have finished while we queued.
		r.mu.RLock()
		cached, ok := r.domains[tenantKey]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		entry, err := r.initialize(ctx, tenantKey)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.domains[tenantKey] = entry
		r.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*cachedDomain).domain, nil
}

func (r *CachingResolver) initialize(ctx context.Context, tenantKey string) (*cachedDomain, error) {
	conn, err := r.registry.LookupConnection(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	db, err := r.open(conn)
	if err != nil {
		return nil, domain.NewInitializationError(tenantKey, err)
	}

	if r.dbConfig.AlignSchema {
		if err := db.DB.AutoMigrate(persistence.LedgerModels()...); err != nil {
			r.closeQuietly(tenantKey, db)
			return nil, domain.NewInitializationError(tenantKey, fmt.Errorf("schema alignment failed: %w", err))
		}
	}

	d := &domain.Domain{
		Key:      tenantKey,
		Accounts: persistence.NewGormAccountRepository(db.DB),
		Vouchers: persistence.NewGormVoucherRepository(db.DB),
		Reports:  persistence.NewGormReportRepository(db.DB),
	}

	if r.initializer != nil {
		if err := r.initializer(ctx, d); err != nil {
			r.closeQuietly(tenantKey, db)
			return nil, domain.NewInitializationError(tenantKey, err)
		}
	}

	r.log.Info("tenant domain initialized",
		zap.String("tenant_key", tenantKey),
		zap.String("database", conn.DBName))
	return &cachedDomain{domain: d, db: db}, nil
}

func (r *CachingResolver) closeQuietly(tenantKey string, db *persistence.Database) {
	if err := db.Close(); err != nil {
		r.log.Warn("failed to close tenant database after init failure",
			zap.String("tenant_key", tenantKey), zap.Error(err))
	}
}

// Evict removes a tenant's cached domain and closes its connection. The next
// resolve reinitializes from scratch.
func (r *CachingResolver) Evict(tenantKey string) {
	r.mu.Lock()
	cached, ok := r.domains[tenantKey]
	delete(r.domains, tenantKey)
	r.mu.Unlock()
	if ok {
		r.closeQuietly(tenantKey, cached.db)
	}
}

// Close closes every cached tenant connection. Called on shutdown.
func (r *CachingResolver) Close() error {
	r.mu.Lock()
	domains := r.domains
	r.domains = make(map[string]*cachedDomain)
	r.mu.Unlock()

	var errs []error
	for key, cached := range domains {
		if err := cached.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tenant %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// DB exposes a cached tenant's raw connection for migrations and health
// checks. Returns nil when the tenant is not yet resolved.
func (r *CachingResolver) DB(tenantKey string) *gorm.DB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cached, ok := r.domains[tenantKey]; ok {
		return cached.db.DB
	}
	return nil
}
