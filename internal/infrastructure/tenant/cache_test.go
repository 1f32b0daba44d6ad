package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	domain "github.com/fuelops/backend/internal/domain/tenant"
	"github.com/fuelops/backend/internal/infrastructure/config"
	"github.com/fuelops/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testRegistry(keys ...string) *ConfigRegistry {
	cfg := config.RegistryConfig{}
	for _, key := range keys {
		cfg.Tenants = append(cfg.Tenants, config.TenantEntry{
			Key:    key,
			Host:   "localhost",
			Port:   5432,
			User:   "test",
			DBName: "fuelops_" + key,
		})
	}
	return NewConfigRegistry(cfg, config.DatabaseConfig{SSLMode: "disable"})
}

// sqliteOpener opens an isolated in-memory database per call and counts how
// often it runs.
func sqliteOpener(opens *atomic.Int64) Opener {
	return func(conn domain.Connection) (*persistence.Database, error) {
		opens.Add(1)
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, err
		}
		return persistence.NewFromGorm(db), nil
	}
}

func newTestResolver(t *testing.T, registry *ConfigRegistry, opts ...Option) (*CachingResolver, *atomic.Int64) {
	t.Helper()
	opens := &atomic.Int64{}
	allOpts := append([]Option{WithOpener(sqliteOpener(opens))}, opts...)
	resolver := NewCachingResolver(registry,
		config.DatabaseConfig{AlignSchema: true},
		zap.NewNop(),
		allOpts...,
	)
	t.Cleanup(func() {
		_ = resolver.Close()
	})
	return resolver, opens
}

func TestCachingResolver_Resolve(t *testing.T) {
	t.Run("initializes a registered tenant once", func(t *testing.T) {
		resolver, opens := newTestResolver(t, testRegistry("station-north"))

		d, err := resolver.Resolve(context.Background(), "station-north")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "station-north", d.Key)
		assert.NotNil(t, d.Accounts)
		assert.NotNil(t, d.Vouchers)
		assert.NotNil(t, d.Reports)

		again, err := resolver.Resolve(context.Background(), "station-north")
		require.NoError(t, err)
		assert.Same(t, d, again)
		assert.Equal(t, int64(1), opens.Load())
	})

	t.Run("unknown tenant returns ErrUnknownTenant untouched", func(t *testing.T) {
		resolver, opens := newTestResolver(t, testRegistry("station-north"))

		_, err := resolver.Resolve(context.Background(), "station-ghost")
		require.ErrorIs(t, err, domain.ErrUnknownTenant)

		var initErr *domain.InitializationError
		assert.False(t, errors.As(err, &initErr), "registry misses are not initialization failures")
		assert.Equal(t, int64(0), opens.Load())
	})

	t.Run("separate tenants get separate domains", func(t *testing.T) {
		resolver, opens := newTestResolver(t, testRegistry("station-north", "station-south"))

		north, err := resolver.Resolve(context.Background(), "station-north")
		require.NoError(t, err)
		south, err := resolver.Resolve(context.Background(), "station-south")
		require.NoError(t, err)

		assert.NotSame(t, north, south)
		assert.Equal(t, int64(2), opens.Load())
	})

	t.Run("concurrent resolves share one initialization", func(t *testing.T) {
		resolver, opens := newTestResolver(t, testRegistry("station-north"))

		const callers = 32
		domains := make([]*domain.Domain, callers)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				d, err := resolver.Resolve(context.Background(), "station-north")
				require.NoError(t, err)
				domains[i] = d
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int64(1), opens.Load())
		for i := 1; i < callers; i++ {
			assert.Same(t, domains[0], domains[i])
		}
	})
}

func TestCachingResolver_FailuresNotCached(t *testing.T) {
	t.Run("open failure is retried on the next resolve", func(t *testing.T) {
		var opens, attempts atomic.Int64
		working := sqliteOpener(&opens)
		resolver := NewCachingResolver(testRegistry("station-north"),
			config.DatabaseConfig{AlignSchema: true},
			zap.NewNop(),
			WithOpener(func(conn domain.Connection) (*persistence.Database, error) {
				if attempts.Add(1) == 1 {
					return nil, errors.New("connection refused")
				}
				return working(conn)
			}),
		)
		t.Cleanup(func() { _ = resolver.Close() })

		_, err := resolver.Resolve(context.Background(), "station-north")
		require.Error(t, err)
		var initErr *domain.InitializationError
		require.ErrorAs(t, err, &initErr)
		assert.Equal(t, "station-north", initErr.TenantKey)

		d, err := resolver.Resolve(context.Background(), "station-north")
		require.NoError(t, err)
		assert.NotNil(t, d)
	})

	t.Run("initializer failure is wrapped and not cached", func(t *testing.T) {
		var attempts atomic.Int64
		registry := testRegistry("station-north")
		resolver, _ := newTestResolver(t, registry,
			WithInitializer(func(ctx context.Context, d *domain.Domain) error {
				if attempts.Add(1) == 1 {
					return errors.New("seed failed")
				}
				return nil
			}),
		)

		_, err := resolver.Resolve(context.Background(), "station-north")
		var initErr *domain.InitializationError
		require.ErrorAs(t, err, &initErr)

		d, err := resolver.Resolve(context.Background(), "station-north")
		require.NoError(t, err)
		assert.NotNil(t, d)
		assert.Equal(t, int64(2), attempts.Load())
	})
}

func TestCachingResolver_Evict(t *testing.T) {
	resolver, opens := newTestResolver(t, testRegistry("station-north"))

	first, err := resolver.Resolve(context.Background(), "station-north")
	require.NoError(t, err)

	resolver.Evict("station-north")

	second, err := resolver.Resolve(context.Background(), "station-north")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int64(2), opens.Load())
}

func TestCachingResolver_DB(t *testing.T) {
	resolver, _ := newTestResolver(t, testRegistry("station-north"))

	assert.Nil(t, resolver.DB("station-north"))

	_, err := resolver.Resolve(context.Background(), "station-north")
	require.NoError(t, err)
	assert.NotNil(t, resolver.DB("station-north"))
	assert.Nil(t, resolver.DB("station-ghost"))
}

func TestConfigRegistry(t *testing.T) {
	t.Run("lookup returns connection with default ssl mode", func(t *testing.T) {
		cfg := config.RegistryConfig{Tenants: []config.TenantEntry{
			{Key: "a", Host: "db-a", Port: 5432, User: "u", Password: "p", DBName: "fuelops_a"},
			{Key: "b", Host: "db-b", Port: 5433, User: "u", DBName: "fuelops_b", SSLMode: "require"},
		}}
		registry := NewConfigRegistry(cfg, config.DatabaseConfig{SSLMode: "disable"})

		connA, err := registry.LookupConnection(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "disable", connA.SSLMode)
		assert.Contains(t, connA.DSN(), "dbname=fuelops_a")

		connB, err := registry.LookupConnection(context.Background(), "b")
		require.NoError(t, err)
		assert.Equal(t, "require", connB.SSLMode)
	})

	t.Run("unknown key", func(t *testing.T) {
		registry := testRegistry("a")
		_, err := registry.LookupConnection(context.Background(), "zzz")
		assert.ErrorIs(t, err, domain.ErrUnknownTenant)
	})

	t.Run("keys lists every tenant", func(t *testing.T) {
		registry := testRegistry("a", "b", "c")
		assert.ElementsMatch(t, []string{"a", "b", "c"}, registry.Keys())
	})
}
