// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orovela/joyeria-be/internal/adapters/dynamo"
	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestDynamo represents a dynamodb-local container
type TestDynamo struct {
	Client   *dynamo.Client
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *dynamo.Config
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupTestDynamo starts a dynamodb-local container for integration tests
// and creates the item table with its material index.
func SetupTestDynamo(t *testing.T) *TestDynamo {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "amazon/dynamodb-local",
		Tag:        "latest",
		Cmd:        []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start dynamodb-local container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	cfg := &dynamo.Config{
		Region:          "us-east-1",
		Table:           "joyeria-items-test",
		MaterialIndex:   "byMaterial",
		AccessKeyID:     "local",
		SecretAccessKey: "local",
		Endpoint:        fmt.Sprintf("http://localhost:%s", resource.GetPort("8000/tcp")),
		ConnectTimeout:  5 * time.Second,
	}

	ctx := context.Background()
	var client *dynamo.Client
	err = pool.Retry(func() error {
		var err error
		client, err = dynamo.NewClient(ctx, cfg, TestLogger())
		if err != nil {
			return err
		}
		return client.EnsureTable(ctx)
	})
	require.NoError(t, err, "Could not connect to dynamodb-local")

	return &TestDynamo{
		Client:   client,
		Resource: resource,
		Pool:     pool,
		Config:   cfg,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Dynamo: config.DynamoConfig{
			Region:         "us-east-1",
			Table:          "joyeria-items-test",
			MaterialIndex:  "byMaterial",
			ConnectTimeout: 5 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Alerts: config.AlertsConfig{
			LowStockGrams:   20,
			OverweightKilos: 4,
			DebounceWindow:  500 * time.Millisecond,
			NotifyEmail:     "owner@example.com",
			FromEmail:       "alerts@example.com",
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestItem creates a test jewelry item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	now := time.Now().UTC().Truncate(time.Second)
	item := &domain.Item{
		ID:            uuid.New(),
		Name:          "Gold Wedding Band",
		EntryDate:     now.AddDate(0, -1, 0),
		Material:      domain.MaterialGold,
		UnitWeight:    4.5,
		Quantity:      2,
		PurchasePrice: decimal.NewFromFloat(350.00),
		Description:   "18k classic band, polished finish",
		UpdatedAt:     now,
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestItems creates multiple test jewelry items
func CreateTestItems(count int) []domain.Item {
	items := make([]domain.Item, count)

	materials := []domain.MaterialType{
		domain.MaterialGold,
		domain.MaterialSilver,
		domain.MaterialPlatinum,
		domain.MaterialWhiteGold,
		domain.MaterialSteel,
	}

	for i := 0; i < count; i++ {
		items[i] = *CreateTestItem(func(item *domain.Item) {
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.Material = materials[i%len(materials)]
			item.UnitWeight = float64(i%10) + 1.5
			item.Quantity = i%3 + 1
			item.PurchasePrice = decimal.NewFromFloat(float64(100 + i*50))
		})
	}

	return items
}

// CompareItems compares the persisted fields of two items
func CompareItems(t *testing.T, expected, actual *domain.Item) {
	t.Helper()

	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.Name, actual.Name)
	require.Equal(t, expected.Material, actual.Material)
	require.InDelta(t, expected.UnitWeight, actual.UnitWeight, 1e-9)
	require.Equal(t, expected.Quantity, actual.Quantity)
	require.True(t, expected.PurchasePrice.Equal(actual.PurchasePrice),
		"purchase price %s != %s", expected.PurchasePrice, actual.PurchasePrice)
	require.Equal(t, expected.Sold, actual.Sold)
	require.Equal(t, expected.Description, actual.Description)
}
