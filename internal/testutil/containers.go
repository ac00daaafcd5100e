// Package testutil starts the backing services integration tests run
// against. Tests skip unless INTEGRATION is set or the service address is
// given through the environment.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func requireIntegration(t *testing.T, env string) string {
	t.Helper()
	if addr := os.Getenv(env); addr != "" {
		return addr
	}
	if os.Getenv("INTEGRATION") == "" {
		t.Skipf("set INTEGRATION=1 or %s to run against real services", env)
	}
	return ""
}

// PostgresURL returns POSTGRES_URL or the connection string of a fresh
// PostgreSQL container that is terminated when the test ends.
func PostgresURL(t *testing.T) string {
	t.Helper()
	if url := requireIntegration(t, "POSTGRES_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		postgres.WithDatabase("offercheck"),
		postgres.WithUsername("offercheck"),
		postgres.WithPassword("offercheck"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	return url
}

// RedisAddr returns REDIS_ADDR or the host:port of a fresh Redis container
// that is terminated when the test ends.
func RedisAddr(t *testing.T) string {
	t.Helper()
	if addr := requireIntegration(t, "REDIS_ADDR"); addr != "" {
		return addr
	}

	ctx := context.Background()
	container, err := redis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7"))
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	return strings.TrimPrefix(uri, "redis://")
}
