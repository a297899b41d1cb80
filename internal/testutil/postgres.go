// Package testutil starts throwaway PostgreSQL instances for integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
	"github.com/Robak132/MacrosCompanionModules/internal/storage/postgres"
)

const postgresImage = "postgres:16-alpine"

// Postgres is a migrated database running in a container for one test.
type Postgres struct {
	Pool   *postgres.Pool
	Config config.DatabaseConfig
}

// NewPostgres starts a container, applies the repository's migrations and
// connects a Pool. The test is skipped when no container runtime is
// reachable; the container is removed when the test ends.
func NewPostgres(t *testing.T) *Postgres {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	start := time.Now()

	cfg := startContainer(ctx, t)
	res, err := postgres.Migrate(cfg.DSN(), MigrationsDir(), "up", 0)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	t.Logf("postgres ready at schema version %d [%s]", res.Version, time.Since(start))
	return &Postgres{Pool: pool, Config: cfg}
}

func startContainer(ctx context.Context, t *testing.T) config.DatabaseConfig {
	t.Helper()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "macros",
				"POSTGRES_PASSWORD": "macros",
				"POSTGRES_DB":       "macros",
			},
			// The entrypoint restarts the server once after initdb.
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("starting %s: %v", postgresImage, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return config.DatabaseConfig{
		Enabled:         true,
		Host:            host,
		Port:            port.Int(),
		User:            "macros",
		Password:        "macros",
		Name:            "macros",
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
}

// DSN returns the connection string for the test database.
func (p *Postgres) DSN() string {
	return p.Config.DSN()
}

// MigrationsDir returns the absolute path of the repository's migrations directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
