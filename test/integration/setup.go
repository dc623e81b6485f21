package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema, notify triggers included
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema applies the migration so the tests run against the exact
// schema and notify triggers the service uses.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}

	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedMenu inserts test menu items and returns their ids keyed by name.
func SeedMenu(t *testing.T, pool *pgxpool.Pool) map[string]uuid.UUID {
	t.Helper()

	ctx := context.Background()

	items := []struct {
		name      string
		price     string
		category  string
		available bool
	}{
		{"Chai", "1.20", "drinks", true},
		{"Filter Coffee", "1.50", "drinks", true},
		{"Samosa", "2.50", "snacks", true},
		{"Veg Thali", "6.00", "mains", true},
		{"Day-Old Special", "0.50", "snacks", false},
	}

	ids := make(map[string]uuid.UUID, len(items))
	for _, it := range items {
		id := uuid.New()
		price, err := decimal.NewFromString(it.price)
		if err != nil {
			t.Fatalf("bad seed price %s: %v", it.price, err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO menu_items (id, name, price, category, available, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, now(), now())`,
			id, it.name, price, it.category, it.available,
		)
		if err != nil {
			t.Fatalf("failed to seed menu item %s: %v", it.name, err)
		}
		ids[it.name] = id
	}
	return ids
}

// SeedStaff inserts a staff user and returns its credentials.
func SeedStaff(t *testing.T, pool *pgxpool.Pool) (email, password string) {
	t.Helper()

	email, password = "staff@example.com", "changeme"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO staff_users (id, email, password_hash, created_at) VALUES ($1, $2, $3, now())`,
		uuid.New(), email, string(hash),
	)
	if err != nil {
		t.Fatalf("failed to seed staff user: %v", err)
	}
	return email, password
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "menu_items", "staff_users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
