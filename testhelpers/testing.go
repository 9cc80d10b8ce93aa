package testhelpers

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=stockflow_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates a test tenant for testing
func SetupTestTenant(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	query := `
		INSERT INTO tenants (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, tenantID, "Test Tenant", "active")
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	return tenantID
}

// SetupTestLocation creates a location row for testing
func SetupTestLocation(t *testing.T, db *TestDB, tenantID uuid.UUID, name, kind string, region *string) uuid.UUID {
	t.Helper()

	locationID := uuid.New()
	query := `
		INSERT INTO locations (id, tenant_id, name, kind, region, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, locationID, tenantID, name, kind, region)
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}

	return locationID
}

// SetupTestPosition creates a stock position row for testing
func SetupTestPosition(t *testing.T, db *TestDB, tenantID, locationID, itemID uuid.UUID, onHand, reserved, safetyStock int) uuid.UUID {
	t.Helper()

	positionID := uuid.New()
	query := `
		INSERT INTO stock_positions (id, tenant_id, location_id, item_id, on_hand, reserved, safety_stock, available, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, positionID, tenantID, locationID, itemID, onHand, reserved, safetyStock)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return positionID
}

// SetupTestDemandSignal creates a demand signal row for testing
func SetupTestDemandSignal(t *testing.T, db *TestDB, tenantID, locationID, itemID uuid.UUID, dailyVelocity float64) uuid.UUID {
	t.Helper()

	signalID := uuid.New()
	query := `
		INSERT INTO demand_signals (id, tenant_id, location_id, item_id, daily_velocity, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (tenant_id, location_id, item_id) DO UPDATE SET daily_velocity = EXCLUDED.daily_velocity, updated_at = NOW()
	`
	_, err := db.Pool.Exec(context.Background(), query, signalID, tenantID, locationID, itemID, dailyVelocity)
	if err != nil {
		t.Fatalf("Failed to create test demand signal: %v", err)
	}

	return signalID
}

// SetupTestConstraint creates a constraint row for testing
func SetupTestConstraint(t *testing.T, db *TestDB, tenantID uuid.UUID, name, value string) uuid.UUID {
	t.Helper()

	constraintID := uuid.New()
	query := `
		INSERT INTO rebalance_constraints (id, tenant_id, name, value, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		ON CONFLICT (tenant_id, name) DO UPDATE SET value = EXCLUDED.value, active = TRUE, updated_at = NOW()
	`
	_, err := db.Pool.Exec(context.Background(), query, constraintID, tenantID, name, value)
	if err != nil {
		t.Fatalf("Failed to create test constraint: %v", err)
	}

	return constraintID
}

// CleanupTestTenant removes the tenant's rows from every planning table.
func CleanupTestTenant(t *testing.T, db *TestDB, tenantID uuid.UUID) {
	t.Helper()

	tables := []string{
		"transfer_suggestions",
		"allocation_recommendations",
		"rebalance_runs",
		"rebalance_constraints",
		"demand_signals",
		"stock_positions",
		"locations",
	}
	for _, table := range tables {
		if _, err := db.Pool.Exec(context.Background(), "DELETE FROM "+table+" WHERE tenant_id = $1", tenantID); err != nil {
			t.Logf("Failed to clean table %s: %v", table, err)
		}
	}
	if _, err := db.Pool.Exec(context.Background(), "DELETE FROM tenants WHERE id = $1", tenantID); err != nil {
		t.Logf("Failed to clean tenant row: %v", err)
	}
}

// RunIfIntegration skips the test unless TEST_DATABASE_URL is set.
func RunIfIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
}

// Region builds a region pointer for location fixtures.
func Region(region string) *string {
	return &region
}
