package rebalance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow/internal/models"
)

func TestPushPlanner_WarehousePush(t *testing.T) {
	// One warehouse with 100 units to spare, one empty store selling 10/day.
	// Desired top-up is ceil(2*10*7)=140, capped by what the warehouse has.
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC North")
	store := testStore("Store A", "north")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, store},
		[]*models.StockPosition{testPosition(wh, itemX, 100, 0, 0)},
		[]*models.DemandSignal{testSignal(store, itemX, 10)},
	)

	suggestions, ledger := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, models.TransferKindPush, s.Kind)
	assert.Equal(t, wh.ID, s.FromLocationID)
	assert.Equal(t, store.ID, s.ToLocationID)
	assert.Equal(t, 100, s.Quantity)
	assert.Equal(t, models.PriorityP1, s.Priority)
	assert.Equal(t, 0.0, s.ToCoverBefore)
	assert.Equal(t, models.SuggestionStatusPending, s.Status)
	assert.Equal(t, 100, ledger.Delta(store.ID, itemX))
}

func TestPushPlanner_ZeroVelocityZeroStockSkipped(t *testing.T) {
	// A store with neither a position row nor a demand signal is a shortage
	// candidate (cover 0) but wants nothing, so no zero-quantity suggestion.
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	deadStore := testStore("Dormant", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, deadStore},
		[]*models.StockPosition{testPosition(wh, itemX, 500, 0, 0)},
		nil,
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	assert.Empty(t, suggestions)
}

func TestPushPlanner_NeverExceedsAvailable(t *testing.T) {
	// Three hungry stores against 60 spare units: total pushed stays capped.
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	s1 := testStore("S1", "")
	s2 := testStore("S2", "")
	s3 := testStore("S3", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, s1, s2, s3},
		[]*models.StockPosition{testPosition(wh, itemX, 100, 20, 20)},
		[]*models.DemandSignal{
			testSignal(s1, itemX, 5),
			testSignal(s2, itemX, 5),
			testSignal(s3, itemX, 5),
		},
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	total := 0
	for _, s := range suggestions {
		assert.Greater(t, s.Quantity, 0)
		total += s.Quantity
	}
	assert.Equal(t, 60, total)
}

func TestPushPlanner_MostUrgentStoreFirst(t *testing.T) {
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	healthy := testStore("Healthy", "")
	empty := testStore("Empty", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, healthy, empty},
		[]*models.StockPosition{
			testPosition(wh, itemX, 50, 0, 0),
			testPosition(healthy, itemX, 70, 0, 0), // 1 week of cover at 10/day
		},
		[]*models.DemandSignal{
			testSignal(healthy, itemX, 10),
			testSignal(empty, itemX, 10),
		},
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	require.NotEmpty(t, suggestions)
	assert.Equal(t, empty.ID, suggestions[0].ToLocationID)
	// The empty store wanted 140 and the warehouse only had 50, so the
	// healthier store gets nothing.
	require.Len(t, suggestions, 1)
	assert.Equal(t, 50, suggestions[0].Quantity)
}

func TestPushPlanner_ReservedAndSafetyExcluded(t *testing.T) {
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	store := testStore("S", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, store},
		[]*models.StockPosition{testPosition(wh, itemX, 100, 60, 40)},
		[]*models.DemandSignal{testSignal(store, itemX, 10)},
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	assert.Empty(t, suggestions)
}

func TestPushPlanner_MultiplePositionRowsAggregated(t *testing.T) {
	// Two batch rows at the warehouse for the same item sum before planning.
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	store := testStore("S", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, store},
		[]*models.StockPosition{
			testPosition(wh, itemX, 30, 0, 0),
			testPosition(wh, itemX, 70, 0, 0),
		},
		[]*models.DemandSignal{testSignal(store, itemX, 10)},
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	require.Len(t, suggestions, 1)
	assert.Equal(t, 100, suggestions[0].Quantity)
}

func TestPushPlanner_NetBenefitComputedButNotGating(t *testing.T) {
	// Near-zero velocity makes the move uneconomic, but push remediation is
	// unconditional below minimum cover.
	tenantID := uuid.New()
	itemX := uuid.New()
	wh := testWarehouse("DC")
	store := testStore("S", "")

	snap := BuildSnapshot(tenantID,
		[]*models.Location{wh, store},
		[]*models.StockPosition{testPosition(wh, itemX, 100, 0, 0)},
		[]*models.DemandSignal{testSignal(store, itemX, 0.005)},
	)

	suggestions, _ := NewPushPlanner(DefaultEconomics()).Plan(snap, DefaultConfig())

	require.Len(t, suggestions, 1)
	assert.Equal(t, 1, suggestions[0].Quantity)
	assert.True(t, suggestions[0].NetBenefit.IsNegative())
}
