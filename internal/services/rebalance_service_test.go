package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockflow/internal/models"
	"stockflow/internal/rebalance"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Mock repositories and cache

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, run *models.RebalanceRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) CompleteWithSuggestions(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, suggestions []*models.TransferSuggestion) error {
	args := m.Called(ctx, tenantID, id, totals, suggestions)
	return args.Error(0)
}

func (m *MockRunRepository) CompleteWithRecommendations(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, recommendations []*models.AllocationRecommendation) error {
	args := m.Called(ctx, tenantID, id, totals, recommendations)
	return args.Error(0)
}

func (m *MockRunRepository) MarkFailed(ctx context.Context, tenantID, id uuid.UUID, errorMessage string) error {
	args := m.Called(ctx, tenantID, id, errorMessage)
	return args.Error(0)
}

func (m *MockRunRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RebalanceRun, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RebalanceRun), args.Error(1)
}

func (m *MockRunRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RebalanceRun, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.RebalanceRun), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, location *models.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, location *models.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Location, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Location), args.Error(1)
}

type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) Create(ctx context.Context, position *models.StockPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.StockPosition, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

func (m *MockPositionRepository) ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]*models.StockPosition, error) {
	args := m.Called(ctx, tenantID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

type MockDemandRepository struct {
	mock.Mock
}

func (m *MockDemandRepository) Upsert(ctx context.Context, signal *models.DemandSignal) error {
	args := m.Called(ctx, signal)
	return args.Error(0)
}

func (m *MockDemandRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.DemandSignal, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DemandSignal), args.Error(1)
}

type MockConstraintRepository struct {
	mock.Mock
}

func (m *MockConstraintRepository) Upsert(ctx context.Context, constraint *models.Constraint) error {
	args := m.Called(ctx, constraint)
	return args.Error(0)
}

func (m *MockConstraintRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Constraint), args.Error(1)
}

func (m *MockConstraintRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Constraint), args.Error(1)
}

type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.TransferSuggestion, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransferSuggestion), args.Error(1)
}

type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.AllocationRecommendation, error) {
	args := m.Called(ctx, tenantID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AllocationRecommendation), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetConfig(ctx context.Context, tenantID uuid.UUID) (*rebalance.Config, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rebalance.Config), args.Error(1)
}

func (m *MockCacheService) SetConfig(ctx context.Context, tenantID uuid.UUID, cfg rebalance.Config, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, cfg, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteConfig(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockCacheService) GetLatestRun(ctx context.Context, tenantID uuid.UUID, runType string) (*models.RebalanceRun, error) {
	args := m.Called(ctx, tenantID, runType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RebalanceRun), args.Error(1)
}

func (m *MockCacheService) SetLatestRun(ctx context.Context, tenantID uuid.UUID, run *models.RebalanceRun, ttl time.Duration) error {
	args := m.Called(ctx, tenantID, run, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type RebalanceServiceTestSuite struct {
	suite.Suite
	runRepo        *MockRunRepository
	locationRepo   *MockLocationRepository
	positionRepo   *MockPositionRepository
	demandRepo     *MockDemandRepository
	constraintRepo *MockConstraintRepository
	suggestionRepo *MockSuggestionRepository
	recommendRepo  *MockRecommendationRepository
	cache          *MockCacheService
	service        RebalanceService
	tenantID       uuid.UUID
	ctx            context.Context
}

func (suite *RebalanceServiceTestSuite) SetupTest() {
	suite.runRepo = new(MockRunRepository)
	suite.locationRepo = new(MockLocationRepository)
	suite.positionRepo = new(MockPositionRepository)
	suite.demandRepo = new(MockDemandRepository)
	suite.constraintRepo = new(MockConstraintRepository)
	suite.suggestionRepo = new(MockSuggestionRepository)
	suite.recommendRepo = new(MockRecommendationRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewRebalanceService(
		rebalance.NewEngine(),
		suite.runRepo, suite.locationRepo, suite.positionRepo,
		suite.demandRepo, suite.constraintRepo,
		suite.suggestionRepo, suite.recommendRepo, suite.cache,
	)
	suite.tenantID = uuid.New()
	suite.ctx = context.Background()
}

func TestRebalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RebalanceServiceTestSuite))
}

// fixture: one warehouse with deep stock, one store selling 10/day holding
// 10 units. The push planner must move exactly 130 units to reach two weeks
// of cover.
func (suite *RebalanceServiceTestSuite) fixtureInputs() ([]*models.Location, []*models.StockPosition, []*models.DemandSignal) {
	warehouse := &models.Location{ID: uuid.New(), TenantID: suite.tenantID, Name: "Central DC", Kind: models.LocationKindWarehouse, Active: true}
	store := &models.Location{ID: uuid.New(), TenantID: suite.tenantID, Name: "Downtown", Kind: models.LocationKindStore, Active: true}
	itemID := uuid.New()

	positions := []*models.StockPosition{
		{ID: uuid.New(), TenantID: suite.tenantID, LocationID: warehouse.ID, ItemID: itemID, OnHand: 1000},
		{ID: uuid.New(), TenantID: suite.tenantID, LocationID: store.ID, ItemID: itemID, OnHand: 10},
	}
	signals := []*models.DemandSignal{
		{ID: uuid.New(), TenantID: suite.tenantID, LocationID: store.ID, ItemID: itemID, DailyVelocity: 10},
	}
	return []*models.Location{warehouse, store}, positions, signals
}

func (suite *RebalanceServiceTestSuite) expectConfigLoad() {
	suite.cache.On("GetConfig", suite.ctx, suite.tenantID).Return(nil, nil)
	suite.constraintRepo.On("ListActive", suite.ctx, suite.tenantID).Return([]*models.Constraint{}, nil)
	suite.cache.On("SetConfig", suite.ctx, suite.tenantID, mock.AnythingOfType("rebalance.Config"), mock.Anything).Return(nil)
}

func (suite *RebalanceServiceTestSuite) TestRebalance_Success() {
	locations, positions, signals := suite.fixtureInputs()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(positions, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(signals, nil)

	var inserted []*models.TransferSuggestion
	var totals models.RunTotals
	suite.runRepo.On("CompleteWithSuggestions", suite.ctx, suite.tenantID, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			totals = args.Get(3).(models.RunTotals)
			inserted = args.Get(4).([]*models.TransferSuggestion)
		}).Return(nil)
	suite.cache.On("SetLatestRun", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RunStatusCompleted, summary.Status)
	assert.Equal(suite.T(), models.RunTypeRebalance, summary.RunType)
	assert.Equal(suite.T(), 1, summary.PushSuggestions)
	assert.Equal(suite.T(), 0, summary.LateralSuggestions)
	assert.Equal(suite.T(), 130, summary.PushUnits)
	assert.Equal(suite.T(), 130, summary.TotalUnits)

	assert.Equal(suite.T(), 130, totals.TotalUnits)
	assert.Len(suite.T(), inserted, 1)
	assert.Equal(suite.T(), summary.RunID, inserted[0].RunID)
	assert.NotEqual(suite.T(), uuid.Nil, inserted[0].ID)
	assert.False(suite.T(), inserted[0].CreatedAt.IsZero())
	suite.runRepo.AssertExpectations(suite.T())
}

func (suite *RebalanceServiceTestSuite) TestRebalance_LoadFailureMarksRunFailed() {
	locations, _, _ := suite.fixtureInputs()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(nil, errors.New("connection reset"))
	suite.runRepo.On("MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), summary)
	assert.Contains(suite.T(), err.Error(), "connection reset")
	suite.runRepo.AssertCalled(suite.T(), "MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything)
	suite.runRepo.AssertNotCalled(suite.T(), "CompleteWithSuggestions",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A failed completion write must still finalize the run: the batch rolled
// back with the status update, so the run flips to failed rather than
// staying running forever.
func (suite *RebalanceServiceTestSuite) TestRebalance_CompletionFailureMarksRunFailed() {
	locations, positions, signals := suite.fixtureInputs()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(positions, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(signals, nil)
	suite.runRepo.On("CompleteWithSuggestions", suite.ctx, suite.tenantID, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("complete run: connection reset"))
	suite.runRepo.On("MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), summary)
	assert.Contains(suite.T(), err.Error(), "connection reset")
	suite.runRepo.AssertCalled(suite.T(), "MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "SetLatestRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RebalanceServiceTestSuite) TestRebalance_EmptyInputsCompletesWithZeroTotals() {
	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return([]*models.Location{}, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return([]*models.StockPosition{}, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return([]*models.DemandSignal{}, nil)
	suite.runRepo.On("CompleteWithSuggestions", suite.ctx, suite.tenantID, mock.Anything, models.RunTotals{}, mock.Anything).Return(nil)
	suite.cache.On("SetLatestRun", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RunStatusCompleted, summary.Status)
	assert.Equal(suite.T(), 0, summary.TotalSuggestions)
	assert.Equal(suite.T(), 0, summary.TotalUnits)
}

func (suite *RebalanceServiceTestSuite) TestRebalance_CreateRunFailure() {
	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(errors.New("insert failed"))

	summary, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), summary)
	suite.locationRepo.AssertNotCalled(suite.T(), "ListActive", mock.Anything, mock.Anything)
	suite.runRepo.AssertNotCalled(suite.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RebalanceServiceTestSuite) TestRebalance_ConfigCacheHitSkipsConstraints() {
	locations, positions, signals := suite.fixtureInputs()
	cfg := rebalance.DefaultConfig()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.cache.On("GetConfig", suite.ctx, suite.tenantID).Return(&cfg, nil)
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(positions, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(signals, nil)
	suite.runRepo.On("CompleteWithSuggestions", suite.ctx, suite.tenantID, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.cache.On("SetLatestRun", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	_, err := suite.service.Rebalance(suite.ctx, suite.tenantID, nil)

	assert.NoError(suite.T(), err)
	suite.constraintRepo.AssertNotCalled(suite.T(), "ListActive", mock.Anything, mock.Anything)
}

func (suite *RebalanceServiceTestSuite) TestAllocate_Success() {
	locations, positions, signals := suite.fixtureInputs()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(positions, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(signals, nil)

	var inserted []*models.AllocationRecommendation
	suite.runRepo.On("CompleteWithRecommendations", suite.ctx, suite.tenantID, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(4).([]*models.AllocationRecommendation)
		}).Return(nil)
	suite.cache.On("SetLatestRun", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Allocate(suite.ctx, suite.tenantID, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RunTypeAllocate, summary.RunType)
	assert.Equal(suite.T(), models.RunStatusCompleted, summary.Status)
	// store holds 10 units at 10/day: topping up to three weeks is 200 units
	assert.Equal(suite.T(), 1, summary.Recommendations)
	assert.Equal(suite.T(), 200, summary.TotalUnits)

	assert.Len(suite.T(), inserted, 1)
	assert.Equal(suite.T(), summary.RunID, inserted[0].RunID)
	suite.runRepo.AssertExpectations(suite.T())
}

func (suite *RebalanceServiceTestSuite) TestAllocate_PersistFailureMarksRunFailed() {
	locations, positions, signals := suite.fixtureInputs()

	suite.runRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RebalanceRun")).Return(nil)
	suite.expectConfigLoad()
	suite.locationRepo.On("ListActive", suite.ctx, suite.tenantID).Return(locations, nil)
	suite.positionRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(positions, nil)
	suite.demandRepo.On("ListByTenant", suite.ctx, suite.tenantID).Return(signals, nil)
	suite.runRepo.On("CompleteWithRecommendations", suite.ctx, suite.tenantID, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("batch insert failed"))
	suite.runRepo.On("MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything).Return(nil)

	summary, err := suite.service.Allocate(suite.ctx, suite.tenantID, nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), summary)
	suite.runRepo.AssertCalled(suite.T(), "MarkFailed", suite.ctx, suite.tenantID, mock.Anything, mock.Anything)
}

func (suite *RebalanceServiceTestSuite) TestListRuns_ClampsLimit() {
	suite.runRepo.On("List", suite.ctx, suite.tenantID, 50, 0).Return([]*models.RebalanceRun{}, nil)

	_, err := suite.service.ListRuns(suite.ctx, suite.tenantID, 0, -5)

	assert.NoError(suite.T(), err)
	suite.runRepo.AssertCalled(suite.T(), "List", suite.ctx, suite.tenantID, 50, 0)
}
