package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/provdelegation/portal/api/internal/models"
)

// MockStatsRepository is a mock implementation of StatsRepository for testing
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStructuralStats(ctx context.Context) (*models.StructuralStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StructuralStats), args.Error(1)
}

func (m *MockStatsRepository) UpsertStructuralStats(ctx context.Context, stats models.StructuralStats) (*models.StructuralStats, error) {
	args := m.Called(ctx, stats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StructuralStats), args.Error(1)
}

func (m *MockStatsRepository) ListProvinceMonthlyStats(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProvinceMonthlyStat), args.Error(1)
}

func (m *MockStatsRepository) LatestProvinceMonthlyStat(ctx context.Context) (*models.ProvinceMonthlyStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvinceMonthlyStat), args.Error(1)
}

func (m *MockStatsRepository) UpsertProvinceMonthlyStat(ctx context.Context, stat models.ProvinceMonthlyStat) (*models.ProvinceMonthlyStat, error) {
	args := m.Called(ctx, stat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvinceMonthlyStat), args.Error(1)
}

func (m *MockStatsRepository) ListSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.SiteMonthlyStat, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SiteMonthlyStat), args.Error(1)
}

func (m *MockStatsRepository) UpsertSiteMonthlyStat(ctx context.Context, stat models.SiteMonthlyStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

// MockSiteRepository is a mock implementation of SiteRepository for testing
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Site), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) ListByStatus(ctx context.Context, status models.ProjectStatus, offset, limit int) ([]models.Project, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Project), args.Int(1), args.Error(2)
}

// MockTransactionManager records the call and runs fn directly unless an
// error is configured for Begin.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
