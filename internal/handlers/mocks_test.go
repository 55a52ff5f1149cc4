package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/provdelegation/portal/api/internal/models"
	"github.com/provdelegation/portal/api/internal/services"
)

// MockStatsService is a mock implementation of StatsService for testing
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) SaveMonthlySiteStats(ctx context.Context, period models.Period, items []services.SiteStatInput) (*services.SaveSiteStatsResult, error) {
	args := m.Called(ctx, period, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SaveSiteStatsResult), args.Error(1)
}

func (m *MockStatsService) SaveProvinceMonthlyStats(ctx context.Context, input services.ProvinceStatInput) (*models.ProvinceMonthlyStat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvinceMonthlyStat), args.Error(1)
}

func (m *MockStatsService) SaveStructuralStats(ctx context.Context, input services.StructuralStatsInput) (*models.StructuralStats, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StructuralStats), args.Error(1)
}

func (m *MockStatsService) GetDisplayTotals(ctx context.Context, period models.Period) (*models.DisplayTotals, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DisplayTotals), args.Error(1)
}

func (m *MockStatsService) GetSiteBreakdown(ctx context.Context, period models.Period, kind models.SiteKind) ([]models.SiteBreakdownRow, error) {
	args := m.Called(ctx, period, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SiteBreakdownRow), args.Error(1)
}

func (m *MockStatsService) ListMonthlyHistory(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProvinceMonthlyStat), args.Error(1)
}

func (m *MockStatsService) GetSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.ReconciledSiteStat, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReconciledSiteStat), args.Error(1)
}

func (m *MockStatsService) GetStructuralStats(ctx context.Context) (*models.StructuralStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StructuralStats), args.Error(1)
}

func (m *MockStatsService) ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Site), args.Error(1)
}

// MockProjectService is a mock implementation of ProjectService for testing
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) ListProjects(ctx context.Context, page, limit int) (*services.ProjectPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProjectPage), args.Error(1)
}
