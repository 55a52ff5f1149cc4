package repository

import (
	"context"
	"errors"

	"github.com/provdelegation/portal/api/internal/models"
)

// ErrSiteNotFound is returned when a site statistic references an unknown site.
var ErrSiteNotFound = errors.New("site not found")

// StatsRepository is the statistics store contract.
//
// Reads return nil, nil (or an empty slice) when nothing is stored; errors
// are reserved for actual database failures. Every method joins the
// transaction carried by ctx when there is one.
type StatsRepository interface {
	// GetStructuralStats returns the singleton snapshot, or nil if never saved.
	GetStructuralStats(ctx context.Context) (*models.StructuralStats, error)

	// UpsertStructuralStats overwrites the singleton and returns the stored row.
	UpsertStructuralStats(ctx context.Context, stats models.StructuralStats) (*models.StructuralStats, error)

	// ListProvinceMonthlyStats returns the province series newest first.
	// A limit <= 0 returns the full history.
	ListProvinceMonthlyStats(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error)

	// LatestProvinceMonthlyStat returns the most recent row, or nil when the table is empty.
	LatestProvinceMonthlyStat(ctx context.Context) (*models.ProvinceMonthlyStat, error)

	// UpsertProvinceMonthlyStat stores the row as given, keyed by (month, year).
	UpsertProvinceMonthlyStat(ctx context.Context, stat models.ProvinceMonthlyStat) (*models.ProvinceMonthlyStat, error)

	// ListSiteMonthlyStats returns every site row of a period ordered by site.
	ListSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.SiteMonthlyStat, error)

	// UpsertSiteMonthlyStat stores totals keyed by (siteId, month, year).
	// Returns ErrSiteNotFound when the site does not exist.
	UpsertSiteMonthlyStat(ctx context.Context, stat models.SiteMonthlyStat) error
}

// SiteRepository reads site reference data.
type SiteRepository interface {
	// ListSites returns all sites ordered by name; an empty kind means every kind.
	ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error)
}

// ProjectRepository reads submitted projects.
type ProjectRepository interface {
	// ListByStatus returns one page of projects newest first, plus the total
	// number of projects with that status.
	ListByStatus(ctx context.Context, status models.ProjectStatus, offset, limit int) ([]models.Project, int, error)
}

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
