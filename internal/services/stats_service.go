package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/provdelegation/portal/api/internal/logger"
	"github.com/provdelegation/portal/api/internal/metrics"
	"github.com/provdelegation/portal/api/internal/models"
	"github.com/provdelegation/portal/api/internal/repository"
)

// Statistics kinds used as metric labels.
const (
	statsKindStructural = "structural"
	statsKindProvince   = "province"
	statsKindSites      = "sites"
)

// Service-level errors
var (
	ErrInvalidPeriod = models.ErrInvalidPeriod
	ErrUnknownSite   = errors.New("unknown site")
	ErrInvalidKind   = errors.New("kind must be refugees or returnees")
)

// SiteStatInput is one site's submitted totals. Values arrive as lenient
// Counts and are clamped before storage.
type SiteStatInput struct {
	SiteID      int64
	RefTotalInd models.Count
	RefTotalHH  models.Count
	RetTotalInd models.Count
	RetTotalHH  models.Count
}

// ProvinceStatInput is a legacy province-wide monthly submission.
type ProvinceStatInput struct {
	Period         models.Period
	TotalRefugees  models.Count
	NewRefugees    models.Count
	TotalReturnees models.Count
	NewReturnees   models.Count
}

// StructuralStatsInput is a submitted structural snapshot.
type StructuralStatsInput struct {
	PopulationTotal models.Count
	DisabledTotal   models.Count
	FloodAffected   models.Count
	FireAffected    models.Count
	VeryVulnerable  models.Count
}

// SaveSiteStatsResult confirms a site batch save.
type SaveSiteStatsResult struct {
	models.Period
	Saved int                         `json:"saved"`
	Items []models.ReconciledSiteStat `json:"items"`
}

// StatsService defines the statistics business operations.
type StatsService interface {
	// SaveMonthlySiteStats stores the totals of every item for the period in
	// a single transaction and returns each item with its delta against the
	// previous month. Returns ErrInvalidPeriod for a malformed period and
	// ErrUnknownSite when an item references a site that does not exist.
	SaveMonthlySiteStats(ctx context.Context, period models.Period, items []SiteStatInput) (*SaveSiteStatsResult, error)

	// SaveProvinceMonthlyStats stores a legacy province row as given.
	// The New* figures are not re-derived.
	SaveProvinceMonthlyStats(ctx context.Context, input ProvinceStatInput) (*models.ProvinceMonthlyStat, error)

	// SaveStructuralStats overwrites the structural snapshot.
	SaveStructuralStats(ctx context.Context, input StructuralStatsInput) (*models.StructuralStats, error)

	// GetDisplayTotals returns the headline totals for a period, summed from
	// site rows when any exist and from the latest province row otherwise.
	GetDisplayTotals(ctx context.Context, period models.Period) (*models.DisplayTotals, error)

	// GetSiteBreakdown lists every site of kind with its figures for the period.
	// Sites without a row report 0.
	GetSiteBreakdown(ctx context.Context, period models.Period, kind models.SiteKind) ([]models.SiteBreakdownRow, error)

	// ListMonthlyHistory returns the province series newest first. A limit
	// <= 0 returns everything.
	ListMonthlyHistory(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error)

	// GetSiteMonthlyStats returns the period's site rows with their deltas.
	// Returns an empty slice when nothing was saved.
	GetSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.ReconciledSiteStat, error)

	// GetStructuralStats returns the snapshot, or nil if never saved.
	GetStructuralStats(ctx context.Context) (*models.StructuralStats, error)

	// ListSites returns the sites of kind, or all sites for an empty kind.
	ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error)
}

// statsService is the concrete implementation of StatsService.
type statsService struct {
	stats repository.StatsRepository
	sites repository.SiteRepository
	tx    repository.TransactionManager
	log   *logger.Logger
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	stats repository.StatsRepository,
	sites repository.SiteRepository,
	tx repository.TransactionManager,
	log *logger.Logger,
) StatsService {
	return &statsService{
		stats: stats,
		sites: sites,
		tx:    tx,
		log:   log,
	}
}

func (s *statsService) SaveMonthlySiteStats(ctx context.Context, period models.Period, items []SiteStatInput) (*SaveSiteStatsResult, error) {
	if err := period.Validate(); err != nil {
		s.log.Warn("Invalid period for site stats", map[string]interface{}{
			"month": period.Month,
			"year":  period.Year,
		})
		return nil, err
	}

	rows := s.siteRows(period, items)
	result := &SaveSiteStatsResult{
		Period: period,
		Items:  make([]models.ReconciledSiteStat, 0, len(rows)),
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		previous, err := s.stats.ListSiteMonthlyStats(ctx, period.Previous())
		if err != nil {
			return fmt.Errorf("failed to load previous month: %w", err)
		}
		prevBySite := indexBySite(previous)

		for _, row := range rows {
			if err := s.stats.UpsertSiteMonthlyStat(ctx, row); err != nil {
				return err
			}
			result.Items = append(result.Items, reconcile(row, prevBySite))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrSiteNotFound) {
			s.log.Warn("Site stats reference an unknown site", map[string]interface{}{
				"period": period.String(),
				"error":  err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrUnknownSite, err)
		}
		s.log.Error("Failed to save site monthly stats", err, map[string]interface{}{
			"period": period.String(),
			"items":  len(rows),
		})
		return nil, fmt.Errorf("failed to save site monthly stats: %w", err)
	}

	result.Saved = len(result.Items)
	metrics.StatsSavesTotal.WithLabelValues(statsKindSites).Inc()

	s.log.Info("Site monthly stats saved", map[string]interface{}{
		"period": period.String(),
		"saved":  result.Saved,
	})

	return result, nil
}

// siteRows clamps the submitted items and collapses duplicate site ids,
// keeping the position of the first occurrence and the values of the last.
func (s *statsService) siteRows(period models.Period, items []SiteStatInput) []models.SiteMonthlyStat {
	rows := make([]models.SiteMonthlyStat, 0, len(items))
	position := make(map[int64]int, len(items))

	for _, item := range items {
		row := models.SiteMonthlyStat{
			SiteID: item.SiteID,
			Period: period,
			SiteTotals: models.SiteTotals{
				RefTotalInd: s.clamp(statsKindSites, "ref_total_ind", item.RefTotalInd),
				RefTotalHH:  s.clamp(statsKindSites, "ref_total_hh", item.RefTotalHH),
				RetTotalInd: s.clamp(statsKindSites, "ret_total_ind", item.RetTotalInd),
				RetTotalHH:  s.clamp(statsKindSites, "ret_total_hh", item.RetTotalHH),
			},
		}

		if i, seen := position[item.SiteID]; seen {
			s.log.Debug("Duplicate site in batch, keeping last", map[string]interface{}{
				"site_id": item.SiteID,
			})
			rows[i] = row
			continue
		}
		position[item.SiteID] = len(rows)
		rows = append(rows, row)
	}

	return rows
}

// clamp floors a submitted value at zero, counting and logging each clamp.
func (s *statsService) clamp(kind, field string, c models.Count) int64 {
	v, clamped := c.Clamp()
	if clamped {
		metrics.ClampedValuesTotal.WithLabelValues(kind).Inc()
		s.log.Warn("Negative value clamped to zero", map[string]interface{}{
			"kind":  kind,
			"field": field,
			"value": int64(c),
		})
	}
	return v
}

func indexBySite(rows []models.SiteMonthlyStat) map[int64]models.SiteMonthlyStat {
	m := make(map[int64]models.SiteMonthlyStat, len(rows))
	for _, r := range rows {
		m[r.SiteID] = r
	}
	return m
}

func reconcile(row models.SiteMonthlyStat, prevBySite map[int64]models.SiteMonthlyStat) models.ReconciledSiteStat {
	prev, ok := prevBySite[row.SiteID]
	if !ok {
		return models.ReconciledSiteStat{
			SiteMonthlyStat: row,
			Delta:           row.DeltaFrom(nil),
		}
	}
	return models.ReconciledSiteStat{
		SiteMonthlyStat: row,
		Delta:           row.DeltaFrom(&prev.SiteTotals),
		HasPrevious:     true,
	}
}

func (s *statsService) SaveProvinceMonthlyStats(ctx context.Context, input ProvinceStatInput) (*models.ProvinceMonthlyStat, error) {
	if err := input.Period.Validate(); err != nil {
		s.log.Warn("Invalid period for province stats", map[string]interface{}{
			"month": input.Period.Month,
			"year":  input.Period.Year,
		})
		return nil, err
	}

	s.log.Warn("Saving legacy province monthly stats", map[string]interface{}{
		"period":     input.Period.String(),
		"deprecated": true,
	})

	stat := models.ProvinceMonthlyStat{
		Period:         input.Period,
		TotalRefugees:  s.clamp(statsKindProvince, "totalRefugees", input.TotalRefugees),
		NewRefugees:    s.clamp(statsKindProvince, "newRefugees", input.NewRefugees),
		TotalReturnees: s.clamp(statsKindProvince, "totalReturnees", input.TotalReturnees),
		NewReturnees:   s.clamp(statsKindProvince, "newReturnees", input.NewReturnees),
	}

	saved, err := s.stats.UpsertProvinceMonthlyStat(ctx, stat)
	if err != nil {
		s.log.Error("Failed to save province monthly stats", err, map[string]interface{}{
			"period": input.Period.String(),
		})
		return nil, fmt.Errorf("failed to save province monthly stats: %w", err)
	}

	metrics.StatsSavesTotal.WithLabelValues(statsKindProvince).Inc()
	return saved, nil
}

func (s *statsService) SaveStructuralStats(ctx context.Context, input StructuralStatsInput) (*models.StructuralStats, error) {
	stats := models.StructuralStats{
		PopulationTotal: s.clamp(statsKindStructural, "populationTotal", input.PopulationTotal),
		DisabledTotal:   s.clamp(statsKindStructural, "disabledTotal", input.DisabledTotal),
		FloodAffected:   s.clamp(statsKindStructural, "floodAffected", input.FloodAffected),
		FireAffected:    s.clamp(statsKindStructural, "fireAffected", input.FireAffected),
		VeryVulnerable:  s.clamp(statsKindStructural, "veryVulnerable", input.VeryVulnerable),
	}

	saved, err := s.stats.UpsertStructuralStats(ctx, stats)
	if err != nil {
		s.log.Error("Failed to save structural stats", err, nil)
		return nil, fmt.Errorf("failed to save structural stats: %w", err)
	}

	metrics.StatsSavesTotal.WithLabelValues(statsKindStructural).Inc()
	s.log.Info("Structural stats saved", map[string]interface{}{
		"population_total": saved.PopulationTotal,
	})

	return saved, nil
}

func (s *statsService) GetDisplayTotals(ctx context.Context, period models.Period) (*models.DisplayTotals, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.stats.ListSiteMonthlyStats(ctx, period)
	if err != nil {
		s.log.Error("Failed to query site stats for totals", err, map[string]interface{}{
			"period": period.String(),
		})
		return nil, fmt.Errorf("failed to query site stats: %w", err)
	}

	totals := &models.DisplayTotals{Period: period, Source: models.SourceNone}

	if len(rows) > 0 {
		for _, r := range rows {
			totals.RefugeesTotal += r.RefTotalInd
			totals.RefugeesHouseholds += r.RefTotalHH
			totals.ReturneesTotal += r.RetTotalInd
			totals.ReturneesHouseholds += r.RetTotalHH
		}
		totals.SiteCount = len(rows)
		totals.Source = models.SourceSites
	} else {
		latest, err := s.stats.LatestProvinceMonthlyStat(ctx)
		if err != nil {
			s.log.Error("Failed to query latest province stats", err, map[string]interface{}{
				"period": period.String(),
			})
			return nil, fmt.Errorf("failed to query province stats: %w", err)
		}
		if latest != nil {
			fallback := latest.Period
			totals.RefugeesTotal = latest.TotalRefugees
			totals.ReturneesTotal = latest.TotalReturnees
			totals.Source = models.SourceProvince
			totals.FallbackPeriod = &fallback
		}
	}

	metrics.DisplayTotalsServed.WithLabelValues(string(totals.Source)).Inc()
	s.log.Debug("Display totals computed", map[string]interface{}{
		"period": period.String(),
		"source": string(totals.Source),
	})

	return totals, nil
}

func (s *statsService) GetSiteBreakdown(ctx context.Context, period models.Period, kind models.SiteKind) ([]models.SiteBreakdownRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidKind, kind)
	}

	sites, err := s.sites.ListSites(ctx, kind)
	if err != nil {
		s.log.Error("Failed to list sites for breakdown", err, map[string]interface{}{
			"kind": string(kind),
		})
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	rows, err := s.stats.ListSiteMonthlyStats(ctx, period)
	if err != nil {
		s.log.Error("Failed to query site stats for breakdown", err, map[string]interface{}{
			"period": period.String(),
		})
		return nil, fmt.Errorf("failed to query site stats: %w", err)
	}
	bySite := indexBySite(rows)

	breakdown := make([]models.SiteBreakdownRow, 0, len(sites))
	for _, site := range sites {
		line := models.SiteBreakdownRow{SiteID: site.ID, Name: site.Name, Kind: site.Kind}
		if stat, ok := bySite[site.ID]; ok {
			if kind == models.KindRefugees {
				line.Individuals, line.Households = stat.RefTotalInd, stat.RefTotalHH
			} else {
				line.Individuals, line.Households = stat.RetTotalInd, stat.RetTotalHH
			}
		}
		breakdown = append(breakdown, line)
	}

	return breakdown, nil
}

func (s *statsService) ListMonthlyHistory(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error) {
	history, err := s.stats.ListProvinceMonthlyStats(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list province monthly stats", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, fmt.Errorf("failed to list province monthly stats: %w", err)
	}
	return history, nil
}

func (s *statsService) GetSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.ReconciledSiteStat, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	current, err := s.stats.ListSiteMonthlyStats(ctx, period)
	if err != nil {
		s.log.Error("Failed to query site monthly stats", err, map[string]interface{}{
			"period": period.String(),
		})
		return nil, fmt.Errorf("failed to query site monthly stats: %w", err)
	}

	out := make([]models.ReconciledSiteStat, 0, len(current))
	if len(current) == 0 {
		return out, nil
	}

	previous, err := s.stats.ListSiteMonthlyStats(ctx, period.Previous())
	if err != nil {
		s.log.Error("Failed to query previous site monthly stats", err, map[string]interface{}{
			"period": period.Previous().String(),
		})
		return nil, fmt.Errorf("failed to query previous site monthly stats: %w", err)
	}
	prevBySite := indexBySite(previous)

	for _, row := range current {
		out = append(out, reconcile(row, prevBySite))
	}
	return out, nil
}

func (s *statsService) GetStructuralStats(ctx context.Context) (*models.StructuralStats, error) {
	stats, err := s.stats.GetStructuralStats(ctx)
	if err != nil {
		s.log.Error("Failed to query structural stats", err, nil)
		return nil, fmt.Errorf("failed to query structural stats: %w", err)
	}
	return stats, nil
}

func (s *statsService) ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidKind, kind)
	}

	sites, err := s.sites.ListSites(ctx, kind)
	if err != nil {
		s.log.Error("Failed to list sites", err, map[string]interface{}{
			"kind": string(kind),
		})
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}
