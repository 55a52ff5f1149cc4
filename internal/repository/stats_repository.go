package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/provdelegation/portal/api/internal/database"
	"github.com/provdelegation/portal/api/internal/models"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for a failed REFERENCES check.
const foreignKeyViolation = "23503"

// statsRepository is the PostgreSQL implementation of StatsRepository.
type statsRepository struct {
	db *database.Database
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *database.Database) StatsRepository {
	return &statsRepository{
		db: db,
	}
}

func (r *statsRepository) GetStructuralStats(ctx context.Context) (*models.StructuralStats, error) {
	query := `
		SELECT
			population_total,
			disabled_total,
			flood_affected,
			fire_affected,
			very_vulnerable,
			updated_at
		FROM structural_stats
		WHERE id = 1
	`

	var s models.StructuralStats
	err := conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&s.PopulationTotal,
		&s.DisabledTotal,
		&s.FloodAffected,
		&s.FireAffected,
		&s.VeryVulnerable,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query structural stats: %w", err)
	}

	return &s, nil
}

// UpsertStructuralStats overwrites the single row unconditionally. There is
// no version check: the last writer wins.
func (r *statsRepository) UpsertStructuralStats(ctx context.Context, stats models.StructuralStats) (*models.StructuralStats, error) {
	query := `
		INSERT INTO structural_stats (
			id, population_total, disabled_total, flood_affected,
			fire_affected, very_vulnerable, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			population_total = EXCLUDED.population_total,
			disabled_total   = EXCLUDED.disabled_total,
			flood_affected   = EXCLUDED.flood_affected,
			fire_affected    = EXCLUDED.fire_affected,
			very_vulnerable  = EXCLUDED.very_vulnerable,
			updated_at       = NOW()
		RETURNING
			population_total,
			disabled_total,
			flood_affected,
			fire_affected,
			very_vulnerable,
			updated_at
	`

	var saved models.StructuralStats
	err := conn(ctx, r.db).QueryRow(ctx, query,
		stats.PopulationTotal,
		stats.DisabledTotal,
		stats.FloodAffected,
		stats.FireAffected,
		stats.VeryVulnerable,
	).Scan(
		&saved.PopulationTotal,
		&saved.DisabledTotal,
		&saved.FloodAffected,
		&saved.FireAffected,
		&saved.VeryVulnerable,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert structural stats: %w", err)
	}

	return &saved, nil
}

const provinceColumns = `
	id,
	month,
	year,
	total_refugees,
	new_refugees,
	total_returnees,
	new_returnees,
	created_at
`

func scanProvinceStat(row pgx.Row) (models.ProvinceMonthlyStat, error) {
	var s models.ProvinceMonthlyStat
	err := row.Scan(
		&s.ID,
		&s.Month,
		&s.Year,
		&s.TotalRefugees,
		&s.NewRefugees,
		&s.TotalReturnees,
		&s.NewReturnees,
		&s.CreatedAt,
	)
	return s, err
}

func (r *statsRepository) ListProvinceMonthlyStats(ctx context.Context, limit int) ([]models.ProvinceMonthlyStat, error) {
	// LIMIT NULL returns every row.
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	query := `SELECT ` + provinceColumns + `
		FROM province_monthly_stats
		ORDER BY year DESC, month DESC
		LIMIT $1
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, lim)
	if err != nil {
		return nil, fmt.Errorf("failed to query province monthly stats: %w", err)
	}
	defer rows.Close()

	results := []models.ProvinceMonthlyStat{}
	for rows.Next() {
		s, err := scanProvinceStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan province monthly stat: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating province monthly stats: %w", err)
	}

	return results, nil
}

func (r *statsRepository) LatestProvinceMonthlyStat(ctx context.Context) (*models.ProvinceMonthlyStat, error) {
	query := `SELECT ` + provinceColumns + `
		FROM province_monthly_stats
		ORDER BY year DESC, month DESC
		LIMIT 1
	`

	s, err := scanProvinceStat(conn(ctx, r.db).QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest province monthly stat: %w", err)
	}

	return &s, nil
}

// UpsertProvinceMonthlyStat stores the New* figures exactly as supplied.
func (r *statsRepository) UpsertProvinceMonthlyStat(ctx context.Context, stat models.ProvinceMonthlyStat) (*models.ProvinceMonthlyStat, error) {
	query := `
		INSERT INTO province_monthly_stats (
			month, year, total_refugees, new_refugees, total_returnees, new_returnees
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (month, year) DO UPDATE SET
			total_refugees  = EXCLUDED.total_refugees,
			new_refugees    = EXCLUDED.new_refugees,
			total_returnees = EXCLUDED.total_returnees,
			new_returnees   = EXCLUDED.new_returnees
		RETURNING ` + provinceColumns

	saved, err := scanProvinceStat(conn(ctx, r.db).QueryRow(ctx, query,
		stat.Month,
		stat.Year,
		stat.TotalRefugees,
		stat.NewRefugees,
		stat.TotalReturnees,
		stat.NewReturnees,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert province monthly stat (%s): %w", stat.Period, err)
	}

	return &saved, nil
}

func (r *statsRepository) ListSiteMonthlyStats(ctx context.Context, period models.Period) ([]models.SiteMonthlyStat, error) {
	query := `
		SELECT
			site_id,
			month,
			year,
			ref_total_ind,
			ref_total_hh,
			ret_total_ind,
			ret_total_hh,
			updated_at
		FROM site_monthly_stats
		WHERE month = $1 AND year = $2
		ORDER BY site_id
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to query site monthly stats (%s): %w", period, err)
	}
	defer rows.Close()

	results := []models.SiteMonthlyStat{}
	for rows.Next() {
		var s models.SiteMonthlyStat
		if err := rows.Scan(
			&s.SiteID,
			&s.Month,
			&s.Year,
			&s.RefTotalInd,
			&s.RefTotalHH,
			&s.RetTotalInd,
			&s.RetTotalHH,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site monthly stat: %w", err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site monthly stats: %w", err)
	}

	return results, nil
}

// UpsertSiteMonthlyStat keeps at most one row per (site, month, year).
func (r *statsRepository) UpsertSiteMonthlyStat(ctx context.Context, stat models.SiteMonthlyStat) error {
	query := `
		INSERT INTO site_monthly_stats (
			site_id, month, year,
			ref_total_ind, ref_total_hh, ret_total_ind, ret_total_hh,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (site_id, month, year) DO UPDATE SET
			ref_total_ind = EXCLUDED.ref_total_ind,
			ref_total_hh  = EXCLUDED.ref_total_hh,
			ret_total_ind = EXCLUDED.ret_total_ind,
			ret_total_hh  = EXCLUDED.ret_total_hh,
			updated_at    = NOW()
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		stat.SiteID,
		stat.Month,
		stat.Year,
		stat.RefTotalInd,
		stat.RefTotalHH,
		stat.RetTotalInd,
		stat.RetTotalHH,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %d", ErrSiteNotFound, stat.SiteID)
		}
		return fmt.Errorf("failed to upsert site monthly stat (site=%d, %s): %w", stat.SiteID, stat.Period, err)
	}

	return nil
}
