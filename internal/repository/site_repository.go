package repository

import (
	"context"
	"fmt"

	"github.com/provdelegation/portal/api/internal/database"
	"github.com/provdelegation/portal/api/internal/models"
)

type siteRepository struct {
	db *database.Database
}

// NewSiteRepository creates a new instance of SiteRepository.
func NewSiteRepository(db *database.Database) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) ListSites(ctx context.Context, kind models.SiteKind) ([]models.Site, error) {
	query := `
		SELECT id, name, kind
		FROM sites
		WHERE $1::text = '' OR kind = $1::text
		ORDER BY name, id
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query sites (kind=%q): %w", kind, err)
	}
	defer rows.Close()

	sites := []models.Site{}
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site rows: %w", err)
	}

	return sites, nil
}
