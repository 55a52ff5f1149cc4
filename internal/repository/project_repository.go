package repository

import (
	"context"
	"fmt"

	"github.com/provdelegation/portal/api/internal/database"
	"github.com/provdelegation/portal/api/internal/models"
)

type projectRepository struct {
	db *database.Database
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(db *database.Database) ProjectRepository {
	return &projectRepository{db: db}
}

// ListByStatus pages through projects. The location column is decoded from
// its legacy string form by models.Location's Scan.
func (r *projectRepository) ListByStatus(ctx context.Context, status models.ProjectStatus, offset, limit int) ([]models.Project, int, error) {
	q := conn(ctx, r.db)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects (status=%s): %w", status, err)
	}

	query := `
		SELECT id, title, organisation, status, location, created_at
		FROM projects
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, string(status), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects (status=%s, offset=%d, limit=%d): %w", status, offset, limit, err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Organisation,
			&p.Status,
			&p.Location,
			&p.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, total, nil
}
