package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/provdelegation/portal/api/internal/logger"
	"github.com/provdelegation/portal/api/internal/models"
	"github.com/provdelegation/portal/api/internal/repository"
)

// Pagination constants
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage keeps the row offset within a 32-bit integer.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

var ErrInvalidPagination = errors.New("invalid pagination")

// ProjectPage is one page of the public project listing.
type ProjectPage struct {
	Items      []models.Project `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// ProjectService lists projects for the public site.
type ProjectService interface {
	// ListProjects returns a page of approved projects, newest first.
	// A zero page or limit takes the default. Returns ErrInvalidPagination
	// for a page outside 1..MaxPage or a limit outside 1..MaxPageLimit.
	ListProjects(ctx context.Context, page, limit int) (*ProjectPage, error)
}

type projectService struct {
	repo repository.ProjectRepository
	log  *logger.Logger
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(repo repository.ProjectRepository, log *logger.Logger) ProjectService {
	return &projectService{
		repo: repo,
		log:  log,
	}
}

func (s *projectService) ListProjects(ctx context.Context, page, limit int) (*ProjectPage, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if page < 1 || page > MaxPage {
		return nil, fmt.Errorf("%w: page must be between 1 and %d, got %d", ErrInvalidPagination, MaxPage, page)
	}
	if limit < 1 || limit > MaxPageLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidPagination, MaxPageLimit, limit)
	}

	offset := (page - 1) * limit
	projects, total, err := s.repo.ListByStatus(ctx, models.ProjectApproved, offset, limit)
	if err != nil {
		s.log.Error("Failed to list projects", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &ProjectPage{
		Items:      projects,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}
