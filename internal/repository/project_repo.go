package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/pkg/database"
	"go.uber.org/zap"
)

// ProjectRepository persists projects
type ProjectRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a project
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (company_id, client_id, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		project.CompanyID,
		project.ClientID,
		project.Name,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	project.ID = id
	return nil
}

// GetByID retrieves a project scoped to the tenant, nil if absent
func (r *ProjectRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.Project, error) {
	query := selectProject + " WHERE id = ? AND company_id = ?"

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List retrieves projects for one tenant with optional filters
func (r *ProjectRepository) List(ctx context.Context, q ListQuery) ([]entity.Project, error) {
	query := selectProject + " WHERE company_id = ?"
	args := []any{q.CompanyID}

	if q.Status != "" {
		query += " AND lower(status) = lower(?)"
		args = append(args, q.Status)
	}
	if q.Search != "" {
		query += " AND lower(name) LIKE ?"
		args = append(args, "%"+q.Search+"%")
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []entity.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// Update replaces a project's fields
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	project.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE projects SET client_id = ?, name = ?, status = ?, updated_at = ?
		WHERE id = ? AND company_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		project.ClientID,
		project.Name,
		project.Status,
		project.UpdatedAt,
		project.ID,
		project.CompanyID,
	)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Int64("id", project.ID), zap.Error(err))
		return fmt.Errorf("failed to update project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a project scoped to the tenant
func (r *ProjectRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND company_id = ?", id, companyID)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectProject = `
	SELECT id, company_id, client_id, name, status, created_at, updated_at
	FROM projects`

func scanProject(row rowScanner) (*entity.Project, error) {
	var project entity.Project
	err := row.Scan(
		&project.ID,
		&project.CompanyID,
		&project.ClientID,
		&project.Name,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
