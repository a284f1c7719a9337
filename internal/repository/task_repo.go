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

// TaskRepository persists tasks
type TaskRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	collaborators, err := sliceToDB(task.Collaborators)
	if err != nil {
		return fmt.Errorf("failed to encode collaborators: %w", err)
	}
	labels, err := sliceToDB(task.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	query := `
		INSERT INTO tasks (
			company_id, title, related_to_type, related_to, assign_to, collaborators,
			status, priority, labels, start_date, deadline,
			is_recurring, repeat_every, repeat_unit, cycles, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		task.CompanyID,
		task.Title,
		task.RelatedToType,
		task.RelatedTo,
		task.AssignTo,
		collaborators,
		task.Status,
		task.Priority,
		labels,
		timeToDB(task.StartDate),
		timeToDB(task.Deadline),
		task.IsRecurring,
		task.RepeatEvery,
		task.RepeatUnit,
		task.Cycles,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	return nil
}

// GetByID retrieves a task scoped to the tenant, nil if absent
func (r *TaskRepository) GetByID(ctx context.Context, id, companyID int64) (*entity.Task, error) {
	query := selectTask + " WHERE id = ? AND company_id = ?"

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// List retrieves tasks for one tenant with optional filters
func (r *TaskRepository) List(ctx context.Context, q ListQuery) ([]entity.Task, error) {
	query := selectTask + " WHERE company_id = ?"
	args := []any{q.CompanyID}

	if q.Status != "" {
		query += " AND lower(status) = lower(?)"
		args = append(args, q.Status)
	}
	if q.Search != "" {
		query += " AND lower(title) LIKE ?"
		args = append(args, "%"+q.Search+"%")
	}
	if q.DateFrom != nil {
		query += " AND deadline >= ?"
		args = append(args, q.DateFrom.UTC())
	}
	if q.DateTo != nil {
		query += " AND deadline <= ?"
		args = append(args, q.DateTo.UTC())
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Update replaces a task's fields
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	task.UpdatedAt = time.Now().UTC()

	collaborators, err := sliceToDB(task.Collaborators)
	if err != nil {
		return fmt.Errorf("failed to encode collaborators: %w", err)
	}
	labels, err := sliceToDB(task.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	query := `
		UPDATE tasks SET
			title = ?, related_to_type = ?, related_to = ?, assign_to = ?,
			collaborators = ?, status = ?, priority = ?, labels = ?,
			start_date = ?, deadline = ?, is_recurring = ?, repeat_every = ?,
			repeat_unit = ?, cycles = ?, updated_at = ?
		WHERE id = ? AND company_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.RelatedToType,
		task.RelatedTo,
		task.AssignTo,
		collaborators,
		task.Status,
		task.Priority,
		labels,
		timeToDB(task.StartDate),
		timeToDB(task.Deadline),
		task.IsRecurring,
		task.RepeatEvery,
		task.RepeatUnit,
		task.Cycles,
		task.UpdatedAt,
		task.ID,
		task.CompanyID,
	)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Int64("id", task.ID), zap.Error(err))
		return fmt.Errorf("failed to update task: %w", err)
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

// Delete removes a task scoped to the tenant
func (r *TaskRepository) Delete(ctx context.Context, id, companyID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND company_id = ?", id, companyID)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const selectTask = `
	SELECT id, company_id, title, related_to_type, related_to, assign_to, collaborators,
		status, priority, labels, start_date, deadline,
		is_recurring, repeat_every, repeat_unit, cycles, created_at, updated_at
	FROM tasks`

func scanTask(row rowScanner) (*entity.Task, error) {
	var task entity.Task
	var collaborators, labels string
	var startDate, deadline sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.CompanyID,
		&task.Title,
		&task.RelatedToType,
		&task.RelatedTo,
		&task.AssignTo,
		&collaborators,
		&task.Status,
		&task.Priority,
		&labels,
		&startDate,
		&deadline,
		&task.IsRecurring,
		&task.RepeatEvery,
		&task.RepeatUnit,
		&task.Cycles,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Collaborators = sliceFromDB[int64](collaborators)
	task.Labels = sliceFromDB[string](labels)
	if startDate.Valid {
		task.StartDate = &startDate.Time
	}
	if deadline.Valid {
		task.Deadline = &deadline.Time
	}
	return &task, nil
}
