package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Task, error)
	CountAll(ctx context.Context) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Task, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	// Update applies patch in one statement and returns the stored row.
	Update(ctx context.Context, id uuid.UUID, patch entity.TaskPatch, updatedAt time.Time) (*entity.Task, error)
	// Delete removes the task; bids and milestones go with it (ON DELETE CASCADE).
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTaskRepository(db database.PgxIface, log *zap.Logger) TaskRepository {
	return &taskRepository{
		db:  db,
		log: log.With(zap.String("repository", "task")),
	}
}

const taskColumns = `id, title, description, budget, status, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var task entity.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Budget,
		&task.Status,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Budget,
		task.Status,
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create task",
			zap.Error(err),
			zap.String("title", task.Title),
			zap.String("created_by", task.CreatedBy.String()),
		)
		return fmt.Errorf("create task %q: %w", task.Title, err)
	}

	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find task by ID", zap.Error(err), zap.String("task_id", id.String()))
		return nil, fmt.Errorf("find task by ID %s: %w", id, err)
	}

	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	tasks, err := r.list(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list tasks", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("find all tasks limit %d offset %d: %w", limit, offset, err)
	}
	return tasks, nil
}

func (r *taskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	tasks, err := r.list(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list tasks by owner", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("find tasks of owner %s: %w", ownerID, err)
	}
	return tasks, nil
}

func (r *taskRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *taskRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		r.log.Error("Failed to count tasks", zap.Error(err))
		return 0, fmt.Errorf("count all tasks: %w", err)
	}
	return count, nil
}

func (r *taskRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE created_by = $1`, ownerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count tasks by owner", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return 0, fmt.Errorf("count tasks of owner %s: %w", ownerID, err)
	}
	return count, nil
}

// Update merges the non-nil patch fields into the row atomically, so
// concurrent patches of different fields never undo each other.
// created_by is never updated.
func (r *taskRepository) Update(ctx context.Context, id uuid.UUID, patch entity.TaskPatch, updatedAt time.Time) (*entity.Task, error) {
	query := `
		UPDATE tasks
		SET title       = COALESCE($2, title),
		    description = COALESCE($3, description),
		    budget      = COALESCE($4, budget),
		    status      = COALESCE($5, status),
		    updated_at  = $6
		WHERE id = $1
		RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		patch.Budget,
		patch.Status,
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update task %s: %w", id, ErrNotFound)
		}
		r.log.Error("Failed to update task", zap.Error(err), zap.String("task_id", id.String()))
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}

	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete task", zap.Error(err), zap.String("task_id", id.String()))
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}

	r.log.Info("Task deleted", zap.String("task_id", id.String()))
	return nil
}
