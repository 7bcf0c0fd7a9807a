package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MilestoneRepository interface {
	Create(ctx context.Context, milestone *entity.Milestone) error
	// FindWithOwner loads the milestone and the owner of its task.
	FindWithOwner(ctx context.Context, id uuid.UUID) (*entity.MilestoneDetail, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*entity.Milestone, error)
	Update(ctx context.Context, milestone *entity.Milestone) error
}

type milestoneRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMilestoneRepository(db database.PgxIface, log *zap.Logger) MilestoneRepository {
	return &milestoneRepository{
		db:  db,
		log: log.With(zap.String("repository", "milestone")),
	}
}

func (r *milestoneRepository) Create(ctx context.Context, milestone *entity.Milestone) error {
	query := `
		INSERT INTO milestones (id, task_id, title, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		milestone.ID,
		milestone.TaskID,
		milestone.Title,
		milestone.Status,
		milestone.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create milestone",
			zap.Error(err),
			zap.String("task_id", milestone.TaskID.String()),
		)
		return fmt.Errorf("create milestone on task %s: %w", milestone.TaskID, err)
	}

	return nil
}

func (r *milestoneRepository) FindWithOwner(ctx context.Context, id uuid.UUID) (*entity.MilestoneDetail, error) {
	query := `
		SELECT m.id, m.task_id, m.title, m.status, m.created_at, t.created_by
		FROM milestones m
		INNER JOIN tasks t ON t.id = m.task_id
		WHERE m.id = $1
	`

	var d entity.MilestoneDetail
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.TaskID,
		&d.Title,
		&d.Status,
		&d.CreatedAt,
		&d.TaskOwnerID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find milestone", zap.Error(err), zap.String("milestone_id", id.String()))
		return nil, fmt.Errorf("find milestone %s: %w", id, err)
	}

	return &d, nil
}

func (r *milestoneRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*entity.Milestone, error) {
	query := `
		SELECT id, task_id, title, status, created_at
		FROM milestones
		WHERE task_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.log.Error("Failed to list milestones", zap.Error(err), zap.String("task_id", taskID.String()))
		return nil, fmt.Errorf("find milestones of task %s: %w", taskID, err)
	}
	defer rows.Close()

	milestones := make([]*entity.Milestone, 0)
	for rows.Next() {
		var m entity.Milestone
		if err := rows.Scan(&m.ID, &m.TaskID, &m.Title, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan milestone row: %w", err)
		}
		milestones = append(milestones, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestones of task %s: %w", taskID, err)
	}
	return milestones, nil
}

func (r *milestoneRepository) Update(ctx context.Context, milestone *entity.Milestone) error {
	result, err := r.db.Exec(ctx,
		`UPDATE milestones SET title = $2, status = $3 WHERE id = $1`,
		milestone.ID, milestone.Title, milestone.Status,
	)
	if err != nil {
		r.log.Error("Failed to update milestone", zap.Error(err), zap.String("milestone_id", milestone.ID.String()))
		return fmt.Errorf("update milestone %s: %w", milestone.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update milestone %s: %w", milestone.ID, ErrNotFound)
	}
	return nil
}
