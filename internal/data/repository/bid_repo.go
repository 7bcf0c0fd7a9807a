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

type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	FindByTaskAndFreelancer(ctx context.Context, taskID, freelancerID uuid.UUID) (*entity.Bid, error)
	// FindDetail loads the bid together with its task and the task owner in
	// one query.
	FindDetail(ctx context.Context, id uuid.UUID) (*entity.BidDetail, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*entity.BidDetail, error)
	FindByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidDetail, error)
	// Accept marks bidID as the winner of taskID and rejects every other
	// pending bid. It returns ErrBidResolved if the task already has a
	// different winner or the bid was rejected, and ErrNotFound if the bid
	// does not belong to the task.
	Accept(ctx context.Context, taskID, bidID uuid.UUID) error
}

type bidRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBidRepository(db database.PgxIface, log *zap.Logger) BidRepository {
	return &bidRepository{
		db:  db,
		log: log.With(zap.String("repository", "bid")),
	}
}

const bidDetailQuery = `
	SELECT
		b.id, b.task_id, b.freelancer_id, b.amount, b.status, b.created_at,
		t.id, t.title, t.description, t.budget, t.status, t.created_by, t.created_at, t.updated_at,
		o.username, f.username, f.email
	FROM bids b
	INNER JOIN tasks t ON t.id = b.task_id
	INNER JOIN users o ON o.id = t.created_by
	INNER JOIN users f ON f.id = b.freelancer_id
`

func scanBidDetail(row pgx.Row) (*entity.BidDetail, error) {
	var d entity.BidDetail
	err := row.Scan(
		&d.ID,
		&d.TaskID,
		&d.FreelancerID,
		&d.Amount,
		&d.Status,
		&d.CreatedAt,
		&d.Task.ID,
		&d.Task.Title,
		&d.Task.Description,
		&d.Task.Budget,
		&d.Task.Status,
		&d.Task.CreatedBy,
		&d.Task.CreatedAt,
		&d.Task.UpdatedAt,
		&d.OwnerUsername,
		&d.FreelancerUsername,
		&d.FreelancerEmail,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *bidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO bids (id, task_id, freelancer_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		bid.ID,
		bid.TaskID,
		bid.FreelancerID,
		bid.Amount,
		bid.Status,
		bid.CreatedAt,
	)
	if name := constraintViolated(err); name != "" {
		r.log.Warn("Duplicate bid rejected by constraint",
			zap.String("constraint", name),
			zap.String("task_id", bid.TaskID.String()),
			zap.String("freelancer_id", bid.FreelancerID.String()),
		)
		return fmt.Errorf("create bid on task %s: %w", bid.TaskID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create bid",
			zap.Error(err),
			zap.String("task_id", bid.TaskID.String()),
			zap.String("freelancer_id", bid.FreelancerID.String()),
		)
		return fmt.Errorf("create bid on task %s: %w", bid.TaskID, err)
	}

	return nil
}

func (r *bidRepository) FindByTaskAndFreelancer(ctx context.Context, taskID, freelancerID uuid.UUID) (*entity.Bid, error) {
	query := `
		SELECT id, task_id, freelancer_id, amount, status, created_at
		FROM bids
		WHERE task_id = $1 AND freelancer_id = $2
	`

	var bid entity.Bid
	err := r.db.QueryRow(ctx, query, taskID, freelancerID).Scan(
		&bid.ID,
		&bid.TaskID,
		&bid.FreelancerID,
		&bid.Amount,
		&bid.Status,
		&bid.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bid",
			zap.Error(err),
			zap.String("task_id", taskID.String()),
			zap.String("freelancer_id", freelancerID.String()),
		)
		return nil, fmt.Errorf("find bid of %s on task %s: %w", freelancerID, taskID, err)
	}

	return &bid, nil
}

func (r *bidRepository) FindDetail(ctx context.Context, id uuid.UUID) (*entity.BidDetail, error) {
	detail, err := scanBidDetail(r.db.QueryRow(ctx, bidDetailQuery+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bid detail", zap.Error(err), zap.String("bid_id", id.String()))
		return nil, fmt.Errorf("find bid detail %s: %w", id, err)
	}
	return detail, nil
}

func (r *bidRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*entity.BidDetail, error) {
	bids, err := r.list(ctx, bidDetailQuery+` WHERE b.task_id = $1 ORDER BY b.created_at ASC`, taskID)
	if err != nil {
		r.log.Error("Failed to list bids of task", zap.Error(err), zap.String("task_id", taskID.String()))
		return nil, fmt.Errorf("find bids of task %s: %w", taskID, err)
	}
	return bids, nil
}

func (r *bidRepository) FindByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.BidDetail, error) {
	bids, err := r.list(ctx, bidDetailQuery+` WHERE b.freelancer_id = $1 ORDER BY b.created_at DESC`, freelancerID)
	if err != nil {
		r.log.Error("Failed to list bids of freelancer", zap.Error(err), zap.String("freelancer_id", freelancerID.String()))
		return nil, fmt.Errorf("find bids of freelancer %s: %w", freelancerID, err)
	}
	return bids, nil
}

func (r *bidRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*entity.BidDetail, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]*entity.BidDetail, 0)
	for rows.Next() {
		detail, err := scanBidDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid row: %w", err)
		}
		bids = append(bids, detail)
	}

	return bids, rows.Err()
}

func (r *bidRepository) Accept(ctx context.Context, taskID, bidID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin accept transaction", zap.Error(err))
		return fmt.Errorf("begin accept transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// serialises concurrent accepts on the same task
	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM tasks WHERE id = $1 FOR UPDATE`, taskID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("accept bid %s: task %s: %w", bidID, taskID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to lock task", zap.Error(err), zap.String("task_id", taskID.String()))
		return fmt.Errorf("lock task %s: %w", taskID, err)
	}

	var status entity.BidStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM bids WHERE id = $1 AND task_id = $2`, bidID, taskID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("accept bid %s: %w", bidID, ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to read bid status", zap.Error(err), zap.String("bid_id", bidID.String()))
		return fmt.Errorf("read status of bid %s: %w", bidID, err)
	}

	switch status {
	case entity.BidStatusAccepted:
		return nil
	case entity.BidStatusRejected:
		return fmt.Errorf("accept bid %s: %w", bidID, ErrBidResolved)
	}

	var winners int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bids WHERE task_id = $1 AND status = 'ACCEPTED'`, taskID,
	).Scan(&winners)
	if err != nil {
		r.log.Error("Failed to count accepted bids", zap.Error(err), zap.String("task_id", taskID.String()))
		return fmt.Errorf("count accepted bids of task %s: %w", taskID, err)
	}
	if winners > 0 {
		return fmt.Errorf("accept bid %s: %w", bidID, ErrBidResolved)
	}

	if _, err := tx.Exec(ctx, `UPDATE bids SET status = 'ACCEPTED' WHERE id = $1`, bidID); err != nil {
		if constraintViolated(err) != "" {
			return fmt.Errorf("accept bid %s: %w", bidID, ErrBidResolved)
		}
		r.log.Error("Failed to accept bid", zap.Error(err), zap.String("bid_id", bidID.String()))
		return fmt.Errorf("accept bid %s: %w", bidID, err)
	}

	result, err := tx.Exec(ctx, `
		UPDATE bids SET status = 'REJECTED'
		WHERE task_id = $1 AND id <> $2 AND status = 'PENDING'
	`, taskID, bidID)
	if err != nil {
		r.log.Error("Failed to reject sibling bids", zap.Error(err), zap.String("task_id", taskID.String()))
		return fmt.Errorf("reject other bids of task %s: %w", taskID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit accept transaction", zap.Error(err), zap.String("bid_id", bidID.String()))
		return fmt.Errorf("commit accept of bid %s: %w", bidID, err)
	}

	r.log.Info("Bid accepted",
		zap.String("task_id", taskID.String()),
		zap.String("bid_id", bidID.String()),
		zap.Int64("rejected", result.RowsAffected()),
	)
	return nil
}
