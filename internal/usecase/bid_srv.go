package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/response"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BidService interface {
	PlaceBid(ctx context.Context, caller entity.Caller, taskID string, req *request.PlaceBidRequest) (*response.BidResponse, error)
	GetTaskBids(ctx context.Context, caller entity.Caller, taskID string) ([]response.BidResponse, error)
	GetMyBids(ctx context.Context, caller entity.Caller) ([]response.BidResponse, error)
	// AcceptBid makes the bid the task's winner and rejects the other
	// pending bids in one step. Accepting the current winner again is a
	// no-op; accepting any other bid of a resolved task fails.
	AcceptBid(ctx context.Context, caller entity.Caller, bidID string) (*response.BidResponse, error)
}

type bidService struct {
	repo *repository.Repository // task & bid
	pub  events.Publisher
	log  *zap.Logger
}

func NewBidService(repo *repository.Repository, pub events.Publisher, log *zap.Logger) BidService {
	return &bidService{
		repo: repo,
		pub:  pub,
		log:  log.With(zap.String("service", "bid")),
	}
}

func (s *bidService) PlaceBid(ctx context.Context, caller entity.Caller, taskID string, req *request.PlaceBidRequest) (*response.BidResponse, error) {
	if !caller.HasRole(entity.RoleFreelancer) {
		return nil, ErrRoleRequired
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID(taskID, ErrTaskNotFound)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.Task.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	existing, err := s.repo.Bid.FindByTaskAndFreelancer(ctx, task.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing bid: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateBid
	}

	bid := &entity.Bid{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		TaskID:       task.ID,
		FreelancerID: caller.ID,
		Amount:       *req.Amount,
		Status:       entity.BidStatusPending,
	}

	if err := s.repo.Bid.Create(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateBid
		}
		return nil, fmt.Errorf("create bid: %w", err)
	}

	s.log.Info("Bid placed",
		zap.String("bid_id", bid.ID.String()),
		zap.String("task_id", task.ID.String()),
		zap.String("freelancer_id", caller.ID.String()),
	)
	publish(ctx, s.pub, s.log, events.Event{
		Type:   events.BidPlaced,
		TaskID: task.ID,
		Payload: map[string]any{
			"bid_id":        bid.ID,
			"freelancer_id": bid.FreelancerID,
			"amount":        bid.Amount,
		},
	})

	resp := response.BidToResponse(bid)
	return &resp, nil
}

func (s *bidService) GetTaskBids(ctx context.Context, caller entity.Caller, taskID string) ([]response.BidResponse, error) {
	task, err := ownedTask(ctx, s.repo.Task, caller, taskID)
	if err != nil {
		return nil, err
	}

	bids, err := s.repo.Bid.FindByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return response.BidDetailsToResponse(bids), nil
}

func (s *bidService) GetMyBids(ctx context.Context, caller entity.Caller) ([]response.BidResponse, error) {
	bids, err := s.repo.Bid.FindByFreelancer(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list own bids: %w", err)
	}
	return response.BidDetailsToResponse(bids), nil
}

func (s *bidService) AcceptBid(ctx context.Context, caller entity.Caller, bidID string) (*response.BidResponse, error) {
	id, err := parseID(bidID, ErrBidNotFound)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.Bid.FindDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find bid: %w", err)
	}
	if detail == nil {
		return nil, ErrBidNotFound
	}
	if !caller.Owns(detail.Task.CreatedBy) {
		s.log.Warn("Accept by non-owner",
			zap.String("bid_id", id.String()),
			zap.String("caller_id", caller.ID.String()),
		)
		return nil, ErrNotTaskOwner
	}

	if err := s.repo.Bid.Accept(ctx, detail.TaskID, detail.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBidResolved):
			return nil, ErrBidAlreadyResolved
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("accept bid: %w", err)
	}

	publish(ctx, s.pub, s.log, events.Event{
		Type:   events.BidAccepted,
		TaskID: detail.TaskID,
		Payload: map[string]any{
			"bid_id":        detail.ID,
			"freelancer_id": detail.FreelancerID,
		},
	})

	detail.Status = entity.BidStatusAccepted
	resp := response.BidDetailToResponse(detail)
	return &resp, nil
}

// publish sends event and logs a failure. The request never fails because
// of it.
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, event events.Event) {
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("task_id", event.TaskID.String()),
		)
	}
}
