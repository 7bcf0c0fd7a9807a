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

type MilestoneService interface {
	CreateMilestone(ctx context.Context, caller entity.Caller, taskID string, req *request.CreateMilestoneRequest) (*response.MilestoneResponse, error)
	GetTaskMilestones(ctx context.Context, caller entity.Caller, taskID string) ([]response.MilestoneResponse, error)
	UpdateMilestone(ctx context.Context, caller entity.Caller, milestoneID string, req *request.UpdateMilestoneRequest) (*response.MilestoneResponse, error)
}

type milestoneService struct {
	repo *repository.Repository // task & milestone
	pub  events.Publisher
	log  *zap.Logger
}

func NewMilestoneService(repo *repository.Repository, pub events.Publisher, log *zap.Logger) MilestoneService {
	return &milestoneService{
		repo: repo,
		pub:  pub,
		log:  log.With(zap.String("service", "milestone")),
	}
}

func (s *milestoneService) CreateMilestone(ctx context.Context, caller entity.Caller, taskID string, req *request.CreateMilestoneRequest) (*response.MilestoneResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	task, err := ownedTask(ctx, s.repo.Task, caller, taskID)
	if err != nil {
		return nil, err
	}

	milestone := &entity.Milestone{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		TaskID: task.ID,
		Title:  req.Title,
		Status: entity.MilestoneStatusPending,
	}

	if err := s.repo.Milestone.Create(ctx, milestone); err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}

	s.log.Info("Milestone created",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("task_id", task.ID.String()),
	)

	resp := response.MilestoneToResponse(milestone)
	return &resp, nil
}

func (s *milestoneService) GetTaskMilestones(ctx context.Context, caller entity.Caller, taskID string) ([]response.MilestoneResponse, error) {
	task, err := ownedTask(ctx, s.repo.Task, caller, taskID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.repo.Milestone.FindByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return response.MilestonesToResponse(milestones), nil
}

func (s *milestoneService) UpdateMilestone(ctx context.Context, caller entity.Caller, milestoneID string, req *request.UpdateMilestoneRequest) (*response.MilestoneResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID(milestoneID, ErrMilestoneNotFound)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.Milestone.FindWithOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find milestone: %w", err)
	}
	if detail == nil {
		return nil, ErrMilestoneNotFound
	}
	if !caller.Owns(detail.TaskOwnerID) {
		return nil, ErrNotTaskOwner
	}

	milestone := detail.Milestone
	previous := milestone.Status
	milestone.Status = req.Status
	if req.Title != nil {
		milestone.Title = *req.Title
	}

	if err := s.repo.Milestone.Update(ctx, &milestone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("update milestone: %w", err)
	}

	s.log.Info("Milestone updated",
		zap.String("milestone_id", milestone.ID.String()),
		zap.String("from", previous),
		zap.String("to", milestone.Status),
	)
	publish(ctx, s.pub, s.log, events.Event{
		Type:   events.MilestoneUpdated,
		TaskID: milestone.TaskID,
		Payload: map[string]any{
			"milestone_id": milestone.ID,
			"status":       milestone.Status,
		},
	})

	resp := response.MilestoneToResponse(&milestone)
	return &resp, nil
}
