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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService interface {
	CreateTask(ctx context.Context, caller entity.Caller, req *request.CreateTaskRequest) (*response.TaskResponse, error)
	GetTasks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaskResponse], error)
	GetTaskByID(ctx context.Context, taskID string) (*response.TaskResponse, error)
	GetMyTasks(ctx context.Context, caller entity.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaskResponse], error)
	UpdateTask(ctx context.Context, caller entity.Caller, taskID string, req *request.UpdateTaskRequest) (*response.TaskResponse, error)
	DeleteTask(ctx context.Context, caller entity.Caller, taskID string) error
}

type taskService struct {
	repo *repository.Repository // task
	log  *zap.Logger
}

func NewTaskService(repo *repository.Repository, log *zap.Logger) TaskService {
	return &taskService{
		repo: repo,
		log:  log.With(zap.String("service", "task")),
	}
}

func (s *taskService) CreateTask(ctx context.Context, caller entity.Caller, req *request.CreateTaskRequest) (*response.TaskResponse, error) {
	if !caller.HasRole(entity.RoleClient) {
		return nil, ErrRoleRequired
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &entity.Task{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      entity.TaskStatusOpen,
		CreatedBy:   caller.ID,
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("owner_id", caller.ID.String()),
	)

	resp := response.TaskToResponse(task)
	return &resp, nil
}

func (s *taskService) GetTasks(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaskResponse], error) {
	tasks, err := s.repo.Task.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	total, err := s.repo.Task.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	return response.NewPaginatedResponse(response.TasksToResponse(tasks), req.Page, req.Limit(), total), nil
}

func (s *taskService) GetTaskByID(ctx context.Context, taskID string) (*response.TaskResponse, error) {
	id, err := parseID(taskID, ErrTaskNotFound)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.Task.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	resp := response.TaskToResponse(task)
	return &resp, nil
}

func (s *taskService) GetMyTasks(ctx context.Context, caller entity.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaskResponse], error) {
	tasks, err := s.repo.Task.FindByOwner(ctx, caller.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list own tasks: %w", err)
	}

	total, err := s.repo.Task.CountByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("count own tasks: %w", err)
	}

	return response.NewPaginatedResponse(response.TasksToResponse(tasks), req.Page, req.Limit(), total), nil
}

func (s *taskService) UpdateTask(ctx context.Context, caller entity.Caller, taskID string, req *request.UpdateTaskRequest) (*response.TaskResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	task, err := ownedTask(ctx, s.repo.Task, caller, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Task.Update(ctx, task.ID, entity.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      req.Status,
	}, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.log.Info("Task updated", zap.String("task_id", updated.ID.String()))
	resp := response.TaskToResponse(updated)
	return &resp, nil
}

func (s *taskService) DeleteTask(ctx context.Context, caller entity.Caller, taskID string) error {
	task, err := ownedTask(ctx, s.repo.Task, caller, taskID)
	if err != nil {
		return err
	}

	if err := s.repo.Task.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.log.Info("Task deleted", zap.String("task_id", task.ID.String()), zap.String("owner_id", caller.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

// parseID parses a path identifier. A malformed id cannot name an existing
// record, so it is reported as notFound.
func parseID(raw string, notFound *Error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// ownedTask loads a task and checks that caller created it.
func ownedTask(ctx context.Context, tasks repository.TaskRepository, caller entity.Caller, taskID string) (*entity.Task, error) {
	id, err := parseID(taskID, ErrTaskNotFound)
	if err != nil {
		return nil, err
	}

	task, err := tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if !caller.Owns(task.CreatedBy) {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}
