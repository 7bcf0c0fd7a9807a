package usecase

import (
	"context"
	"fmt"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/response"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, caller entity.Caller) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, caller entity.Caller, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, caller entity.Caller) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}

	return response.UserToResponse(user), nil
}

func (us *userService) UpdateProfile(ctx context.Context, caller entity.Caller, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}

	if err := us.userRepo.UpdateProfile(ctx, user.ID, req.FullName, req.Bio); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user.FullName = req.FullName
	user.Bio = req.Bio
	us.log.Info("Profile updated", zap.String("user_id", user.ID.String()))

	return response.UserToResponse(user), nil
}
