package adaptor

import (
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Task      *TaskHandler
	Bid       *BidHandler
	Milestone *MilestoneHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Task:      NewTaskHandler(service.Task, log),
		Bid:       NewBidHandler(service.Bid, log),
		Milestone: NewMilestoneHandler(service.Milestone, log),
	}
}
