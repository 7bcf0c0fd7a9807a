package repository

import (
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	OTP       OTPRepository
	Task      TaskRepository
	Bid       BidRepository
	Milestone MilestoneRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		OTP:       NewOTPRepository(db, log),
		Task:      NewTaskRepository(db, log),
		Bid:       NewBidRepository(db, log),
		Milestone: NewMilestoneRepository(db, log),
	}
}
