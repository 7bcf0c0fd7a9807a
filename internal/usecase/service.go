package usecase

import (
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/mailer"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Task      TaskService
	Bid       BidService
	Milestone MilestoneService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	tokens *token.Service,
	mail mailer.Mailer,
	pub events.Publisher,
	log *zap.Logger,
) *Service {
	otp := NewOTPManager(repo.OTP, time.Duration(config.OTP.ExpiryMinutes)*time.Minute, log)

	return &Service{
		Auth:      NewAuthService(repo, otp, tokens, mail, log),
		User:      NewUserService(repo.User, log),
		Task:      NewTaskService(repo, log),
		Bid:       NewBidService(repo, pub, log),
		Milestone: NewMilestoneService(repo, pub, log),
	}
}
