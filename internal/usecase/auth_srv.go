package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/response"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/mailer"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const mailTimeout = 30 * time.Second

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error
	ResendVerification(ctx context.Context, req *request.EmailRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error)
	RequestPasswordReset(ctx context.Context, req *request.EmailRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
	// Drain waits for queued emails to finish or ctx to end.
	Drain(ctx context.Context) error
}

type authService struct {
	repo   *repository.Repository // user & otp
	otp    OTPManager
	tokens *token.Service
	mail   mailer.Mailer
	log    *zap.Logger

	sending sync.WaitGroup // in-flight sendAsync goroutines
}

func NewAuthService(
	repo *repository.Repository,
	otp OTPManager,
	tokens *token.Service,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		tokens: tokens,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	if req.Role == string(entity.RoleAdmin) {
		return nil, ErrAdminRole
	}
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := entity.RoleClient
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		FullName:     req.FullName,
		Bio:          req.Bio,
		Role:         role,
		Status:       entity.StatusPendingVerification,
	}

	// the unique indexes decide races the pre-checks above cannot see
	if err := s.repo.User.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	// The account exists from here on. A failed issue is recoverable through
	// resend-otp, so it does not fail the registration.
	if code, err := s.otp.Issue(ctx, user.ID); err != nil {
		s.log.Error("Failed to issue verification OTP", zap.Error(err), zap.String("user_id", user.ID.String()))
	} else {
		s.sendAsync(user.Email, verificationSubject, verificationBody(code))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	return response.UserToResponse(user), nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return ErrAccountNotFound
	}
	// ACTIVE is terminal; leave any live reset code alone
	if user.IsActive() {
		s.log.Info("Verification for active account ignored", zap.String("user_id", user.ID.String()))
		return nil
	}

	ok, err := s.otp.Redeem(ctx, user.ID, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("Invalid verification OTP", zap.String("user_id", user.ID.String()))
		return ErrInvalidOTP
	}

	if err := s.repo.User.UpdateStatus(ctx, user.ID, entity.StatusActive); err != nil {
		return fmt.Errorf("activate account: %w", err)
	}

	s.log.Info("Account verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, req *request.EmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	// same answer whether or not the address is known
	if user == nil || user.IsActive() {
		return nil
	}

	code, err := s.otp.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendAsync(user.Email, verificationSubject, verificationBody(code))
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.log.Warn("Unverified account tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrUnverified
	}

	pair, err := s.tokens.IssuePair(user.ID.String())
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return response.TokensToResponse(pair), nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	subject, err := s.tokens.VerifyAndExtractSubject(req.RefreshToken)
	if err != nil {
		s.log.Debug("Refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil || !user.IsActive() {
		return nil, ErrInvalidToken
	}

	pair, err := s.tokens.IssuePair(user.ID.String())
	if err != nil {
		return nil, err
	}
	return response.TokensToResponse(pair), nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, req *request.EmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email", zap.String("email", req.Email))
		return nil
	}

	code, err := s.otp.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	s.sendAsync(user.Email, resetSubject, resetBody(code))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return ErrInvalidOTP
	}

	ok, err := s.otp.Redeem(ctx, user.ID, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("Invalid password reset OTP", zap.String("user_id", user.ID.String()))
		return ErrInvalidOTP
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.User.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

const (
	verificationSubject = "Verify your account"
	resetSubject        = "Your password reset code"
)

func verificationBody(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires shortly; request a new one if it does.", code)
}

func resetBody(code string) string {
	return fmt.Sprintf("Your password reset code is %s. If you did not ask for it, ignore this email.", code)
}

// sendAsync delivers mail off the request path. Failures are only logged.
func (s *authService) sendAsync(to, subject, body string) {
	s.sending.Add(1)
	go func() {
		defer s.sending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := s.mail.Send(ctx, to, subject, body); err != nil {
			s.log.Error("Failed to send email", zap.Error(err), zap.String("to", to), zap.String("subject", subject))
		}
	}()
}

func (s *authService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.sending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn("Emails still in flight at shutdown", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
