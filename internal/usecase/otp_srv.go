package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPManager owns the single live verification code of each account.
type OTPManager interface {
	// Issue replaces any live code of the account with a fresh one.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	// Validate reports whether candidate matches the live, unexpired code.
	// It never consumes a valid code; an expired code is deleted.
	Validate(ctx context.Context, userID uuid.UUID, candidate string) (bool, error)
	// Clear deletes the account's code, if any.
	Clear(ctx context.Context, userID uuid.UUID) error
	// Redeem validates and clears in one step. For a given issued code it
	// returns true at most once, however many callers race.
	Redeem(ctx context.Context, userID uuid.UUID, candidate string) (bool, error)
}

type otpManager struct {
	repo   repository.OTPRepository
	expiry time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewOTPManager(repo repository.OTPRepository, expiry time.Duration, log *zap.Logger) OTPManager {
	return newOTPManager(repo, expiry, time.Now, log)
}

func newOTPManager(repo repository.OTPRepository, expiry time.Duration, now func() time.Time, log *zap.Logger) *otpManager {
	return &otpManager{
		repo:   repo,
		expiry: expiry,
		now:    now,
		log:    log.With(zap.String("service", "otp")),
	}
}

func (m *otpManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		m.log.Error("Failed to generate OTP", zap.Error(err))
		return "", fmt.Errorf("generate OTP: %w", err)
	}

	now := m.now()
	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Code:      code,
		ExpiresAt: now.Add(m.expiry),
	}

	if err := m.repo.Replace(ctx, otp); err != nil {
		return "", fmt.Errorf("issue OTP: %w", err)
	}

	m.log.Debug("OTP issued",
		zap.String("user_id", userID.String()),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	return code, nil
}

func (m *otpManager) Validate(ctx context.Context, userID uuid.UUID, candidate string) (bool, error) {
	otp, err := m.repo.FindByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("validate OTP: %w", err)
	}
	if otp == nil {
		return false, nil
	}

	now := m.now()
	if otp.Expired(now) {
		if err := m.repo.DeleteExpired(ctx, userID, now); err != nil {
			m.log.Warn("Failed to delete expired OTP", zap.Error(err), zap.String("user_id", userID.String()))
		}
		return false, nil
	}

	return otp.Code == candidate, nil
}

func (m *otpManager) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := m.repo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("clear OTP: %w", err)
	}
	return nil
}

func (m *otpManager) Redeem(ctx context.Context, userID uuid.UUID, candidate string) (bool, error) {
	now := m.now()
	ok, err := m.repo.Consume(ctx, userID, candidate, now)
	if err != nil {
		return false, fmt.Errorf("redeem OTP: %w", err)
	}
	if !ok {
		// drop an expired leftover so it cannot linger
		if err := m.repo.DeleteExpired(ctx, userID, now); err != nil {
			m.log.Warn("Failed to delete expired OTP", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}
	return ok, nil
}
