package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	// Replace stores otp as the only live code of otp.UserID.
	Replace(ctx context.Context, otp *entity.OTP) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.OTP, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) error
	// Consume deletes the code only if it matches and is unexpired at now,
	// and reports whether it did.
	Consume(ctx context.Context, userID uuid.UUID, code string, now time.Time) (bool, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Replace(ctx context.Context, otp *entity.OTP) error {
	// single statement, so an issue racing a validate never sees two codes
	query := `
		INSERT INTO otp_codes (id, user_id, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id,
		    code = EXCLUDED.code,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.UserID,
		otp.Code,
		otp.ExpiresAt,
		otp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to store OTP",
			zap.Error(err),
			zap.String("user_id", otp.UserID.String()),
		)
		return fmt.Errorf("store OTP for user %s: %w", otp.UserID, err)
	}

	return nil
}

func (r *otpRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.OTP, error) {
	query := `
		SELECT id, user_id, code, expires_at, created_at
		FROM otp_codes
		WHERE user_id = $1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find OTP for user %s: %w", userID, err)
	}

	return &otp, nil
}

func (r *otpRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to delete OTP", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete OTP for user %s: %w", userID, err)
	}
	return nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	query := `DELETE FROM otp_codes WHERE user_id = $1 AND expires_at <= $2`

	if _, err := r.db.Exec(ctx, query, userID, now); err != nil {
		r.log.Error("Failed to delete expired OTP", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete expired OTP for user %s: %w", userID, err)
	}
	return nil
}

func (r *otpRepository) Consume(ctx context.Context, userID uuid.UUID, code string, now time.Time) (bool, error) {
	query := `
		DELETE FROM otp_codes
		WHERE user_id = $1
		  AND code = $2
		  AND expires_at > $3
	`

	result, err := r.db.Exec(ctx, query, userID, code, now)
	if err != nil {
		r.log.Error("Failed to consume OTP", zap.Error(err), zap.String("user_id", userID.String()))
		return false, fmt.Errorf("consume OTP for user %s: %w", userID, err)
	}

	return result.RowsAffected() == 1, nil
}
