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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, bio string) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password, full_name, bio, role, status, created_at, updated_at`

// Create inserts a new account. Username and email uniqueness is enforced by
// the table, so concurrent registrations cannot both succeed.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Bio,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	switch constraintViolated(err) {
	case "":
	case "users_username_key":
		return ErrDuplicateUsername
	case "users_email_key":
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := ur.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	return user, nil
}

// findOne returns (nil, nil) when no row matches.
func (ur *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User
	err := ur.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Bio,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	return ur.update(ctx, "status",
		`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`, id, status)
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return ur.update(ctx, "password",
		`UPDATE users SET password = $2, updated_at = $3 WHERE id = $1`, id, passwordHash)
}

func (ur *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, bio string) error {
	query := `UPDATE users SET full_name = $2, bio = $3, updated_at = $4 WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id, fullName, bio, time.Now())
	if err != nil {
		ur.log.Error("Failed to update user profile", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update profile of user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update profile of user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (ur *userRepository) update(ctx context.Context, field, query string, id uuid.UUID, value any) error {
	result, err := ur.db.Exec(ctx, query, id, value, time.Now())
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("field", field),
		)
		return fmt.Errorf("update %s of user %s: %w", field, id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update %s of user %s: %w", field, id, ErrNotFound)
	}

	return nil
}
