package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/dberrors"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

var userColumns = []string{
	"id", "student_id", "name", "password_hash", "role", "is_active", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.StudentID, &user.Name, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts user and fills its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := squirrel.Insert("users").
		Columns("student_id", "name", "password_hash", "role", "is_active").
		Values(user.StudentID, user.Name, user.PasswordHash, user.Role, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.UsersStudentIDKey) {
			return apperrors.ErrStudentIDExists
		}
		logger.Error().Err(err).Str("studentID", user.StudentID).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByStudentID retrieves a user by its student identifier
func (r *UserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning user")
	}
	return user, err
}

// StudentIDExists checks if a student identifier is already registered
func (r *UserRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE student_id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student ID: %w", err)
	}
	return exists, nil
}

// UpdateRole sets the role of a user and returns the updated row
func (r *UserRepository) UpdateRole(ctx context.Context, studentID string, role models.Role) (*models.User, error) {
	sql, args, err := squirrel.Update("users").
		Set("role", role).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update role SQL")
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error updating user role")
		return nil, fmt.Errorf("error updating role: %w", err)
	}
	return user, err
}

// UpdatePassword replaces the stored password hash of a user
func (r *UserRepository) UpdatePassword(ctx context.Context, studentID, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE student_id = $2`,
		passwordHash, studentID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables login for a user
func (r *UserRepository) SetActive(ctx context.Context, studentID string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE student_id = $2`,
		active, studentID)
	if err != nil {
		return fmt.Errorf("error updating active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
