package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Constraint names declared in the schema migrations.
const (
	UsersStudentIDKey        = "users_student_id_key"
	AchievementsStudentFKey  = "achievements_student_id_fkey"
	AchievementImagesKindChk = "achievement_images_category_kind_check"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isViolation(err, uniqueViolation, constraintName)
}

// IsForeignKeyError reports a foreign key violation on the named constraint.
func IsForeignKeyError(err error, constraintName string) bool {
	return isViolation(err, foreignKeyViolation, constraintName)
}

// IsCheckError reports a CHECK constraint violation on the named constraint.
func IsCheckError(err error, constraintName string) bool {
	return isViolation(err, checkViolation, constraintName)
}

func isViolation(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
