package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

// ListStudentsParams holds filters and pagination for the student summary listing.
// Size 0 disables pagination.
type ListStudentsParams struct {
	Filter models.StudentFilter
	Page   int
	Size   int
}

// StudentRepository answers aggregate questions about the users who submitted achievements
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// summaryQuery groups achievements per user. The all-audited flag is true when no
// achievement of the user is unaudited.
func summaryQuery(f models.StudentFilter) squirrel.SelectBuilder {
	b := squirrel.Select(
		"u.student_id", "u.name",
		"COUNT(a.id) AS submit_count",
		"MAX(a.created_at) AS last_submit_time",
		"COALESCE(BOOL_AND(a.audit_status), TRUE) AS all_audited",
	).From("users u").
		Join("achievements a ON a.student_id = u.student_id").
		GroupBy("u.student_id", "u.name")

	if f.StudentID != "" {
		b = b.Where(squirrel.ILike{"u.student_id": helpers.ContainsPattern(f.StudentID)})
	}
	if f.Name != "" {
		b = b.Where(squirrel.ILike{"u.name": helpers.ContainsPattern(f.Name)})
	}
	if f.AuditStatus != nil {
		b = b.Having("COALESCE(BOOL_AND(a.audit_status), TRUE) = ?", *f.AuditStatus)
	}
	return b
}

func scanSummary(row pgx.Row) (*models.StudentSummary, error) {
	var s models.StudentSummary
	if err := row.Scan(&s.StudentID, &s.Name, &s.SubmitCount, &s.LastSubmitTime, &s.AllAudited); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSummaries returns students with at least one achievement, most recent submitter first
func (r *StudentRepository) ListSummaries(ctx context.Context, params ListStudentsParams) ([]models.StudentSummary, int64, error) {
	countSQL, countArgs, err := squirrel.Select("count(*)").
		FromSelect(summaryQuery(params.Filter), "s").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, 0, err
	}
	if total == 0 {
		return []models.StudentSummary{}, 0, nil
	}

	sqlBuilder := summaryQuery(params.Filter).
		OrderBy("last_submit_time DESC", "u.student_id").
		PlaceholderFormat(squirrel.Dollar)
	if params.Size > 0 {
		offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
		sqlBuilder = sqlBuilder.Offset(offset).Limit(limit)
	}

	sql, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]models.StudentSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student summary")
			return nil, 0, err
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// GetSummary aggregates the achievements of one user. A user without achievements
// has a zero count and counts as fully audited.
func (r *StudentRepository) GetSummary(ctx context.Context, studentID string) (*models.StudentSummary, error) {
	sql, args, err := squirrel.Select(
		"u.student_id", "u.name",
		"COUNT(a.id)",
		"MAX(a.created_at)",
		"COALESCE(BOOL_AND(a.audit_status), TRUE)",
	).From("users u").
		LeftJoin("achievements a ON a.student_id = u.student_id").
		Where(squirrel.Eq{"u.student_id": studentID}).
		GroupBy("u.student_id", "u.name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student summary SQL")
		return nil, err
	}

	summary, err := scanSummary(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student summary")
		return nil, err
	}
	return summary, nil
}
