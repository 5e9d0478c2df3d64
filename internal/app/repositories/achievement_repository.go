package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/db"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/dberrors"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

// ListAchievementsParams holds filters and pagination for achievement listings.
// Size 0 disables pagination.
type ListAchievementsParams struct {
	Filter models.AchievementFilter
	Page   int
	Size   int
}

// AchievementRow is an achievement joined with its owner's name
type AchievementRow struct {
	models.Achievement
	StudentName string
}

// AchievementRepository handles database operations for achievements and their category records.
type AchievementRepository struct {
	db *pgxpool.Pool
}

// NewAchievementRepository creates a new instance of AchievementRepository.
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *AchievementRepository) selectAchievementQuery() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.student_id", "a.openid", "a.created_at",
		"a.audit_status", "a.audit_note", "a.audit_time", "a.audited_by",
		"COALESCE(u.name, '') AS student_name",
	).From("achievements a").
		LeftJoin("users u ON u.student_id = a.student_id")
}

func scanAchievementRow(row pgx.Row) (*AchievementRow, error) {
	var a AchievementRow
	err := row.Scan(
		&a.ID, &a.StudentID, &a.OpenID, &a.CreatedAt,
		&a.AuditStatus, &a.AuditNote, &a.AuditTime, &a.AuditedBy,
		&a.StudentName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAchievementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// insertReturningID executes an INSERT ... RETURNING id inside q
func insertReturningID(ctx context.Context, q db.Querier, b squirrel.InsertBuilder) (int64, error) {
	sql, args, err := b.Suffix("RETURNING id").PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func insertImages(ctx context.Context, q db.Querier, achievementID int64, kind models.CategoryKind, recordID int64, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}
	if !kind.Valid() {
		return fmt.Errorf("unknown category kind %q", kind)
	}

	b := squirrel.Insert("achievement_images").
		Columns("achievement_id", "category_kind", "record_id", "file_path", "file_name")
	for _, img := range images {
		b = b.Values(achievementID, kind, recordID, img.FilePath, img.FileName)
	}
	sql, args, err := b.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

// CreateSubmission stores an achievement with all of its category records and image
// attachments in one transaction. Nothing is stored when any insert fails.
func (r *AchievementRepository) CreateSubmission(ctx context.Context, sub *models.Submission) (int64, error) {
	var achievementID int64

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertReturningID(ctx, tx, squirrel.Insert("achievements").
			Columns("student_id", "openid", "audit_status").
			Values(sub.StudentID, sub.OpenID, false))
		if err != nil {
			return fmt.Errorf("insert achievement: %w", err)
		}
		achievementID = id

		for _, p := range sub.Papers {
			recordID, err := insertReturningID(ctx, tx, squirrel.Insert("papers").
				Columns("achievement_id", "title", "journal", "publish_date").
				Values(id, p.Title, p.Journal, p.PublishDate))
			if err != nil {
				return fmt.Errorf("insert paper: %w", err)
			}
			if err := insertImages(ctx, tx, id, models.KindPaper, recordID, p.Images); err != nil {
				return fmt.Errorf("insert paper images: %w", err)
			}
		}

		for _, p := range sub.Policies {
			recordID, err := insertReturningID(ctx, tx, squirrel.Insert("policy_reports").
				Columns("achievement_id", "title", "adopt_unit", "submit_date").
				Values(id, p.Title, p.AdoptUnit, p.SubmitDate))
			if err != nil {
				return fmt.Errorf("insert policy report: %w", err)
			}
			if err := insertImages(ctx, tx, id, models.KindPolicyReport, recordID, p.Images); err != nil {
				return fmt.Errorf("insert policy report images: %w", err)
			}
		}

		for _, a := range sub.Academics {
			recordID, err := insertReturningID(ctx, tx, squirrel.Insert("academic_exchanges").
				Columns("achievement_id", "name", "participate_type", "exchange_date").
				Values(id, a.Name, a.ParticipateType, a.ExchangeDate))
			if err != nil {
				return fmt.Errorf("insert academic exchange: %w", err)
			}
			if err := insertImages(ctx, tx, id, models.KindAcademicExchange, recordID, a.Images); err != nil {
				return fmt.Errorf("insert academic exchange images: %w", err)
			}
		}

		for _, v := range sub.Volunteers {
			recordID, err := insertReturningID(ctx, tx, squirrel.Insert("volunteer_services").
				Columns("achievement_id", "project_name", "hours", "service_date").
				Values(id, v.ProjectName, v.Hours, v.ServiceDate))
			if err != nil {
				return fmt.Errorf("insert volunteer service: %w", err)
			}
			if err := insertImages(ctx, tx, id, models.KindVolunteerService, recordID, v.Images); err != nil {
				return fmt.Errorf("insert volunteer service images: %w", err)
			}
		}

		for _, a := range sub.Awards {
			recordID, err := insertReturningID(ctx, tx, squirrel.Insert("awards").
				Columns("achievement_id", "name", "level", "award_date").
				Values(id, a.Name, a.Level, a.AwardDate))
			if err != nil {
				return fmt.Errorf("insert award: %w", err)
			}
			if err := insertImages(ctx, tx, id, models.KindAward, recordID, a.Images); err != nil {
				return fmt.Errorf("insert award images: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if dberrors.IsForeignKeyError(err, dberrors.AchievementsStudentFKey) {
			return 0, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("studentID", sub.StudentID).Msg("Error storing submission")
		return 0, apperrors.NewStorageError("failed to store submission", err)
	}

	return achievementID, nil
}

// GetByID retrieves one achievement with its owner's name
func (r *AchievementRepository) GetByID(ctx context.Context, id int64) (*AchievementRow, error) {
	sql, args, err := r.selectAchievementQuery().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get achievement SQL")
		return nil, err
	}

	row, err := scanAchievementRow(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrAchievementNotFound) {
		logger.Error().Err(err).Int64("achievementID", id).Msg("Error scanning achievement")
	}
	return row, err
}

func applyAchievementFilter(b squirrel.SelectBuilder, f models.AchievementFilter) squirrel.SelectBuilder {
	if f.AuditStatus != nil {
		b = b.Where(squirrel.Eq{"a.audit_status": *f.AuditStatus})
	}
	if f.StudentID != nil && *f.StudentID != "" {
		b = b.Where(squirrel.Eq{"a.student_id": *f.StudentID})
	}
	return b
}

// List returns achievements newest first together with the number of matching rows
func (r *AchievementRepository) List(ctx context.Context, params ListAchievementsParams) ([]AchievementRow, int64, error) {
	countBuilder := applyAchievementFilter(psql.Select("count(*)").From("achievements a"), params.Filter)
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count achievements SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count achievements query")
		return nil, 0, err
	}
	if total == 0 {
		return []AchievementRow{}, 0, nil
	}

	sqlBuilder := applyAchievementFilter(r.selectAchievementQuery(), params.Filter).
		OrderBy("a.created_at DESC", "a.id DESC")
	if params.Size > 0 {
		offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
		sqlBuilder = sqlBuilder.Offset(offset).Limit(limit)
	}

	sql, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list achievements SQL")
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list achievements query")
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]AchievementRow, 0)
	for rows.Next() {
		a, err := scanAchievementRow(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning achievement row")
			return nil, 0, err
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// GetDetail loads an achievement with every category record and each record's images
func (r *AchievementRepository) GetDetail(ctx context.Context, id int64) (*models.AchievementDetail, error) {
	head, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.AchievementDetail{
		Achievement: head.Achievement,
		StudentName: head.StudentName,
	}

	images, err := r.imagesByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	if detail.Papers, err = queryRecords(ctx, r.db,
		`SELECT id, achievement_id, title, journal, publish_date FROM papers WHERE achievement_id = $1 ORDER BY id`, id,
		func(row pgx.Rows) (models.Paper, error) {
			var p models.Paper
			err := row.Scan(&p.ID, &p.AchievementID, &p.Title, &p.Journal, &p.PublishDate)
			p.Images = images[ownerKey{models.KindPaper, p.ID}]
			return p, err
		}); err != nil {
		return nil, err
	}

	if detail.Policies, err = queryRecords(ctx, r.db,
		`SELECT id, achievement_id, title, adopt_unit, submit_date FROM policy_reports WHERE achievement_id = $1 ORDER BY id`, id,
		func(row pgx.Rows) (models.PolicyReport, error) {
			var p models.PolicyReport
			err := row.Scan(&p.ID, &p.AchievementID, &p.Title, &p.AdoptUnit, &p.SubmitDate)
			p.Images = images[ownerKey{models.KindPolicyReport, p.ID}]
			return p, err
		}); err != nil {
		return nil, err
	}

	if detail.Academics, err = queryRecords(ctx, r.db,
		`SELECT id, achievement_id, name, participate_type, exchange_date FROM academic_exchanges WHERE achievement_id = $1 ORDER BY id`, id,
		func(row pgx.Rows) (models.AcademicExchange, error) {
			var a models.AcademicExchange
			err := row.Scan(&a.ID, &a.AchievementID, &a.Name, &a.ParticipateType, &a.ExchangeDate)
			a.Images = images[ownerKey{models.KindAcademicExchange, a.ID}]
			return a, err
		}); err != nil {
		return nil, err
	}

	if detail.Volunteers, err = queryRecords(ctx, r.db,
		`SELECT id, achievement_id, project_name, hours, service_date FROM volunteer_services WHERE achievement_id = $1 ORDER BY id`, id,
		func(row pgx.Rows) (models.VolunteerService, error) {
			var v models.VolunteerService
			err := row.Scan(&v.ID, &v.AchievementID, &v.ProjectName, &v.Hours, &v.ServiceDate)
			v.Images = images[ownerKey{models.KindVolunteerService, v.ID}]
			return v, err
		}); err != nil {
		return nil, err
	}

	if detail.Awards, err = queryRecords(ctx, r.db,
		`SELECT id, achievement_id, name, level, award_date FROM awards WHERE achievement_id = $1 ORDER BY id`, id,
		func(row pgx.Rows) (models.Award, error) {
			var a models.Award
			err := row.Scan(&a.ID, &a.AchievementID, &a.Name, &a.Level, &a.AwardDate)
			a.Images = images[ownerKey{models.KindAward, a.ID}]
			return a, err
		}); err != nil {
		return nil, err
	}

	return detail, nil
}

type ownerKey struct {
	kind     models.CategoryKind
	recordID int64
}

func (r *AchievementRepository) imagesByOwner(ctx context.Context, achievementID int64) (map[ownerKey][]models.Image, error) {
	images, err := queryRecords(ctx, r.db,
		`SELECT id, achievement_id, category_kind, record_id, file_path, file_name, created_at
		FROM achievement_images WHERE achievement_id = $1 ORDER BY id`, achievementID,
		func(row pgx.Rows) (models.Image, error) {
			var img models.Image
			err := row.Scan(&img.ID, &img.AchievementID, &img.Kind, &img.RecordID, &img.FilePath, &img.FileName, &img.CreatedAt)
			return img, err
		})
	if err != nil {
		return nil, err
	}

	byOwner := make(map[ownerKey][]models.Image, len(images))
	for _, img := range images {
		key := ownerKey{img.Kind, img.RecordID}
		byOwner[key] = append(byOwner[key], img)
	}
	return byOwner, nil
}

// queryRecords runs sql with a single argument and scans every row with scan
func queryRecords[T any](ctx context.Context, q db.Querier, sql string, arg interface{}, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing category query")
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning category row")
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Audit records the audit outcome. Repeating an audit overwrites the previous one.
func (r *AchievementRepository) Audit(ctx context.Context, id int64, status bool, note *string, auditor string, at time.Time) (*models.Achievement, error) {
	sql, args, err := psql.Update("achievements").
		Set("audit_status", status).
		Set("audit_note", note).
		Set("audit_time", at).
		Set("audited_by", auditor).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, student_id, openid, created_at, audit_status, audit_note, audit_time, audited_by").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building audit SQL")
		return nil, err
	}

	var a models.Achievement
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.StudentID, &a.OpenID, &a.CreatedAt,
		&a.AuditStatus, &a.AuditNote, &a.AuditTime, &a.AuditedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAchievementNotFound
		}
		logger.Error().Err(err).Int64("achievementID", id).Msg("Error executing audit query")
		return nil, apperrors.NewStorageError("failed to audit achievement", err)
	}
	return &a, nil
}

// Delete removes an achievement; category records and images go with it.
// It returns the file paths that no remaining attachment references.
func (r *AchievementRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	var orphaned []string

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT DISTINCT i.file_path FROM achievement_images i
			WHERE i.achievement_id = $1
			AND NOT EXISTS (
				SELECT 1 FROM achievement_images o
				WHERE o.file_path = i.file_path AND o.achievement_id <> $1
			)`, id)
		if err != nil {
			return err
		}
		orphaned, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAchievementNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAchievementNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("achievementID", id).Msg("Error deleting achievement")
		return nil, apperrors.NewStorageError("failed to delete achievement", err)
	}

	return orphaned, nil
}
