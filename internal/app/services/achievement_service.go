package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/app/repositories"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/export"
	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
	"github.com/ccnu/student-achievements/internal/pkg/metrics"
)

const (
	maxTextLen   = 255
	maxDateLen   = 20
	maxOpenIDLen = 100
	maxPathLen   = 500

	// NUMERIC(10,2)
	maxHours = 1e8
)

// AchievementStore is the persistence the achievement service needs
type AchievementStore interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) (int64, error)
	List(ctx context.Context, params repositories.ListAchievementsParams) ([]repositories.AchievementRow, int64, error)
	GetDetail(ctx context.Context, id int64) (*models.AchievementDetail, error)
	Audit(ctx context.Context, id int64, status bool, note *string, auditor string, at time.Time) (*models.Achievement, error)
	Delete(ctx context.Context, id int64) ([]string, error)
}

// AchievementService implements submission, audit and review of achievements
type AchievementService struct {
	achievementRepo AchievementStore
	userRepo        UserStore
	storage         filestorage.FileStorage
	logger          zerolog.Logger
	now             func() time.Time
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(
	achievementRepo AchievementStore,
	userRepo UserStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		storage:         storage,
		logger:          logger,
		now:             time.Now,
	}
}

// Submit validates a submission and stores it in one transaction.
// A student may only submit for themselves; staff may submit for any registered student.
func (s *AchievementService) Submit(ctx context.Context, actor *models.User, req *dto.SubmitRequest) (int64, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		return 0, apperrors.NewValidationError("student_id is required")
	}
	if actor == nil || (!actor.Role.IsStaff() && actor.StudentID != studentID) {
		return 0, apperrors.NewUnauthorizedError("students may only submit their own achievements")
	}

	exists, err := s.userRepo.StudentIDExists(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("error checking if student ID exists: %w", err)
	}
	if !exists {
		return 0, apperrors.ErrUserNotFound
	}

	sub, err := BuildSubmission(studentID, req)
	if err != nil {
		return 0, err
	}

	id, err := s.achievementRepo.CreateSubmission(ctx, sub)
	if err != nil {
		return 0, err
	}

	metrics.Submissions.Inc()
	s.logger.Info().
		Int64("achievementID", id).
		Str("studentID", studentID).
		Str("submittedBy", actor.StudentID).
		Int("papers", len(sub.Papers)).
		Int("policies", len(sub.Policies)).
		Int("academics", len(sub.Academics)).
		Int("volunteers", len(sub.Volunteers)).
		Int("awards", len(sub.Awards)).
		Msg("Achievement submitted")
	return id, nil
}

// BuildSubmission turns a submit request into a storable submission. Entries whose
// required field is blank are skipped; classification indices are resolved against
// their vocabularies. Nothing is written when an error is returned.
func BuildSubmission(studentID string, req *dto.SubmitRequest) (*models.Submission, error) {
	openID := strings.TrimSpace(req.OpenID)
	if utf8.RuneCountInString(openID) > maxOpenIDLen {
		return nil, apperrors.NewValidationError(fmt.Sprintf("openid longer than %d characters", maxOpenIDLen))
	}
	sub := &models.Submission{
		StudentID: studentID,
		OpenID:    helpers.NullIfEmpty(openID),
	}

	for i, item := range req.PaperList {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		if err := checkEntry(fmt.Sprintf("paperList[%d]", i), item.Date, item.Images, title, item.Journal); err != nil {
			return nil, err
		}
		sub.Papers = append(sub.Papers, models.Paper{
			Title:       title,
			Journal:     strings.TrimSpace(item.Journal),
			PublishDate: strings.TrimSpace(item.Date),
			Images:      toImages(item.Images),
		})
	}

	for i, item := range req.PolicyList {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		if err := checkEntry(fmt.Sprintf("policyList[%d]", i), item.Date, item.Images, title, item.AdoptUnit); err != nil {
			return nil, err
		}
		sub.Policies = append(sub.Policies, models.PolicyReport{
			Title:      title,
			AdoptUnit:  strings.TrimSpace(item.AdoptUnit),
			SubmitDate: strings.TrimSpace(item.Date),
			Images:     toImages(item.Images),
		})
	}

	for i, item := range req.AcademicList {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		field := fmt.Sprintf("academicList[%d]", i)
		if err := checkEntry(field, item.Date, item.Images, name); err != nil {
			return nil, err
		}
		participateType, err := models.ParticipateTypes.Resolve(item.TypeIndex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		sub.Academics = append(sub.Academics, models.AcademicExchange{
			Name:            name,
			ParticipateType: participateType,
			ExchangeDate:    strings.TrimSpace(item.Date),
			Images:          toImages(item.Images),
		})
	}

	for i, item := range req.VolunteerList {
		project := strings.TrimSpace(item.ProjectName)
		if project == "" {
			continue
		}
		field := fmt.Sprintf("volunteerList[%d]", i)
		if err := checkEntry(field, item.Date, item.Images, project); err != nil {
			return nil, err
		}
		hours, err := parseHours(item.Hours)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("%s: %s", field, err))
		}
		sub.Volunteers = append(sub.Volunteers, models.VolunteerService{
			ProjectName: project,
			Hours:       hours,
			ServiceDate: strings.TrimSpace(item.Date),
			Images:      toImages(item.Images),
		})
	}

	for i, item := range req.AwardList {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		field := fmt.Sprintf("awardList[%d]", i)
		if err := checkEntry(field, item.Date, item.Images, name); err != nil {
			return nil, err
		}
		level, err := models.AwardLevels.Resolve(item.LevelIndex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		sub.Awards = append(sub.Awards, models.Award{
			Name:      name,
			Level:     level,
			AwardDate: strings.TrimSpace(item.Date),
			Images:    toImages(item.Images),
		})
	}

	return sub, nil
}

func checkEntry(field, date string, images []string, texts ...string) error {
	for _, p := range images {
		if utf8.RuneCountInString(strings.TrimSpace(p)) > maxPathLen {
			return apperrors.NewValidationError(fmt.Sprintf("%s: image path longer than %d characters", field, maxPathLen))
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(date)) > maxDateLen {
		return apperrors.NewValidationError(fmt.Sprintf("%s: date longer than %d characters", field, maxDateLen))
	}
	for _, t := range texts {
		if utf8.RuneCountInString(strings.TrimSpace(t)) > maxTextLen {
			return apperrors.NewValidationError(fmt.Sprintf("%s: text longer than %d characters", field, maxTextLen))
		}
	}
	return nil
}

// parseHours accepts a blank value as zero
func parseHours(n dto.FlexNumber) (float64, error) {
	raw := n.String()
	if raw == "" {
		return 0, nil
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("hours %q is not a number", raw)
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("hours %q is not a finite number", raw)
	}
	if hours < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	if math.Round(hours*100)/100 >= maxHours {
		return 0, fmt.Errorf("hours must be below %.0f", maxHours)
	}
	return hours, nil
}

func toImages(paths []string) []models.Image {
	var images []models.Image
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			images = append(images, models.Image{FilePath: p})
		}
	}
	return images
}

// Audit records the reviewer's decision; auditing again overwrites the previous decision
func (s *AchievementService) Audit(ctx context.Context, actor *models.User, id int64, req *dto.AuditRequest) (*dto.AuditResult, error) {
	if actor == nil || !actor.Role.IsStaff() {
		return nil, apperrors.NewUnauthorizedError("only reviewers may audit achievements")
	}
	if req.AuditStatus == nil {
		return nil, apperrors.NewValidationError("audit_status is required")
	}
	note := strings.TrimSpace(req.AuditNote)
	if utf8.RuneCountInString(note) > 200 {
		return nil, apperrors.NewValidationError("audit_note longer than 200 characters")
	}

	a, err := s.achievementRepo.Audit(ctx, id, *req.AuditStatus, helpers.NullIfEmpty(note), actor.StudentID, s.now())
	if err != nil {
		return nil, err
	}

	metrics.ObserveAudit(a.AuditStatus)
	s.logger.Info().
		Int64("achievementID", id).
		Bool("auditStatus", a.AuditStatus).
		Str("auditor", actor.StudentID).
		Msg("Achievement audited")

	return &dto.AuditResult{
		ID:          a.ID,
		StudentID:   a.StudentID,
		AuditStatus: a.AuditStatus,
		AuditNote:   a.AuditNote,
		AuditTime:   helpers.FormatTimePtr(a.AuditTime),
		AuditedBy:   a.AuditedBy,
	}, nil
}

// Delete removes an achievement with its records, then the image files no other
// achievement references. File removal failures are logged only.
func (s *AchievementService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return apperrors.NewUnauthorizedError("only a super admin may delete achievements")
	}

	orphaned, err := s.achievementRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, path := range orphaned {
		if err := s.storage.DeleteFile(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove image file")
		}
	}

	s.logger.Info().Int64("achievementID", id).Str("actor", actor.StudentID).Int("files", len(orphaned)).Msg("Achievement deleted")
	return nil
}

func achievementFilter(q dto.AchievementQuery) models.AchievementFilter {
	f := models.AchievementFilter{AuditStatus: q.AuditStatus}
	if id := strings.TrimSpace(q.StudentID); id != "" {
		f.StudentID = &id
	}
	return f
}

// List returns one page of achievements, newest first
func (s *AchievementService) List(ctx context.Context, q dto.AchievementQuery, page, size int) (*dto.ListData, error) {
	page, size = helpers.NormalizePage(page, size)
	rows, total, err := s.achievementRepo.List(ctx, repositories.ListAchievementsParams{
		Filter: achievementFilter(q),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.AchievementListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toListItem(&r.Achievement, r.StudentName))
	}

	return &dto.ListData{List: items, PaginationInfo: helpers.NewPaginationInfo(total, page, size)}, nil
}

func toListItem(a *models.Achievement, studentName string) dto.AchievementListItem {
	return dto.AchievementListItem{
		ID:          a.ID,
		StudentID:   a.StudentID,
		StudentName: studentName,
		OpenID:      a.OpenID,
		CreateTime:  helpers.FormatTime(a.CreatedAt),
		AuditStatus: a.AuditStatus,
		AuditNote:   a.AuditNote,
		AuditTime:   helpers.FormatTimePtr(a.AuditTime),
		AuditedBy:   a.AuditedBy,
	}
}

// Detail returns an achievement with all category records and public image URLs
func (s *AchievementService) Detail(ctx context.Context, id int64) (*dto.AchievementDetail, error) {
	d, err := s.achievementRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &dto.AchievementDetail{
		AchievementListItem: toListItem(&d.Achievement, d.StudentName),
		Papers:              make([]dto.PaperView, 0, len(d.Papers)),
		Policies:            make([]dto.PolicyView, 0, len(d.Policies)),
		Academics:           make([]dto.AcademicView, 0, len(d.Academics)),
		Volunteers:          make([]dto.VolunteerView, 0, len(d.Volunteers)),
		Awards:              make([]dto.AwardView, 0, len(d.Awards)),
	}
	for _, p := range d.Papers {
		out.Papers = append(out.Papers, dto.PaperView{
			ID: p.ID, Title: p.Title, Journal: p.Journal, Date: p.PublishDate, Images: s.imageURLs(p.Images),
		})
	}
	for _, p := range d.Policies {
		out.Policies = append(out.Policies, dto.PolicyView{
			ID: p.ID, Title: p.Title, AdoptUnit: p.AdoptUnit, Date: p.SubmitDate, Images: s.imageURLs(p.Images),
		})
	}
	for _, a := range d.Academics {
		out.Academics = append(out.Academics, dto.AcademicView{
			ID: a.ID, Name: a.Name, ParticipateType: a.ParticipateType, Date: a.ExchangeDate, Images: s.imageURLs(a.Images),
		})
	}
	for _, v := range d.Volunteers {
		out.Volunteers = append(out.Volunteers, dto.VolunteerView{
			ID: v.ID, ProjectName: v.ProjectName, Hours: v.Hours, Date: v.ServiceDate, Images: s.imageURLs(v.Images),
		})
	}
	for _, a := range d.Awards {
		out.Awards = append(out.Awards, dto.AwardView{
			ID: a.ID, Name: a.Name, Level: a.Level, Date: a.AwardDate, Images: s.imageURLs(a.Images),
		})
	}
	return out, nil
}

func (s *AchievementService) imageURLs(images []models.Image) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, s.storage.URL(img.FilePath))
	}
	return urls
}

var achievementExportHeader = []string{"ID", "学号", "姓名", "提交时间", "审核状态", "审核意见", "审核时间", "审核人"}

// Export renders every achievement matching q into a workbook
func (s *AchievementService) Export(ctx context.Context, q dto.AchievementQuery) (*export.Workbook, error) {
	rows, _, err := s.achievementRepo.List(ctx, repositories.ListAchievementsParams{Filter: achievementFilter(q)})
	if err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.StudentID,
			r.StudentName,
			helpers.FormatTime(r.CreatedAt),
			auditLabel(r.AuditStatus),
			helpers.Deref(r.AuditNote),
			helpers.Deref(helpers.FormatTimePtr(r.AuditTime)),
			helpers.Deref(r.AuditedBy),
		})
	}

	return export.NewWorkbook([]export.SheetSpec{{Title: "Achievements", Header: achievementExportHeader, Rows: data}})
}

func auditLabel(audited bool) string {
	if audited {
		return "已审核"
	}
	return "未审核"
}
