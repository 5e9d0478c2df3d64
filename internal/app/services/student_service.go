package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/app/repositories"
	"github.com/ccnu/student-achievements/internal/pkg/export"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
)

// StudentStore is the persistence the student service needs
type StudentStore interface {
	ListSummaries(ctx context.Context, params repositories.ListStudentsParams) ([]models.StudentSummary, int64, error)
	GetSummary(ctx context.Context, studentID string) (*models.StudentSummary, error)
}

// StudentService answers per-student questions for reviewers
type StudentService struct {
	studentRepo StudentStore
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo StudentStore, logger zerolog.Logger) *StudentService {
	return &StudentService{studentRepo: studentRepo, logger: logger}
}

func studentFilter(q dto.StudentQuery) models.StudentFilter {
	return models.StudentFilter{
		StudentID:   strings.TrimSpace(q.StudentID),
		Name:        strings.TrimSpace(q.Name),
		AuditStatus: q.AuditStatus,
	}
}

// List returns one page of students that submitted at least once
func (s *StudentService) List(ctx context.Context, q dto.StudentQuery, page, size int) (*dto.ListData, error) {
	page, size = helpers.NormalizePage(page, size)
	summaries, total, err := s.studentRepo.ListSummaries(ctx, repositories.ListStudentsParams{
		Filter: studentFilter(q),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.StudentListItem, 0, len(summaries))
	for _, sm := range summaries {
		items = append(items, dto.StudentListItem{
			StudentID:      sm.StudentID,
			Name:           sm.Name,
			SubmitCount:    sm.SubmitCount,
			LastSubmitTime: helpers.FormatTimePtr(sm.LastSubmitTime),
			AuditStatus:    sm.AllAudited,
		})
	}

	return &dto.ListData{List: items, PaginationInfo: helpers.NewPaginationInfo(total, page, size)}, nil
}

// Summary aggregates the submissions of one registered user
func (s *StudentService) Summary(ctx context.Context, studentID string) (*dto.StudentSummary, error) {
	sm, err := s.studentRepo.GetSummary(ctx, strings.TrimSpace(studentID))
	if err != nil {
		return nil, err
	}
	return &dto.StudentSummary{
		StudentID:         sm.StudentID,
		Name:              sm.Name,
		TotalAchievements: sm.SubmitCount,
		LastSubmitTime:    helpers.FormatTimePtr(sm.LastSubmitTime),
		AuditStatus:       sm.AllAudited,
	}, nil
}

var studentExportHeader = []string{"学号", "姓名", "提交次数", "最近提交时间", "全部已审核"}

// Export renders every student matching q into a workbook
func (s *StudentService) Export(ctx context.Context, q dto.StudentQuery) (*export.Workbook, error) {
	summaries, _, err := s.studentRepo.ListSummaries(ctx, repositories.ListStudentsParams{Filter: studentFilter(q)})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(summaries))
	for _, sm := range summaries {
		rows = append(rows, []string{
			sm.StudentID,
			sm.Name,
			strconv.FormatInt(sm.SubmitCount, 10),
			helpers.Deref(helpers.FormatTimePtr(sm.LastSubmitTime)),
			yesNo(sm.AllAudited),
		})
	}

	return export.NewWorkbook([]export.SheetSpec{{Title: "Students", Header: studentExportHeader, Rows: rows}})
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
