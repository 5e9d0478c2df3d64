package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

var (
	studentActor = &models.User{StudentID: "2023001", Name: "Li Hua", Role: models.RoleStudent, IsActive: true}
	teacherActor = &models.User{StudentID: "T1", Name: "Teacher", Role: models.RoleTeacher, IsActive: true}
	adminActor   = &models.User{StudentID: "A1", Name: "Admin", Role: models.RoleSuperAdmin, IsActive: true}
)

type achievementFixture struct {
	svc          *AchievementService
	achievements *fakeAchievementStore
	storage      *fakeStorage
}

func newAchievementFixture() *achievementFixture {
	users := newFakeUserStore(
		&models.User{StudentID: "2023001", Name: "Li Hua", Role: models.RoleStudent, IsActive: true},
		&models.User{StudentID: "2023002", Name: "Wang Fang", Role: models.RoleStudent, IsActive: true},
	)
	achievements := newFakeAchievementStore()
	storage := &fakeStorage{}
	svc := NewAchievementService(achievements, users, storage, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 2, 9, 30, 0, 0, time.Local) }
	return &achievementFixture{svc: svc, achievements: achievements, storage: storage}
}

func intPtr(i int) *int { return &i }

func TestBuildSubmission_SkipsBlankEntries(t *testing.T) {
	sub, err := BuildSubmission("2023001", &dto.SubmitRequest{
		PaperList: []dto.PaperItem{
			{Title: "On Graphs", Journal: "JGT", Date: "2024-05", Images: []string{"a.jpg", " ", ""}},
			{Title: "   ", Journal: "ignored"},
		},
		VolunteerList: []dto.VolunteerItem{{ProjectName: ""}},
	})
	require.NoError(t, err)
	require.Len(t, sub.Papers, 1)
	assert.Equal(t, "On Graphs", sub.Papers[0].Title)
	assert.Equal(t, []string{"a.jpg"}, models.ImagePaths(sub.Papers[0].Images))
	assert.Empty(t, sub.Volunteers)
	assert.Nil(t, sub.OpenID)
}

func TestBuildSubmission_ResolvesVocabularies(t *testing.T) {
	sub, err := BuildSubmission("2023001", &dto.SubmitRequest{
		AcademicList: []dto.AcademicItem{{Name: "Forum"}, {Name: "Poster day", TypeIndex: intPtr(2)}},
		AwardList:    []dto.AwardItem{{Name: "Math Olympiad", LevelIndex: intPtr(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "参会", sub.Academics[0].ParticipateType)
	assert.Equal(t, "墙报展示", sub.Academics[1].ParticipateType)
	assert.Equal(t, "省级", sub.Awards[0].Level)
}

func TestBuildSubmission_Rejects(t *testing.T) {
	longTitle := string(bytes.Repeat([]byte("t"), 256))
	tests := []struct {
		name string
		req  dto.SubmitRequest
	}{
		{"award level out of range", dto.SubmitRequest{AwardList: []dto.AwardItem{{Name: "x", LevelIndex: intPtr(5)}}}},
		{"negative participate type", dto.SubmitRequest{AcademicList: []dto.AcademicItem{{Name: "x", TypeIndex: intPtr(-1)}}}},
		{"hours not a number", dto.SubmitRequest{VolunteerList: []dto.VolunteerItem{{ProjectName: "x", Hours: dto.NewFlexNumber("many")}}}},
		{"negative hours", dto.SubmitRequest{VolunteerList: []dto.VolunteerItem{{ProjectName: "x", Hours: dto.NewFlexNumber("-1")}}}},
		{"date too long", dto.SubmitRequest{PaperList: []dto.PaperItem{{Title: "x", Date: "2024-05-01 and then some"}}}},
		{"title too long", dto.SubmitRequest{PolicyList: []dto.PolicyItem{{Title: longTitle}}}},
		{"openid too long", dto.SubmitRequest{OpenID: strings.Repeat("o", 101)}},
		{"image path too long", dto.SubmitRequest{PaperList: []dto.PaperItem{{Title: "x", Images: []string{strings.Repeat("p", 501)}}}}},
		{"award image path too long", dto.SubmitRequest{AwardList: []dto.AwardItem{{Name: "x", LevelIndex: intPtr(0), Images: []string{strings.Repeat("p", 501)}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSubmission("2023001", &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestBuildSubmission_Hours(t *testing.T) {
	sub, err := BuildSubmission("2023001", &dto.SubmitRequest{
		VolunteerList: []dto.VolunteerItem{
			{ProjectName: "Library", Hours: dto.NewFlexNumber("12.5")},
			{ProjectName: "Blank hours"},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 12.5, sub.Volunteers[0].Hours, 0.0001)
	assert.Zero(t, sub.Volunteers[1].Hours)

	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e12", "100000000", "99999999.999"} {
		t.Run(raw, func(t *testing.T) {
			_, err := BuildSubmission("2023001", &dto.SubmitRequest{
				VolunteerList: []dto.VolunteerItem{{ProjectName: "x", Hours: dto.NewFlexNumber(raw)}},
			})
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	sub, err = BuildSubmission("2023001", &dto.SubmitRequest{
		VolunteerList: []dto.VolunteerItem{{ProjectName: "x", Hours: dto.NewFlexNumber("99999999.99")}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 99999999.99, sub.Volunteers[0].Hours, 0.001)
}

func TestAchievementService_Submit(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()

	id, err := f.svc.Submit(ctx, studentActor, &dto.SubmitRequest{
		StudentID: "2023001",
		OpenID:    "wx-open-id",
		AwardList: []dto.AwardItem{{Name: "Math Olympiad", LevelIndex: intPtr(2), Images: []string{"a.jpg"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	stored := f.achievements.submissions[id]
	require.NotNil(t, stored)
	assert.Equal(t, "wx-open-id", *stored.OpenID)
	assert.Equal(t, "省级", stored.Awards[0].Level)
}

func TestAchievementService_SubmitOwnership(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, studentActor, &dto.SubmitRequest{StudentID: "2023002"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Submit(ctx, teacherActor, &dto.SubmitRequest{StudentID: "2023002"})
	assert.NoError(t, err)

	_, err = f.svc.Submit(ctx, teacherActor, &dto.SubmitRequest{StudentID: "unknown"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAchievementService_SubmitValidationWritesNothing(t *testing.T) {
	f := newAchievementFixture()

	_, err := f.svc.Submit(context.Background(), studentActor, &dto.SubmitRequest{
		StudentID: "2023001",
		PaperList: []dto.PaperItem{{Title: "fine"}},
		AwardList: []dto.AwardItem{{Name: "x", LevelIndex: intPtr(9)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, f.achievements.submissions)
}

func TestAchievementService_SubmitStorageFailure(t *testing.T) {
	f := newAchievementFixture()
	f.achievements.createErr = apperrors.NewStorageError("failed to store submission", assert.AnError)

	_, err := f.svc.Submit(context.Background(), studentActor, &dto.SubmitRequest{StudentID: "2023001"})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestAchievementService_Audit(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()
	id, err := f.svc.Submit(ctx, studentActor, &dto.SubmitRequest{StudentID: "2023001"})
	require.NoError(t, err)

	approved := true
	res, err := f.svc.Audit(ctx, teacherActor, id, &dto.AuditRequest{AuditStatus: &approved, AuditNote: "  verified "})
	require.NoError(t, err)
	assert.True(t, res.AuditStatus)
	assert.Equal(t, "verified", *res.AuditNote)
	assert.Equal(t, "2024-06-02 09:30:00", *res.AuditTime)
	assert.Equal(t, "T1", *res.AuditedBy)

	rejected := false
	res, err = f.svc.Audit(ctx, adminActor, id, &dto.AuditRequest{AuditStatus: &rejected})
	require.NoError(t, err)
	assert.False(t, res.AuditStatus)
	assert.Nil(t, res.AuditNote)
	assert.Equal(t, "A1", *res.AuditedBy)

	_, err = f.svc.Audit(ctx, studentActor, id, &dto.AuditRequest{AuditStatus: &approved})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Audit(ctx, teacherActor, 999, &dto.AuditRequest{AuditStatus: &approved})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Audit(ctx, teacherActor, id, &dto.AuditRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAchievementService_Delete(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()
	id, err := f.svc.Submit(ctx, studentActor, &dto.SubmitRequest{StudentID: "2023001"})
	require.NoError(t, err)
	f.achievements.orphaned = []string{"a.jpg", "b.jpg"}

	assert.ErrorIs(t, f.svc.Delete(ctx, teacherActor, id), apperrors.ErrUnauthorized)

	require.NoError(t, f.svc.Delete(ctx, adminActor, id))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, f.storage.deleted)

	assert.ErrorIs(t, f.svc.Delete(ctx, adminActor, id), apperrors.ErrNotFound)
}

func TestAchievementService_ListAndDetail(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Submit(ctx, teacherActor, &dto.SubmitRequest{StudentID: "2023001"})
		require.NoError(t, err)
	}
	id, err := f.svc.Submit(ctx, teacherActor, &dto.SubmitRequest{
		StudentID: "2023002",
		AwardList: []dto.AwardItem{{Name: "Math Olympiad", LevelIndex: intPtr(2), Date: "2024-04", Images: []string{"cert.jpg"}}},
	})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, dto.AchievementQuery{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	items := page.List.([]dto.AchievementListItem)
	require.Len(t, items, 2)
	assert.Equal(t, id, items[0].ID)

	page, err = f.svc.List(ctx, dto.AchievementQuery{StudentID: "2023002"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 10, page.Size)

	detail, err := f.svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2023002", detail.StudentID)
	require.Len(t, detail.Awards, 1)
	assert.Equal(t, "省级", detail.Awards[0].Level)
	assert.Equal(t, []string{"http://files.test/uploads/cert.jpg"}, detail.Awards[0].Images)
	assert.NotNil(t, detail.Papers)
	assert.Empty(t, detail.Papers)

	_, err = f.svc.Detail(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAchievementService_Export(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()
	_, err := f.svc.Submit(ctx, studentActor, &dto.SubmitRequest{StudentID: "2023001"})
	require.NoError(t, err)

	wb, err := f.svc.Export(ctx, dto.AchievementQuery{})
	require.NoError(t, err)
	defer wb.Close()

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := file.GetRows("Achievements")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, achievementExportHeader, rows[0])
	assert.Equal(t, "2023001", rows[1][1])
	assert.Equal(t, "未审核", rows[1][4])
}
