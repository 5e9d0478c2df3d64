package services

import (
	"bytes"
	"context"
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

func newStudentFixture() (*StudentService, *fakeStudentStore) {
	last := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	store := &fakeStudentStore{
		summaries: map[string]models.StudentSummary{
			"2023001": {StudentID: "2023001", Name: "Li Hua", SubmitCount: 2, LastSubmitTime: &last, AllAudited: false},
			"2023002": {StudentID: "2023002", Name: "Wang Fang", SubmitCount: 1, LastSubmitTime: &last, AllAudited: true},
			"2023003": {StudentID: "2023003", Name: "Idle", AllAudited: true},
		},
		order: []string{"2023001", "2023002"},
	}
	return NewStudentService(store, zerolog.Nop()), store
}

func TestStudentService_List(t *testing.T) {
	svc, store := newStudentFixture()
	audited := true

	page, err := svc.List(context.Background(), dto.StudentQuery{Name: "  wang ", AuditStatus: &audited}, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, "wang", store.lastQuery.Filter.Name)
	assert.Equal(t, 100, store.lastQuery.Size)

	items := page.List.([]dto.StudentListItem)
	require.Len(t, items, 1)
	assert.Equal(t, "2023002", items[0].StudentID)
	assert.True(t, items[0].AuditStatus)
	assert.Equal(t, "2024-06-01 10:00:00", *items[0].LastSubmitTime)
}

func TestStudentService_Summary(t *testing.T) {
	svc, _ := newStudentFixture()

	sm, err := svc.Summary(context.Background(), "2023001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), sm.TotalAchievements)
	assert.False(t, sm.AuditStatus)

	idle, err := svc.Summary(context.Background(), "2023003")
	require.NoError(t, err)
	assert.Zero(t, idle.TotalAchievements)
	assert.Nil(t, idle.LastSubmitTime)
	assert.True(t, idle.AuditStatus)

	_, err = svc.Summary(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudentService_Export(t *testing.T) {
	svc, store := newStudentFixture()

	wb, err := svc.Export(context.Background(), dto.StudentQuery{})
	require.NoError(t, err)
	defer wb.Close()
	assert.Zero(t, store.lastQuery.Size, "exports are not paged")

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)
	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	rows, err := file.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2023001", "Li Hua", "2", "2024-06-01 10:00:00", "否"}, rows[1])
}
