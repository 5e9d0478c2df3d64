package services

import (
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/repositories"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	next  int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		_ = s.Create(context.Background(), u)
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.StudentID]; ok {
		return apperrors.ErrStudentIDExists
	}
	s.next++
	user.ID = s.next
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.users[user.StudentID] = &cp
	return nil
}

func (s *fakeUserStore) GetByStudentID(_ context.Context, studentID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[studentID]
	return ok, nil
}

func (s *fakeUserStore) UpdateRole(_ context.Context, studentID string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, studentID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *fakeUserStore) SetActive(_ context.Context, studentID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type fakeAchievementStore struct {
	mu           sync.Mutex
	submissions  map[int64]*models.Submission
	achievements map[int64]*models.Achievement
	next         int64
	createErr    error
	orphaned     []string
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{
		submissions:  map[int64]*models.Submission{},
		achievements: map[int64]*models.Achievement{},
	}
}

func (s *fakeAchievementStore) CreateSubmission(_ context.Context, sub *models.Submission) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.next++
	s.submissions[s.next] = sub
	s.achievements[s.next] = &models.Achievement{
		ID: s.next, StudentID: sub.StudentID, OpenID: sub.OpenID, CreatedAt: time.Now(),
	}
	return s.next, nil
}

func (s *fakeAchievementStore) List(_ context.Context, params repositories.ListAchievementsParams) ([]repositories.AchievementRow, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []repositories.AchievementRow
	for _, a := range s.achievements {
		if params.Filter.AuditStatus != nil && a.AuditStatus != *params.Filter.AuditStatus {
			continue
		}
		if params.Filter.StudentID != nil && a.StudentID != *params.Filter.StudentID {
			continue
		}
		rows = append(rows, repositories.AchievementRow{Achievement: *a, StudentName: "name-" + a.StudentID})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	total := int64(len(rows))
	if params.Size > 0 {
		start := (params.Page - 1) * params.Size
		if start > len(rows) {
			start = len(rows)
		}
		end := start + params.Size
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[start:end]
	}
	return rows, total, nil
}

func (s *fakeAchievementStore) GetDetail(_ context.Context, id int64) (*models.AchievementDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.achievements[id]
	if !ok {
		return nil, apperrors.ErrAchievementNotFound
	}
	sub := s.submissions[id]
	return &models.AchievementDetail{
		Achievement: *a,
		StudentName: "name-" + a.StudentID,
		Papers:      sub.Papers,
		Policies:    sub.Policies,
		Academics:   sub.Academics,
		Volunteers:  sub.Volunteers,
		Awards:      sub.Awards,
	}, nil
}

func (s *fakeAchievementStore) Audit(_ context.Context, id int64, status bool, note *string, auditor string, at time.Time) (*models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.achievements[id]
	if !ok {
		return nil, apperrors.ErrAchievementNotFound
	}
	a.AuditStatus = status
	a.AuditNote = note
	a.AuditTime = &at
	a.AuditedBy = &auditor
	cp := *a
	return &cp, nil
}

func (s *fakeAchievementStore) Delete(_ context.Context, id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.achievements[id]; !ok {
		return nil, apperrors.ErrAchievementNotFound
	}
	delete(s.achievements, id)
	delete(s.submissions, id)
	return s.orphaned, nil
}

type fakeStudentStore struct {
	summaries map[string]models.StudentSummary
	order     []string
	lastQuery repositories.ListStudentsParams
}

func (s *fakeStudentStore) ListSummaries(_ context.Context, params repositories.ListStudentsParams) ([]models.StudentSummary, int64, error) {
	s.lastQuery = params
	var out []models.StudentSummary
	for _, id := range s.order {
		sm := s.summaries[id]
		if params.Filter.AuditStatus != nil && sm.AllAudited != *params.Filter.AuditStatus {
			continue
		}
		out = append(out, sm)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStudentStore) GetSummary(_ context.Context, studentID string) (*models.StudentSummary, error) {
	sm, ok := s.summaries[studentID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &sm, nil
}

type fakeStorage struct {
	deleted []string
	saveErr error
}

func (f *fakeStorage) SaveImage(fh *multipart.FileHeader) (*filestorage.StoredFile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &filestorage.StoredFile{Path: "stored.jpg", OriginalName: fh.Filename, Size: fh.Size}, nil
}

func (f *fakeStorage) DeleteFile(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeStorage) URL(path string) string {
	return "http://files.test/uploads/" + path
}
