package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/auth"
)

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: 2 * time.Hour, TokenIssuer: "test"})
}

func newAuthService(t *testing.T, users ...*models.User) (*AuthService, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore(users...)
	return NewAuthService(store, newTestJWT(), zerolog.Nop()), store
}

func userWithPassword(t *testing.T, studentID, name, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{StudentID: studentID, Name: name, PasswordHash: hash, Role: role, IsActive: true}
}

func TestAuthService_Register(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: " Li Hua ", StudentID: " 2023001 ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "2023001", user.StudentID)
	assert.Equal(t, "Li Hua", user.Name)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "Someone", StudentID: "2023001", Password: "other"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, store.count())
}

func TestAuthService_RegisterRequiresFields(t *testing.T) {
	svc, store := newAuthService(t)

	for _, req := range []dto.RegisterRequest{
		{Name: "", StudentID: "1", Password: "p"},
		{Name: "n", StudentID: "   ", Password: "p"},
		{Name: "n", StudentID: "1", Password: ""},
	} {
		_, err := svc.Register(context.Background(), &req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
	assert.Zero(t, store.count())
}

func TestAuthService_Authenticate(t *testing.T) {
	disabled := userWithPassword(t, "2023002", "Disabled", "secret1", models.RoleStudent)
	disabled.IsActive = false
	svc, _ := newAuthService(t,
		userWithPassword(t, "2023001", "Li Hua", "secret1", models.RoleStudent),
		disabled,
	)
	ctx := context.Background()

	resp, err := svc.Authenticate(ctx, &dto.LoginRequest{StudentID: "2023001", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Li Hua", resp.Name)
	assert.Equal(t, "student", resp.Role)
	assert.Equal(t, 7200, resp.ExpiresIn)

	claims, err := newTestJWT().ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "2023001", claims.StudentID())
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{StudentID: "2023001", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{StudentID: "missing", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{StudentID: "2023002", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthService_ResolveUser(t *testing.T) {
	svc, store := newAuthService(t, &models.User{StudentID: "s1", Name: "A", Role: models.RoleStudent, IsActive: true})
	ctx := context.Background()

	claims := &auth.Claims{Role: models.RoleStudent}
	claims.Subject = "s1"
	user, err := svc.ResolveUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "s1", user.StudentID)

	_, err = store.UpdateRole(ctx, "s1", models.RoleStudentLeader)
	require.NoError(t, err)
	_, err = svc.ResolveUser(ctx, claims)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, store.SetActive(ctx, "s1", false))
	claims.Role = models.RoleStudentLeader
	_, err = svc.ResolveUser(ctx, claims)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	claims.Subject = "gone"
	_, err = svc.ResolveUser(ctx, claims)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_GrantRole(t *testing.T) {
	admin := &models.User{StudentID: "A1", Role: models.RoleSuperAdmin, IsActive: true}
	teacher := &models.User{StudentID: "T1", Role: models.RoleTeacher, IsActive: true}
	svc, _ := newAuthService(t, admin, teacher, &models.User{StudentID: "s1", Name: "Li", Role: models.RoleStudent, IsActive: true})
	ctx := context.Background()

	change, err := svc.GrantRole(ctx, admin, &dto.GrantRoleRequest{TargetID: "s1", NewRole: "teacher"})
	require.NoError(t, err)
	assert.Equal(t, &dto.RoleChange{StudentID: "s1", Name: "Li", Role: "teacher"}, change)

	_, err = svc.GrantRole(ctx, teacher, &dto.GrantRoleRequest{TargetID: "s1", NewRole: "student_leader"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.GrantRole(ctx, admin, &dto.GrantRoleRequest{TargetID: "s1", NewRole: "super_admin"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.GrantRole(ctx, admin, &dto.GrantRoleRequest{TargetID: "nobody", NewRole: "teacher"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthService_PromoteToLeader(t *testing.T) {
	admin := &models.User{StudentID: "A1", Role: models.RoleSuperAdmin, IsActive: true}
	teacher := &models.User{StudentID: "T1", Role: models.RoleTeacher, IsActive: true}
	svc, _ := newAuthService(t, admin, teacher, &models.User{StudentID: "s1", Name: "Li", Role: models.RoleStudent, IsActive: true})
	ctx := context.Background()

	_, err := svc.PromoteToLeader(ctx, admin, "s1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	change, err := svc.PromoteToLeader(ctx, teacher, "s1")
	require.NoError(t, err)
	assert.Equal(t, "student_leader", change.Role)

	_, err = svc.PromoteToLeader(ctx, teacher, "s1")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "already a leader")

	_, err = svc.PromoteToLeader(ctx, teacher, "T1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.PromoteToLeader(ctx, teacher, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthService_GetProfile(t *testing.T) {
	svc, _ := newAuthService(t, &models.User{StudentID: "s1", Name: "Li", Role: models.RoleStudent, IsActive: true})

	info, err := svc.GetProfile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, &dto.StudentInfo{StudentName: "Li", StudentID: "s1", Role: "student"}, info)

	_, err = svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthService_EnsureSuperAdmin(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureSuperAdmin(ctx, "admin", "Admin", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureSuperAdmin(ctx, "admin", "Admin", "secret1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, store.count())

	u, _ := store.GetByStudentID(ctx, "admin")
	assert.Equal(t, models.RoleSuperAdmin, u.Role)

	_, err = svc.EnsureSuperAdmin(ctx, "other", "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_EnsureSuperAdminUpgradesExisting(t *testing.T) {
	svc, store := newAuthService(t, &models.User{StudentID: "T1", Name: "T", Role: models.RoleTeacher, IsActive: false})
	ctx := context.Background()

	created, err := svc.EnsureSuperAdmin(ctx, "T1", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	u, _ := store.GetByStudentID(ctx, "T1")
	assert.Equal(t, models.RoleSuperAdmin, u.Role)
	assert.True(t, u.IsActive)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, store := newAuthService(t, &models.User{StudentID: "s1", Name: "Li", PasswordHash: "old", Role: models.RoleStudent, IsActive: true})
	ctx := context.Background()

	require.NoError(t, svc.ResetPassword(ctx, "s1", "fresh-pass"))
	u, _ := store.GetByStudentID(ctx, "s1")
	assert.True(t, auth.CheckPassword(u.PasswordHash, "fresh-pass"))

	assert.ErrorIs(t, svc.ResetPassword(ctx, "s1", ""), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "nobody", "x"), apperrors.ErrNotFound)
}
