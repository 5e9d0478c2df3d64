package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/auth"
)

// UserStore is the persistence the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	UpdateRole(ctx context.Context, studentID string, role models.Role) (*models.User, error)
	UpdatePassword(ctx context.Context, studentID, passwordHash string) error
	SetActive(ctx context.Context, studentID string, active bool) error
}

// AuthService handles registration, login and role management
type AuthService struct {
	userRepo   UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an active student account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	studentID := strings.TrimSpace(req.StudentID)
	if name == "" || studentID == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("name, student ID and password are required")
	}

	exists, err := s.userRepo.StudentIDExists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error checking if student ID exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrStudentIDExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		StudentID:    studentID,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
	}
	// a concurrent registration still surfaces as ErrStudentIDExists from the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", studentID).Msg("Student registered")
	return user, nil
}

// Authenticate verifies the credentials and issues an access token
func (s *AuthService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("student ID and password are required")
	}

	user, err := s.userRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("studentID", studentID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Result:    dto.Result{Success: true, Message: "login successful"},
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: expiresIn,
		StudentID: user.StudentID,
		Name:      user.Name,
		Role:      string(user.Role),
	}, nil
}

// ResolveUser loads the account behind verified token claims. The account must
// still exist, be active and hold the role the token was issued for.
func (s *AuthService) ResolveUser(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.userRepo.GetByStudentID(ctx, claims.StudentID())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("account no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if user.Role != claims.Role {
		return nil, apperrors.NewUnauthorizedError("role changed, please log in again")
	}
	return user, nil
}

// GetProfile returns the name, identifier and role of a user
func (s *AuthService) GetProfile(ctx context.Context, studentID string) (*dto.StudentInfo, error) {
	user, err := s.userRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.StudentInfo{
		StudentName: user.Name,
		StudentID:   user.StudentID,
		Role:        string(user.Role),
	}, nil
}

// GrantRole lets a super admin make an existing user a teacher or student leader
func (s *AuthService) GrantRole(ctx context.Context, actor *models.User, req *dto.GrantRoleRequest) (*dto.RoleChange, error) {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return nil, apperrors.NewUnauthorizedError("only a super admin may grant roles")
	}

	role := models.Role(strings.TrimSpace(req.NewRole))
	if !role.In(models.GrantableRoles) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("new_role must be %s or %s", models.RoleTeacher, models.RoleStudentLeader))
	}

	user, err := s.userRepo.UpdateRole(ctx, strings.TrimSpace(req.TargetID), role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor", actor.StudentID).
		Str("target", user.StudentID).
		Str("role", string(role)).
		Msg("Role granted")
	return roleChange(user), nil
}

// PromoteToLeader lets a teacher turn a student into a student leader
func (s *AuthService) PromoteToLeader(ctx context.Context, actor *models.User, targetID string) (*dto.RoleChange, error) {
	if actor == nil || actor.Role != models.RoleTeacher {
		return nil, apperrors.NewUnauthorizedError("only a teacher may promote students")
	}

	target, err := s.userRepo.GetByStudentID(ctx, strings.TrimSpace(targetID))
	if err != nil {
		return nil, err
	}
	if target.Role != models.RoleStudent {
		return nil, apperrors.NewValidationError("only a student can be promoted to student leader")
	}

	user, err := s.userRepo.UpdateRole(ctx, target.StudentID, models.RoleStudentLeader)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("actor", actor.StudentID).Str("target", user.StudentID).Msg("Student promoted to leader")
	return roleChange(user), nil
}

// EnsureSuperAdmin creates the account as super admin, or upgrades and reactivates it
// when it exists. It reports whether a new account was created.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, studentID, name, password string) (bool, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return false, apperrors.NewValidationError("admin student ID is required")
	}

	existing, err := s.userRepo.GetByStudentID(ctx, studentID)
	switch {
	case err == nil:
		if existing.Role != models.RoleSuperAdmin {
			if _, err := s.userRepo.UpdateRole(ctx, studentID, models.RoleSuperAdmin); err != nil {
				return false, err
			}
		}
		if !existing.IsActive {
			if err := s.userRepo.SetActive(ctx, studentID, true); err != nil {
				return false, err
			}
		}
		return false, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return false, err
	}

	if strings.TrimSpace(name) == "" || password == "" {
		return false, apperrors.NewValidationError("admin name and password are required to create the account")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	err = s.userRepo.Create(ctx, &models.User{
		StudentID:    studentID,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	})
	if err != nil {
		return false, err
	}

	s.logger.Info().Str("studentID", studentID).Msg("Super admin created")
	return true, nil
}

// ResetPassword replaces the password of an existing account
func (s *AuthService) ResetPassword(ctx context.Context, studentID, password string) error {
	if password == "" {
		return apperrors.NewValidationError("password is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, strings.TrimSpace(studentID), hash)
}

// SetActive enables or disables login for an account
func (s *AuthService) SetActive(ctx context.Context, studentID string, active bool) error {
	return s.userRepo.SetActive(ctx, strings.TrimSpace(studentID), active)
}

func roleChange(u *models.User) *dto.RoleChange {
	return &dto.RoleChange{StudentID: u.StudentID, Name: u.Name, Role: string(u.Role)}
}
