// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/middleware"
)

// AuthController handles registration, login and role management
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles student self-registration
// @Summary Register a student account
// @Description Creates an active account with the student role. Business failures are reported with success=false.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Router /student/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		middleware.RespondBindError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegisterResponse{
		Result:    dto.Result{Success: true, Message: "registration successful"},
		StudentID: user.StudentID,
	})
}

// Login handles user login
// @Summary Log in
// @Description Verifies the credentials and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Router /student/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	resp, err := c.authService.Authenticate(ctx.Request.Context(), &req)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Info returns the profile of the caller
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentInfo}
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/student/info [get]
func (c *AuthController) Info(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	info, err := c.authService.GetProfile(ctx.Request.Context(), user.StudentID)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(info))
}

// GrantRole lets a super admin grant the teacher or student leader role
// @Summary Grant a role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GrantRoleRequest true "Target and role"
// @Success 200 {object} dto.RoleChangeResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/grant-role [post]
func (c *AuthController) GrantRole(ctx *gin.Context) {
	var req dto.GrantRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	change, err := c.authService.GrantRole(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RoleChangeResponse{
		Result: dto.Result{Success: true, Message: "role granted"},
		User:   change,
	})
}

// PromoteStudentLeader lets a teacher promote a student to student leader
// @Summary Promote a student to student leader
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PromoteRequest true "Target student"
// @Success 200 {object} dto.RoleChangeResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse
// @Router /teacher/promote-student-leader [post]
func (c *AuthController) PromoteStudentLeader(ctx *gin.Context) {
	var req dto.PromoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	change, err := c.authService.PromoteToLeader(ctx.Request.Context(), actor, req.TargetID)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RoleChangeResponse{
		Result: dto.Result{Success: true, Message: "student promoted to student leader"},
		User:   change,
	})
}
