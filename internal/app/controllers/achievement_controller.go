package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/middleware"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
)

// AchievementController handles submission and review of achievements
type AchievementController struct {
	achievementService *services.AchievementService
	logger             zerolog.Logger
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService *services.AchievementService, logger zerolog.Logger) *AchievementController {
	return &AchievementController{achievementService: achievementService, logger: logger}
}

func parseAchievementID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid achievement id")
	}
	return id, nil
}

// Submit stores a submission with all of its category entries
// @Summary Submit achievements
// @Description Stores the paper, policy, academic, volunteer and award lists in one transaction.
// @Description typeIndex selects 参会/报告发言/墙报展示/其他; levelIndex selects 校级/市级/省级/国家级/国际级.
// @Tags achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRequest true "Submission"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse
// @Router /submit/achievements [post]
func (c *AchievementController) Submit(ctx *gin.Context) {
	var req dto.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid submission payload")
		middleware.RespondBindError(ctx, err)
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	id, err := c.achievementService.Submit(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SubmitResponse{
		Result:        dto.Result{Success: true, Message: "submission stored"},
		AchievementID: id,
		StudentID:     req.StudentID,
	})
}

// List returns one page of achievements, newest first
// @Summary List achievements
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Param audit_status query bool false "Audit status"
// @Param student_id query string false "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListData{list=[]dto.AchievementListItem}}
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/achievements [get]
func (c *AchievementController) List(ctx *gin.Context) {
	var q dto.AchievementQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.RespondAdmin(ctx, apperrors.NewValidationError("invalid query parameters"))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	data, err := c.achievementService.List(ctx.Request.Context(), q, page, size)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(data))
}

// Detail returns an achievement with all of its records and image URLs
// @Summary Achievement detail
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Success 200 {object} dto.APIResponse{data=dto.AchievementDetail}
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/achievements/{id} [get]
func (c *AchievementController) Detail(ctx *gin.Context) {
	id, err := parseAchievementID(ctx)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}

	detail, err := c.achievementService.Detail(ctx.Request.Context(), id)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(detail))
}

// Audit records the audit decision on an achievement
// @Summary Audit an achievement
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Param request body dto.AuditRequest true "Audit decision"
// @Success 200 {object} dto.APIResponse{data=dto.AuditResult}
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/achievements/{id}/audit [post]
func (c *AchievementController) Audit(ctx *gin.Context) {
	id, err := parseAchievementID(ctx)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}

	var req dto.AuditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindError(ctx, err)
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	result, err := c.achievementService.Audit(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Code: http.StatusOK, Message: "audit recorded", Data: result})
}

// Delete removes an achievement with its records and images
// @Summary Delete an achievement
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Achievement ID"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/achievements/{id} [delete]
func (c *AchievementController) Delete(ctx *gin.Context) {
	id, err := parseAchievementID(ctx)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	if err := c.achievementService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Code: http.StatusOK, Message: "achievement deleted"})
}

// Export downloads the filtered achievements as an xlsx workbook
// @Summary Export achievements
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param audit_status query bool false "Audit status"
// @Param student_id query string false "Student ID"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/export/achievements.xlsx [get]
func (c *AchievementController) Export(ctx *gin.Context) {
	var q dto.AchievementQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.RespondAdmin(ctx, apperrors.NewValidationError("invalid query parameters"))
		return
	}

	wb, err := c.achievementService.Export(ctx.Request.Context(), q)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	writeWorkbook(ctx, c.logger, wb, "achievements")
}
