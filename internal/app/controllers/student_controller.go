package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/middleware"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/helpers"
)

// StudentController exposes per-student aggregates to reviewers
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{studentService: studentService, logger: logger}
}

// List returns students with at least one submission, most recent first
// @Summary List students with submissions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Param student_id query string false "Student ID substring"
// @Param name query string false "Name substring"
// @Param audit_status query bool false "All submissions audited"
// @Success 200 {object} dto.APIResponse{data=dto.ListData{list=[]dto.StudentListItem}}
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var q dto.StudentQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.RespondAdmin(ctx, apperrors.NewValidationError("invalid query parameters"))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	data, err := c.studentService.List(ctx.Request.Context(), q, page, size)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(data))
}

// Detail returns the submission summary of one student
// @Summary Student summary
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentSummary}
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/students/{student_id} [get]
func (c *StudentController) Detail(ctx *gin.Context) {
	summary, err := c.studentService.Summary(ctx.Request.Context(), ctx.Param("student_id"))
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}

// Export downloads the filtered student list as an xlsx workbook
// @Summary Export students
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param student_id query string false "Student ID substring"
// @Param name query string false "Name substring"
// @Param audit_status query bool false "All submissions audited"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/export/students.xlsx [get]
func (c *StudentController) Export(ctx *gin.Context) {
	var q dto.StudentQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.RespondAdmin(ctx, apperrors.NewValidationError("invalid query parameters"))
		return
	}

	wb, err := c.studentService.Export(ctx.Request.Context(), q)
	if err != nil {
		middleware.RespondAdmin(ctx, err)
		return
	}
	writeWorkbook(ctx, c.logger, wb, "students")
}
