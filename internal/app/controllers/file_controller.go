package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/middleware"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

// FileController handles image uploads
type FileController struct {
	fileService *services.FileService
	logger      zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(fileService *services.FileService, logger zerolog.Logger) *FileController {
	return &FileController{fileService: fileService, logger: logger}
}

// UploadImage stores one image for later reference in a submission
// @Summary Upload an image
// @Description Accepts jpg, jpeg, png or gif. The returned file_path goes into a submission's images array.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} dto.UploadResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /upload/image [post]
func (c *FileController) UploadImage(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		middleware.RespondResult(ctx, apperrors.NewValidationError("file is required"))
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	resp, err := c.fileService.UploadImage(actor, fh)
	if err != nil {
		middleware.RespondResult(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
