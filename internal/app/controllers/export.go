package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/pkg/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var timeNow = time.Now

// writeWorkbook streams wb as an attachment named after prefix and today's date
func writeWorkbook(ctx *gin.Context, lgr zerolog.Logger, wb *export.Workbook, prefix string) {
	defer wb.Close()

	ctx.Header("Content-Type", xlsxContentType)
	ctx.Header("Content-Disposition", `attachment; filename="`+export.Filename(prefix, timeNow())+`"`)
	ctx.Status(http.StatusOK)
	if _, err := wb.WriteTo(ctx.Writer); err != nil {
		lgr.Error().Err(err).Str("export", prefix).Msg("Failed to stream workbook")
	}
}
