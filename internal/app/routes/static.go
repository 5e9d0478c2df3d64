package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
	"github.com/ccnu/student-achievements/internal/pkg/metrics"
)

// SetupStaticFiles serves stored uploads under /uploads. A missing file is a 404.
func SetupStaticFiles(router *gin.Engine, storagePath string, lgr zerolog.Logger) error {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return err
	}
	router.StaticFS(filestorage.URLPrefix, gin.Dir(storagePath, false))
	lgr.Info().Str("path", storagePath).Msg("Static file serving configured for uploads directory")
	return nil
}

// SetupMetrics exposes the Prometheus registry
func SetupMetrics(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// NoRoute answers unknown paths with a JSON 404
func NoRoute(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "not found"})
	})
}
