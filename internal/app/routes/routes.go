package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ccnu/student-achievements/internal/app/controllers"
	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	fileController *controllers.FileController,
	achievementController *controllers.AchievementController,
	studentController *controllers.StudentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/test", healthController.Test)
	router.GET("/ping", healthController.Ping)

	// --- Public student routes ---
	student := router.Group("/student")
	{
		student.POST("/register", authController.Register)
		student.POST("/login", authController.Login)
	}

	// --- Any authenticated role ---
	anyRole := authMiddleware.RequireRoles(models.AllRoles...)
	router.GET("/api/student/info", anyRole, authController.Info)
	router.POST("/upload/image", anyRole, fileController.UploadImage)
	router.POST("/submit/achievements", anyRole, achievementController.Submit)

	// --- Reviewer routes ---
	admin := router.Group("/admin")
	reviewers := admin.Group("")
	reviewers.Use(authMiddleware.RequireRoles(models.ReviewerRoles...))
	{
		reviewers.GET("/achievements", achievementController.List)
		reviewers.GET("/achievements/:id", achievementController.Detail)
		reviewers.POST("/achievements/:id/audit", achievementController.Audit)

		reviewers.GET("/students", studentController.List)
		reviewers.GET("/students/:student_id", studentController.Detail)

		reviewers.GET("/export/achievements.xlsx", achievementController.Export)
		reviewers.GET("/export/students.xlsx", studentController.Export)
	}

	// --- Super admin only ---
	superAdmin := admin.Group("")
	superAdmin.Use(authMiddleware.RequireRoles(models.RoleSuperAdmin))
	{
		superAdmin.POST("/grant-role", authController.GrantRole)
		superAdmin.DELETE("/achievements/:id", achievementController.Delete)
	}

	// --- Teacher only ---
	teacher := router.Group("/teacher")
	teacher.Use(authMiddleware.RequireRoles(models.RoleTeacher))
	{
		teacher.POST("/promote-student-leader", authController.PromoteStudentLeader)
	}
}
