package services

import (
	"github.com/ccnu/student-achievements/internal/app/repositories"
	"github.com/ccnu/student-achievements/internal/pkg/auth"
	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

// Services holds every business service of the application
type Services struct {
	AuthService        *AuthService
	AchievementService *AchievementService
	StudentService     *StudentService
	FileService        *FileService
}

// NewServices wires the services on top of the repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage filestorage.FileStorage) *Services {
	return &Services{
		AuthService:        NewAuthService(repos.UserRepository, jwtService, logger.Component("auth")),
		AchievementService: NewAchievementService(repos.AchievementRepository, repos.UserRepository, storage, logger.Component("achievements")),
		StudentService:     NewStudentService(repos.StudentRepository, logger.Component("students")),
		FileService:        NewFileService(storage, logger.Component("files")),
	}
}
