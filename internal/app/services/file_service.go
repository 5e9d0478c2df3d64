package services

import (
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/filestorage"
	"github.com/ccnu/student-achievements/internal/pkg/metrics"
)

// FileService stores uploaded achievement images
type FileService struct {
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewFileService creates a new FileService
func NewFileService(storage filestorage.FileStorage, logger zerolog.Logger) *FileService {
	return &FileService{storage: storage, logger: logger}
}

// UploadImage stores one image. The returned FilePath is what a submission references.
func (s *FileService) UploadImage(actor *models.User, fh *multipart.FileHeader) (*dto.UploadResponse, error) {
	stored, err := s.storage.SaveImage(fh)
	if err != nil {
		return nil, err
	}

	metrics.Uploads.Inc()
	event := s.logger.Info().Str("path", stored.Path).Int64("size", stored.Size)
	if actor != nil {
		event = event.Str("studentID", actor.StudentID)
	}
	event.Msg("Image uploaded")

	return &dto.UploadResponse{
		Result:   dto.Result{Success: true, Message: "upload successful"},
		FilePath: stored.Path,
		FileName: stored.OriginalName,
		URL:      s.storage.URL(stored.Path),
	}, nil
}
