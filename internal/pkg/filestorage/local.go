package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

// URLPrefix is the route under which stored files are served
const URLPrefix = "/uploads"

// Options configures a LocalStorage
type Options struct {
	// BasePath is the directory files are written to
	BasePath string
	// BaseURL is the public origin used to build file URLs, e.g. http://localhost:8000
	BaseURL string
	// AllowedExtensions are lower-case extensions without the dot
	AllowedExtensions []string
	MaxBytes          int64
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
	allowed  map[string]struct{}
	maxBytes int64
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance, creating BasePath if needed.
func NewLocalStorage(opts Options) (*LocalStorage, error) {
	if err := os.MkdirAll(opts.BasePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", opts.BasePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", opts.BasePath, err)
	}
	logger.Info().Str("path", opts.BasePath).Msg("Local storage directory ensured")

	allowed := make(map[string]struct{}, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &LocalStorage{
		basePath: opts.BasePath,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		allowed:  allowed,
		maxBytes: opts.MaxBytes,
	}, nil
}

// BasePath returns the directory served under URLPrefix
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveImage stores an uploaded image under a uuid name that keeps the original extension
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, apperrors.NewValidationError("no file uploaded")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if _, ok := ls.allowed[ext]; !ok {
		return nil, apperrors.ErrUnsupportedFileType
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	uniqueFilename := uuid.New().String() + "." + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, apperrors.NewStorageError("failed to store file", err)
	}

	var src io.Reader = file
	if ls.maxBytes > 0 {
		// one extra byte tells a truncated copy apart from an exact fit
		src = io.LimitReader(file, ls.maxBytes+1)
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return nil, apperrors.NewStorageError("failed to store file", err)
	}
	if ls.maxBytes > 0 && written > ls.maxBytes {
		_ = os.Remove(dstPath)
		return nil, apperrors.ErrFileTooLarge
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Int64("bytes", written).Msg("File saved successfully")
	return &StoredFile{
		Path:         uniqueFilename,
		OriginalName: filepath.Base(fileHeader.Filename),
		Size:         written,
	}, nil
}

// DeleteFile removes a file from the storage directory.
// Only the base name of filePath is used, so paths cannot escape the directory.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" || isAbsoluteURL(filePath) {
		return nil
	}

	filename := filepath.Base(filePath)
	if filename == "." || filename == "/" || filename == ".." {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physicalPath := filepath.Join(ls.basePath, filename)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// URL returns the public URL of a stored file
func (ls *LocalStorage) URL(filePath string) string {
	if filePath == "" || isAbsoluteURL(filePath) {
		return filePath
	}
	return ls.baseURL + URLPrefix + "/" + strings.TrimLeft(filePath, "/")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
