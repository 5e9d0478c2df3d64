package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a file written to storage
type StoredFile struct {
	// Path is the storage-relative name, the value persisted on image attachments
	Path string
	// OriginalName is the client supplied file name
	OriginalName string
	Size         int64
}

// FileStorage defines the interface for image storage operations
type FileStorage interface {
	// SaveImage validates and stores an uploaded image under a fresh unique name
	SaveImage(fileHeader *multipart.FileHeader) (*StoredFile, error)

	// DeleteFile removes a stored file; a missing file is not an error
	DeleteFile(filePath string) error

	// URL resolves a stored path into a public URL. Absolute URLs are returned unchanged.
	URL(filePath string) string
}
