package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

func newStorage(t *testing.T, maxBytes int64) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(Options{
		BasePath:          filepath.Join(t.TempDir(), "uploads"),
		BaseURL:           "http://localhost:8000/",
		AllowedExtensions: []string{"jpg", "jpeg", "png", "gif"},
		MaxBytes:          maxBytes,
	})
	require.NoError(t, err)
	return ls
}

// multipartFile builds a FileHeader the way gin's c.FormFile would
func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload/image", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestSaveImage(t *testing.T) {
	ls := newStorage(t, 1024)

	stored, err := ls.SaveImage(multipartFile(t, "Certificate.PNG", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(stored.Path, ".png"))
	assert.Equal(t, "Certificate.PNG", stored.OriginalName)
	assert.Equal(t, int64(9), stored.Size)

	data, err := os.ReadFile(filepath.Join(ls.BasePath(), stored.Path))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	second, err := ls.SaveImage(multipartFile(t, "Certificate.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.NotEqual(t, stored.Path, second.Path)
}

func TestSaveImage_Rejections(t *testing.T) {
	ls := newStorage(t, 4)

	_, err := ls.SaveImage(multipartFile(t, "notes.pdf", []byte("pdf")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ls.SaveImage(multipartFile(t, "noext", []byte("x")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)

	_, err = ls.SaveImage(multipartFile(t, "big.jpg", []byte("too large")))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	entries, err := os.ReadDir(ls.BasePath())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteFile(t *testing.T) {
	ls := newStorage(t, 1024)
	stored, err := ls.SaveImage(multipartFile(t, "a.gif", []byte("gif")))
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(stored.Path))
	_, err = os.Stat(filepath.Join(ls.BasePath(), stored.Path))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.DeleteFile(stored.Path), "deleting twice is not an error")
	assert.NoError(t, ls.DeleteFile("https://cdn.example.com/a.jpg"))
}

func TestURL(t *testing.T) {
	ls := newStorage(t, 1024)

	assert.Equal(t, "http://localhost:8000/uploads/abc.jpg", ls.URL("abc.jpg"))
	assert.Equal(t, "https://cdn.example.com/x.png", ls.URL("https://cdn.example.com/x.png"))
	assert.Equal(t, "", ls.URL(""))
}
