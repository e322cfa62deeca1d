package fsx

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations. Parent directories are created as needed.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
}

type FileDeleter interface {
	// DeleteFile is a no-op when the file does not exist
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	Join(elem ...string) string
}

// PresignedURLGenerator is implemented by stores that can hand out direct download links
type PresignedURLGenerator interface {
	GetPresignedDownloadURL(ctx context.Context, path string, expiration time.Duration) (string, error)
}

// FileSystemWithPresign combines standard file operations with presigned URL generation
type FileSystemWithPresign interface {
	FileSystem
	PresignedURLGenerator
}

var fsxErrors = errx.NewRegistry("FSX")

var (
	ErrNotFound    = fsxErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "File not found")
	ErrReadFailed  = fsxErrors.Register("READ_FAILED", errx.TypeInternal, 500, "Failed to read file")
	ErrWriteFailed = fsxErrors.Register("WRITE_FAILED", errx.TypeInternal, 500, "Failed to write file")
	ErrDelete      = fsxErrors.Register("DELETE_FAILED", errx.TypeInternal, 500, "Failed to delete file")
	ErrPresign     = fsxErrors.Register("PRESIGN_FAILED", errx.TypeExternal, 502, "Failed to presign file URL")
)

// NotFound builds the shared not-found error for path
func NotFound(p string) *errx.Error {
	return fsxErrors.New(ErrNotFound).WithDetail("path", p)
}

// Failed wraps cause with one of the registered codes
func Failed(code *errx.ErrorCode, p string, cause error) *errx.Error {
	return fsxErrors.NewWithCause(code, cause).WithDetail("path", p)
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
	".json": "application/json",
}

// DetectContentType maps a file name to a MIME type by extension, sniffing
// head when the extension is unknown.
func DetectContentType(name string, head []byte) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	return "application/octet-stream"
}

// CleanName reduces an uploaded file name to its base name so it can be
// embedded in a storage path.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
