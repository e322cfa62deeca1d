// Package document stores the supporting files an ANO uploads for a submission.
package document

import (
	"io"
	"net/http"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

const (
	MaxSize = 10 * 1024 * 1024
	Dir     = "cadet-documents"
)

var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func Allowed(contentType string) bool {
	return allowedTypes[contentType]
}

// Upload is one file received from the client
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (u *Upload) Check() error {
	if !Allowed(u.ContentType) {
		return ErrFileType().WithDetail("name", u.Name).WithDetail("content_type", u.ContentType)
	}
	if len(u.Data) > MaxSize {
		return ErrTooLarge().WithDetail("name", u.Name).WithDetail("size", len(u.Data))
	}
	return nil
}

// Download is either a presigned URL or an open stream the caller must close
type Download struct {
	URL         string
	Name        string
	ContentType string
	Body        io.ReadCloser
}

var ErrRegistry = errx.NewRegistry("DOCUMENT")

var (
	CodeFileType = ErrRegistry.Register("FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Documents must be PDF, JPEG, PNG, DOC or DOCX files")
	CodeTooLarge = ErrRegistry.Register("TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "Each document must be 10MB or smaller")
	CodeNoFiles  = ErrRegistry.Register("NO_FILES", errx.TypeValidation, http.StatusBadRequest, "Choose at least one document")
	CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Document not found")
)

func ErrFileType() *errx.Error {
	return ErrRegistry.New(CodeFileType)
}

func ErrTooLarge() *errx.Error {
	return ErrRegistry.New(CodeTooLarge)
}

func ErrNoFiles() *errx.Error {
	return ErrRegistry.New(CodeNoFiles)
}

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}
