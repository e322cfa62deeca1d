package documentapi

import (
	"io"
	"strconv"

	"github.com/Abraxas-365/nccerp/pkg/document"
	"github.com/Abraxas-365/nccerp/pkg/document/documentsrv"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandlers struct {
	service *documentsrv.DocumentService
}

func NewDocumentHandlers(service *documentsrv.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{service: service}
}

func (h *DocumentHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/documents", mw.Authenticate())

	g.Post("/:submissionId", mw.RequireScope(scopes.DocumentsWrite), h.Upload)
	g.Get("/:submissionId/:index", mw.RequireScope(scopes.DocumentsRead), h.Download)
}

// Upload accepts one or more files in the multipart field "documents"
func (h *DocumentHandlers) Upload(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return errx.Validation("expected a multipart form").WithCause(err)
	}

	files := form.File["documents"]
	uploads := make([]document.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > document.MaxSize {
			return document.ErrTooLarge().WithDetail("name", fh.Filename).WithDetail("size", fh.Size)
		}
		f, err := fh.Open()
		if err != nil {
			return errx.Wrap(err, "failed to open upload", errx.TypeInternal)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return errx.Wrap(err, "failed to read upload", errx.TypeInternal)
		}

		contentType := fh.Header.Get(fiber.HeaderContentType)
		if contentType == "" || contentType == fiber.MIMEOctetStream {
			contentType = fsx.DetectContentType(fh.Filename, data)
		}
		uploads = append(uploads, document.Upload{Name: fh.Filename, ContentType: contentType, Data: data})
	}

	sub, err := h.service.Upload(c.UserContext(), ac.UserID, kernel.SubmissionID(c.Params("submissionId")), uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"submission_id": sub.ID, "documents": sub.Documents})
}

func (h *DocumentHandlers) Download(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return errx.Validation("document index must be a number").WithCause(err)
	}

	d, err := h.service.Open(c.UserContext(), ac, kernel.SubmissionID(c.Params("submissionId")), index)
	if err != nil {
		return err
	}
	if d.URL != "" {
		return c.JSON(fiber.Map{"url": d.URL, "name": d.Name})
	}
	c.Set(fiber.HeaderContentType, d.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+d.Name+`"`)
	return c.SendStream(d.Body)
}
