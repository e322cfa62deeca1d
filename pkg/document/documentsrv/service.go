package documentsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/document"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

type DocumentService struct {
	subs      document.Submissions
	files     fsx.FileSystem
	urlExpiry time.Duration
	now       func() time.Time
}

func NewDocumentService(subs document.Submissions, files fsx.FileSystem, urlExpiry time.Duration) *DocumentService {
	return &DocumentService{subs: subs, files: files, urlExpiry: urlExpiry, now: time.Now}
}

// Upload stores the files and appends them to the ANO's submission. Files
// already written are removed again when any step fails.
func (s *DocumentService) Upload(ctx context.Context, anoID kernel.UserID, id kernel.SubmissionID, uploads []document.Upload) (*selection.Submission, error) {
	if len(uploads) == 0 {
		return nil, document.ErrNoFiles()
	}
	for i := range uploads {
		if err := uploads[i].Check(); err != nil {
			return nil, err
		}
	}
	if _, err := s.subs.GetOwned(ctx, anoID, id); err != nil {
		return nil, err
	}

	docs := make([]selection.Document, 0, len(uploads))
	cleanup := func() {
		for _, d := range docs {
			if err := s.files.DeleteFile(ctx, d.Path); err != nil {
				logx.WithError(err).WithField("path", d.Path).Warn("failed to remove orphaned document")
			}
		}
	}

	for i, u := range uploads {
		now := s.now()
		name := fsx.CleanName(u.Name)
		// the index keeps same-named files of one request apart
		p := s.files.Join(document.Dir, id.String(), fmt.Sprintf("%d-%d-%s", now.UnixMilli(), i, name))
		if err := s.files.WriteFile(ctx, p, u.Data); err != nil {
			cleanup()
			return nil, err
		}
		docs = append(docs, selection.Document{
			Name:        name,
			Path:        p,
			ContentType: u.ContentType,
			Size:        int64(len(u.Data)),
			UploadedAt:  now,
		})
	}

	sub, err := s.subs.AttachDocuments(ctx, anoID, id, docs)
	if err != nil {
		cleanup()
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"submission_id": id,
		"documents":     len(docs),
	}).Info("documents uploaded")
	return sub, nil
}

// Open returns the index-th document of a submission. ANOs may only open their own.
func (s *DocumentService) Open(ctx context.Context, caller *kernel.AuthContext, id kernel.SubmissionID, index int) (*document.Download, error) {
	var (
		sub *selection.Submission
		err error
	)
	if caller.HasRole(string(iam.RoleANO)) {
		sub, err = s.subs.GetOwned(ctx, caller.UserID, id)
	} else {
		sub, err = s.subs.GetSubmission(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sub.Documents) {
		return nil, document.ErrNotFound().WithDetail("submission_id", id).WithDetail("index", index)
	}
	doc := sub.Documents[index]

	d := &document.Download{Name: doc.Name, ContentType: doc.ContentType}
	if p, ok := s.files.(fsx.PresignedURLGenerator); ok {
		url, err := p.GetPresignedDownloadURL(ctx, doc.Path, s.urlExpiry)
		if err != nil {
			return nil, err
		}
		d.URL = url
		return d, nil
	}

	body, err := s.files.ReadFileStream(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	d.Body = body
	return d, nil
}
