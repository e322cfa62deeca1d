package document

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

// Submissions is the slice of the selection service documents depend on
type Submissions interface {
	GetSubmission(ctx context.Context, id kernel.SubmissionID) (*selection.Submission, error)
	GetOwned(ctx context.Context, anoID kernel.UserID, id kernel.SubmissionID) (*selection.Submission, error)
	AttachDocuments(ctx context.Context, anoID kernel.UserID, id kernel.SubmissionID, docs []selection.Document) (*selection.Submission, error)
}
