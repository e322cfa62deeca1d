package selection

import "github.com/Abraxas-365/nccerp/pkg/kernel"

type SubmitRequest struct {
	CampID kernel.CampID `json:"camp_id" validate:"required"`
	Cadets []Cadet       `json:"cadets" validate:"dive"`
}

type DecisionRequest struct {
	CadetIndex int         `json:"cadet_index" validate:"min=0"`
	Status     CadetStatus `json:"status" validate:"required"`
	// Version is the submission version the reviewer saw
	Version int `json:"version" validate:"min=1"`
}

type FinalizeRequest struct {
	SubmissionIDs []kernel.SubmissionID `json:"submission_ids"`
}

// Skipped explains why a submission was left out of a finalize run
type Skipped struct {
	SubmissionID kernel.SubmissionID `json:"submission_id"`
	Reason       string              `json:"reason"`
}

type FinalizeResult struct {
	Finalized  []kernel.SubmissionID `json:"finalized"`
	Selections []FinalizedSelection  `json:"selections"`
	Skipped    []Skipped             `json:"skipped"`
}

type Pick struct {
	SubmissionID kernel.SubmissionID `json:"submission_id" validate:"required"`
	CadetEmail   string              `json:"cadet_email" validate:"required,email"`
}

type InstituteRequest struct {
	Picks []Pick `json:"picks" validate:"dive"`
}

type QueueFilter struct {
	CampID kernel.CampID
	Query  string
}

type StatusCounts struct {
	Pending   int `json:"pending"`
	Reviewed  int `json:"reviewed"`
	Finalized int `json:"finalized"`
	Total     int `json:"total"`
}

func CountStatuses(subs []*Submission) StatusCounts {
	var c StatusCounts
	for _, s := range subs {
		switch s.Status {
		case StatusPending:
			c.Pending++
		case StatusReviewed:
			c.Reviewed++
		case StatusFinalized:
			c.Finalized++
		}
	}
	c.Total = len(subs)
	return c
}

type Tracking struct {
	Submissions []*Submission `json:"submissions"`
	Counts      StatusCounts  `json:"counts"`
}

type FinalizedList struct {
	Selections    []*FinalizedSelection `json:"selections"`
	TotalSelected int                   `json:"total_selected"`
	TotalReserve  int                   `json:"total_reserve"`
}

type InstituteList struct {
	Selections []*InstituteSelection `json:"selections"`
	GrandTotal int                   `json:"grand_total"`
}
