package selectionsrv

import (
	"context"
	"encoding/csv"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

// Auditor records reviewer actions. auth.AuditService satisfies it.
type Auditor interface {
	LogEvent(ctx context.Context, event string, fields map[string]any)
}

const mutateAttempts = 3

type SelectionService struct {
	repos    selection.Repos
	uow      selection.UnitOfWork
	camps    selection.CampLookup
	colleges selection.ANOColleges
	notifier selection.Notifier
	audit    Auditor
	now      func() time.Time
}

func NewSelectionService(
	repos selection.Repos,
	uow selection.UnitOfWork,
	camps selection.CampLookup,
	colleges selection.ANOColleges,
	notifier selection.Notifier,
	audit Auditor,
) *SelectionService {
	return &SelectionService{
		repos:    repos,
		uow:      uow,
		camps:    camps,
		colleges: colleges,
		notifier: notifier,
		audit:    audit,
		now:      time.Now,
	}
}

// Submit records the ANO's cadets for a published camp, within the college's vacancy
func (s *SelectionService) Submit(ctx context.Context, ano *kernel.AuthContext, req selection.SubmitRequest) (*selection.Submission, error) {
	req.Cadets = selection.NormalizeCadets(req.Cadets)
	if len(req.Cadets) == 0 {
		return nil, selection.ErrNoCadets()
	}
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.camps.GetCamp(ctx, req.CampID)
	if err != nil {
		return nil, err
	}
	if c.Status != camp.StatusPublished {
		return nil, selection.ErrCampNotOpen().WithDetail("status", c.Status)
	}

	col, err := s.colleges.ForANO(ctx, ano.UserID)
	if err != nil {
		return nil, err
	}
	vacancy := c.VacancyFor(col.ID)
	if vacancy == 0 {
		return nil, selection.ErrCollegeNotAllotted().WithDetail("college_id", col.ID)
	}
	if len(req.Cadets) > vacancy {
		return nil, selection.ErrOverVacancy(vacancy, len(req.Cadets))
	}

	name := ano.Name
	if name == "" {
		name = ano.Email
	}
	sub := selection.Submission{
		ID:          kernel.NewID[kernel.SubmissionID](),
		CampID:      c.ID,
		CampTitle:   c.Title,
		CollegeID:   col.ID,
		CollegeName: col.Name,
		ANOID:       ano.UserID,
		ANOName:     name,
		Cadets:      req.Cadets,
		Decisions:   []selection.Decision{},
		Documents:   []selection.Document{},
		Status:      selection.StatusPending,
		SubmittedAt: s.now(),
		Version:     1,
	}
	if err := s.repos.Submissions.Create(ctx, sub); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"submission_id": sub.ID,
		"camp_id":       sub.CampID,
		"college":       sub.CollegeName,
		"cadets":        len(sub.Cadets),
	}).Info("cadets submitted")
	return &sub, nil
}

// Track lists the ANO's submissions with per-status counts
func (s *SelectionService) Track(ctx context.Context, anoID kernel.UserID) (*selection.Tracking, error) {
	subs, err := s.repos.Submissions.ListByANO(ctx, anoID)
	if err != nil {
		return nil, err
	}
	return &selection.Tracking{Submissions: subs, Counts: selection.CountStatuses(subs)}, nil
}

func (s *SelectionService) GetSubmission(ctx context.Context, id kernel.SubmissionID) (*selection.Submission, error) {
	return s.repos.Submissions.FindByID(ctx, id)
}

// GetOwned returns the submission only when anoID submitted it
func (s *SelectionService) GetOwned(ctx context.Context, anoID kernel.UserID, id kernel.SubmissionID) (*selection.Submission, error) {
	sub, err := s.repos.Submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.ANOID != anoID {
		return nil, selection.ErrNotOwner().WithDetail("submission_id", id)
	}
	return sub, nil
}

func (s *SelectionService) CountByStatus(ctx context.Context) (map[selection.Status]int, error) {
	return s.repos.Submissions.CountByStatus(ctx)
}

// ReviewQueue lists submissions still open for review, newest first
func (s *SelectionService) ReviewQueue(ctx context.Context, filter selection.QueueFilter) ([]*selection.Submission, error) {
	subs, err := s.repos.Submissions.ListOpen(ctx, filter.CampID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(subs, func(sub *selection.Submission) bool { return !sub.Matches(filter.Query) }), nil
}

// RecordDecision sets one cadet's status. The cadet hears about it only when
// the status changes to selected or reserve.
func (s *SelectionService) RecordDecision(
	ctx context.Context,
	reviewer *kernel.AuthContext,
	id kernel.SubmissionID,
	req selection.DecisionRequest,
) (*selection.Submission, error) {
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, selection.ErrInvalidDecision().WithDetail("status", req.Status)
	}

	sub, err := s.repos.Submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.IsFinalized() {
		return nil, selection.ErrAlreadyFinalized().WithDetail("submission_id", id)
	}
	if sub.Version != req.Version {
		return nil, selection.ErrStaleSubmission().WithDetail("submission_id", id)
	}
	if req.CadetIndex >= len(sub.Cadets) {
		return nil, selection.ErrInvalidCadetIndex(req.CadetIndex)
	}

	prev := sub.Decide(req.CadetIndex, req.Status, reviewer.UserID, s.now())
	if err := s.repos.Submissions.Update(ctx, sub); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"submission_id": id,
		"cadet_index":   req.CadetIndex,
		"from":          prev,
		"to":            req.Status,
		"reviewer":      reviewer.UserID,
	}).Info("cadet decision recorded")

	if prev != req.Status && req.Status.Notifies() {
		s.notify(ctx, []selection.CadetNotice{{
			Kind:        selection.NoticeKind(req.Status),
			Cadet:       sub.Cadets[req.CadetIndex],
			CampTitle:   sub.CampTitle,
			CollegeName: sub.CollegeName,
		}})
	}
	return sub, nil
}

// Finalize locks the given submissions in one transaction. Submissions that
// are missing, already finalized or carry no decisions are reported as skipped.
func (s *SelectionService) Finalize(ctx context.Context, reviewer *kernel.AuthContext, req selection.FinalizeRequest) (*selection.FinalizeResult, error) {
	ids := dedupIDs(req.SubmissionIDs)
	if len(ids) == 0 {
		return nil, selection.ErrNothingToFinalize()
	}

	reviewerName := reviewer.Name
	if reviewerName == "" {
		reviewerName = reviewer.Email
	}

	var result *selection.FinalizeResult
	err := s.uow.Do(ctx, func(r selection.Repos) error {
		res := &selection.FinalizeResult{
			Finalized:  []kernel.SubmissionID{},
			Selections: []selection.FinalizedSelection{},
			Skipped:    []selection.Skipped{},
		}

		found, err := r.Submissions.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[kernel.SubmissionID]*selection.Submission, len(found))
		for _, sub := range found {
			byID[sub.ID] = sub
		}

		now := s.now()
		for _, id := range ids {
			sub, ok := byID[id]
			switch {
			case !ok:
				res.Skipped = append(res.Skipped, selection.Skipped{SubmissionID: id, Reason: "not found"})
				continue
			case sub.IsFinalized():
				res.Skipped = append(res.Skipped, selection.Skipped{SubmissionID: id, Reason: "already finalized"})
				continue
			case len(sub.Decisions) == 0:
				res.Skipped = append(res.Skipped, selection.Skipped{SubmissionID: id, Reason: "no decisions"})
				continue
			}

			sub.Status = selection.StatusFinalized
			sub.FinalizedAt = &now
			sub.FinalizedBy = reviewer.UserID
			if err := r.Submissions.Update(ctx, sub); err != nil {
				return err
			}
			res.Finalized = append(res.Finalized, id)

			if fs, ok := selection.NewFinalizedSelection(sub, reviewerName); ok {
				if err := r.Finalized.Create(ctx, fs); err != nil {
					return err
				}
				res.Selections = append(res.Selections, fs)
			}
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.LogEvent(ctx, "selection.finalized", map[string]any{
			"reviewer":   reviewer.UserID,
			"finalized":  len(result.Finalized),
			"selections": len(result.Selections),
			"skipped":    len(result.Skipped),
		})
	}
	return result, nil
}

// ListFinalized returns locked selections with selected and reserve totals
func (s *SelectionService) ListFinalized(ctx context.Context, filter selection.QueueFilter) (*selection.FinalizedList, error) {
	all, err := s.repos.Finalized.List(ctx, filter.CampID)
	if err != nil {
		return nil, err
	}
	list := &selection.FinalizedList{Selections: []*selection.FinalizedSelection{}}
	for _, f := range all {
		if !f.Matches(filter.Query) {
			continue
		}
		list.Selections = append(list.Selections, f)
		list.TotalSelected += len(f.Selected)
		list.TotalReserve += len(f.Reserve)
	}
	return list, nil
}

// SelectInstitute records an institute-level pick across open submissions.
// Every pick must name a cadet of an open submission or nothing is saved.
func (s *SelectionService) SelectInstitute(ctx context.Context, reviewer *kernel.AuthContext, req selection.InstituteRequest) (*selection.InstituteSelection, error) {
	picks := dedupPicks(req.Picks)
	if len(picks) == 0 {
		return nil, selection.ErrNoPicks()
	}
	req.Picks = picks
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}

	ids := make([]kernel.SubmissionID, 0, len(picks))
	for _, p := range picks {
		ids = append(ids, p.SubmissionID)
	}
	ids = dedupIDs(ids)

	var saved selection.InstituteSelection
	err := s.uow.Do(ctx, func(r selection.Repos) error {
		found, err := r.Submissions.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[kernel.SubmissionID]*selection.Submission, len(found))
		for _, sub := range found {
			byID[sub.ID] = sub
		}

		now := s.now()
		cadets := make([]selection.InstituteCadet, 0, len(picks))
		touched := make([]*selection.Submission, 0, len(ids))
		for _, p := range picks {
			sub, ok := byID[p.SubmissionID]
			if !ok {
				return selection.ErrSubmissionNotFound().WithDetail("submission_id", p.SubmissionID)
			}
			if sub.IsFinalized() {
				return selection.ErrAlreadyFinalized().WithDetail("submission_id", p.SubmissionID)
			}
			cadet, ok := sub.CadetByEmail(p.CadetEmail)
			if !ok {
				return selection.ErrUnknownCadet(p.CadetEmail).WithDetail("submission_id", p.SubmissionID)
			}

			if !slices.Contains(sub.InstitutePicks, cadet.Email) {
				sub.InstitutePicks = append(sub.InstitutePicks, cadet.Email)
			}
			if !slices.Contains(touched, sub) {
				touched = append(touched, sub)
			}
			cadets = append(cadets, selection.InstituteCadet{
				Cadet:        cadet,
				CollegeName:  sub.CollegeName,
				CampID:       sub.CampID,
				CampTitle:    sub.CampTitle,
				SubmissionID: sub.ID,
			})
		}

		for _, sub := range touched {
			sub.Status = selection.StatusReviewed
			sub.ReviewedAt = &now
			if err := r.Submissions.Update(ctx, sub); err != nil {
				return err
			}
		}

		saved = selection.NewInstituteSelection(cadets, reviewer.UserID, now)
		return r.Institute.Create(ctx, saved)
	})
	if err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"selection_id": saved.ID,
		"total":        saved.TotalSelected,
		"submissions":  len(ids),
	}).Info("institute selection recorded")

	notices := make([]selection.CadetNotice, len(saved.Selected))
	for i, c := range saved.Selected {
		notices[i] = selection.CadetNotice{
			Kind:        selection.NoticeInstitute,
			Cadet:       c.Cadet,
			CampTitle:   c.CampTitle,
			CollegeName: c.CollegeName,
		}
	}
	s.notify(ctx, notices)
	return &saved, nil
}

// ListInstitute returns institute selections newest first with the grand total
func (s *SelectionService) ListInstitute(ctx context.Context) (*selection.InstituteList, error) {
	all, err := s.repos.Institute.List(ctx)
	if err != nil {
		return nil, err
	}
	list := &selection.InstituteList{Selections: all}
	for _, is := range all {
		list.GrandTotal += is.TotalSelected
	}
	return list, nil
}

// ExportInstitute writes institute-selected cadets as CSV. An empty id exports every selection.
func (s *SelectionService) ExportInstitute(ctx context.Context, id string, w io.Writer) error {
	list, err := s.ListInstitute(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rank", "Name", "Email", "WhatsApp", "College", "Camp"}); err != nil {
		return errx.Wrap(err, "failed to write csv", errx.TypeInternal)
	}
	matched := id == ""
	for _, is := range list.Selections {
		if id != "" && is.ID != id {
			continue
		}
		matched = true
		for _, c := range is.Selected {
			row := []string{c.Rank, c.Name, c.Email, c.WhatsAppNumber, c.CollegeName, c.CampTitle}
			if err := cw.Write(row); err != nil {
				return errx.Wrap(err, "failed to write csv", errx.TypeInternal)
			}
		}
	}
	if !matched {
		return errx.NotFound("institute selection not found").WithDetail("selection_id", id)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errx.Wrap(err, "failed to write csv", errx.TypeInternal)
	}
	return nil
}

// AttachDocuments appends uploaded documents to the ANO's own submission
func (s *SelectionService) AttachDocuments(ctx context.Context, anoID kernel.UserID, id kernel.SubmissionID, docs []selection.Document) (*selection.Submission, error) {
	return s.mutate(ctx, id, func(sub *selection.Submission) error {
		if sub.ANOID != anoID {
			return selection.ErrNotOwner().WithDetail("submission_id", id)
		}
		sub.Documents = append(sub.Documents, docs...)
		return nil
	})
}

// mutate reloads and reapplies fn when a concurrent writer bumped the version
func (s *SelectionService) mutate(ctx context.Context, id kernel.SubmissionID, fn func(*selection.Submission) error) (*selection.Submission, error) {
	var err error
	for range mutateAttempts {
		var sub *selection.Submission
		sub, err = s.repos.Submissions.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err = fn(sub); err != nil {
			return nil, err
		}
		if err = s.repos.Submissions.Update(ctx, sub); err == nil {
			return sub, nil
		}
		if !errx.HasCode(err, selection.CodeStaleSubmission) {
			return nil, err
		}
	}
	return nil, err
}

func (s *SelectionService) notify(ctx context.Context, notices []selection.CadetNotice) {
	if s.notifier == nil || len(notices) == 0 {
		return
	}
	if err := s.notifier.NotifyCadets(ctx, notices); err != nil {
		logx.WithError(err).WithField("notices", len(notices)).Warn("cadet notification failed")
	}
}

func dedupIDs(ids []kernel.SubmissionID) []kernel.SubmissionID {
	seen := make(map[kernel.SubmissionID]bool, len(ids))
	out := make([]kernel.SubmissionID, 0, len(ids))
	for _, id := range ids {
		if id.IsEmpty() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func dedupPicks(picks []selection.Pick) []selection.Pick {
	type key struct {
		sub   kernel.SubmissionID
		email string
	}
	seen := make(map[key]bool, len(picks))
	out := make([]selection.Pick, 0, len(picks))
	for _, p := range picks {
		p.CadetEmail = normalizeEmail(p.CadetEmail)
		k := key{p.SubmissionID, p.CadetEmail}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
