package dispatchsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/asyncx"
	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/dispatch"
	"github.com/Abraxas-365/nccerp/pkg/jobx"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/Abraxas-365/nccerp/pkg/selection"
)

type Options struct {
	// Mode is dispatch.ModeSync or dispatch.ModeQueue
	Mode        string
	Queue       string
	Workers     int
	SendTimeout time.Duration
	PortalURL   string
	FromAddress string
	// Twilio is checked for missing credentials when set
	Twilio *config.TwilioConfig
	Sheets config.SheetsConfig
}

// Dispatcher announces camps and tells cadets about their selection outcome
type Dispatcher struct {
	sender    dispatch.Sender
	templates *notifx.TemplateRegistry
	directory dispatch.Directory
	contacts  dispatch.ContactBook
	colleges  dispatch.Colleges
	jobs      jobx.JobEnqueuer
	opts      Options
	now       func() time.Time
}

func NewDispatcher(
	sender dispatch.Sender,
	dir dispatch.Directory,
	contacts dispatch.ContactBook,
	colleges dispatch.Colleges,
	jobs jobx.JobEnqueuer,
	opts Options,
) *Dispatcher {
	if opts.Mode == "" {
		opts.Mode = dispatch.ModeSync
	}
	return &Dispatcher{
		sender:    sender,
		templates: dispatch.NewTemplates(),
		directory: dir,
		contacts:  contacts,
		colleges:  colleges,
		jobs:      jobs,
		opts:      opts,
		now:       time.Now,
	}
}

var (
	_ camp.Broadcaster   = (*Dispatcher)(nil)
	_ selection.Notifier = (*Dispatcher)(nil)
)

// Missing lists the configuration variables a camp broadcast still needs
func (d *Dispatcher) Missing() []string {
	var missing []string
	if d.opts.Twilio != nil {
		missing = append(missing, d.opts.Twilio.Missing()...)
	}
	return append(missing, d.opts.Sheets.Missing()...)
}

// RegisterJobs attaches the delivery handler to a jobx worker
func (d *Dispatcher) RegisterJobs(client *jobx.Client) {
	client.Register(dispatch.JobDeliver, d.handleDeliver)
}

func (d *Dispatcher) handleDeliver(ctx context.Context, job *jobx.JobInfo) error {
	var batch dispatch.Batch
	if err := job.Decode(&batch); err != nil {
		return jobx.Permanent(err)
	}

	res := d.deliver(ctx, batch.Messages)
	logx.WithFields(logx.Fields{
		"job_id": job.ID,
		"reason": batch.Reason,
		"sent":   res.Sent,
		"failed": res.Failed,
	}).Info("dispatch batch delivered")

	// retry only when nothing was delivered
	if res.Sent == 0 && res.Failed > 0 {
		return dispatch.ErrDeliveryFailed(res.Failed, res.Total)
	}
	return nil
}

// BroadcastCamp messages the ANOs of every college with a vacancy, and the
// cadets of those colleges when the camp is addressed to cadets.
func (d *Dispatcher) BroadcastCamp(ctx context.Context, c camp.CampNotification) (*camp.BroadcastResult, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return nil, dispatch.ErrNotConfigured(missing)
	}

	names, err := d.collegeNames(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return &camp.BroadcastResult{}, nil
	}

	anos, err := d.directory.ByColleges(ctx, names)
	if err != nil {
		return nil, err
	}
	anos = d.overlay(ctx, anos)

	data := dispatch.CampData{
		Camp:        c.Title,
		Description: c.Description,
		Venue:       c.Venue,
		Date:        longDate(&c),
		Time:        c.ReportingTime,
		Sender:      c.CreatedBy,
		PortalURL:   d.opts.PortalURL,
	}

	var msgs []dispatch.Message
	for _, a := range anos {
		data.Rank, data.Name = a.Rank, a.Name
		body, err := d.templates.Render(dispatch.TemplateANOCamp, data)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, dispatch.Message{Channel: notifx.ChannelWhatsApp, To: a.WhatsAppNumber, Name: a.Name, Body: body})
		if a.Email != "" && d.sender.EmailEnabled() {
			msgs = append(msgs, dispatch.Message{
				Channel: notifx.ChannelEmail,
				To:      a.Email,
				Name:    a.Name,
				Subject: "NCC Camp Notification: " + c.Title,
				Body:    body,
			})
		}
	}

	if c.SendTo == camp.AudienceCadets {
		cadets, err := d.directory.CadetsByColleges(ctx, names)
		if err != nil {
			return nil, err
		}
		for _, cd := range cadets {
			data.Rank, data.Name = cd.Rank, cd.Name
			body, err := d.templates.Render(dispatch.TemplateCadetCamp, data)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, dispatch.Message{Channel: notifx.ChannelWhatsApp, To: cd.WhatsAppNumber, Name: cd.Name, Body: body})
		}
	}

	logx.WithFields(logx.Fields{
		"camp_id":  c.ID,
		"colleges": len(names),
		"anos":     len(anos),
		"messages": len(msgs),
		"mode":     d.opts.Mode,
	}).Info("broadcasting camp")

	if len(msgs) == 0 {
		return &camp.BroadcastResult{}, nil
	}
	return d.send(ctx, "camp:"+c.ID.String(), msgs)
}

// NotifyCadets sends selection outcome messages
func (d *Dispatcher) NotifyCadets(ctx context.Context, notices []selection.CadetNotice) error {
	if d.opts.Twilio != nil {
		if missing := d.opts.Twilio.Missing(); len(missing) > 0 {
			return dispatch.ErrNotConfigured(missing)
		}
	}

	msgs := make([]dispatch.Message, 0, len(notices))
	for _, n := range notices {
		body, err := d.templates.Render(templateFor(n.Kind), dispatch.OutcomeData{
			Rank:    n.Cadet.Rank,
			Name:    n.Cadet.Name,
			Camp:    n.CampTitle,
			College: n.CollegeName,
			Date:    d.now().Format("2 January 2006"),
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, dispatch.Message{Channel: notifx.ChannelWhatsApp, To: n.Cadet.WhatsAppNumber, Name: n.Cadet.Name, Body: body})
	}
	if len(msgs) == 0 {
		return nil
	}

	res, err := d.send(ctx, "selection", msgs)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return dispatch.ErrDeliveryFailed(res.Failed, res.Total)
	}
	return nil
}

func templateFor(kind selection.NoticeKind) string {
	switch kind {
	case selection.NoticeReserve:
		return dispatch.TemplateReserve
	case selection.NoticeInstitute:
		return dispatch.TemplateInstitute
	default:
		return dispatch.TemplateSelected
	}
}

func (d *Dispatcher) send(ctx context.Context, reason string, msgs []dispatch.Message) (*camp.BroadcastResult, error) {
	if d.opts.Mode != dispatch.ModeQueue {
		return d.deliver(ctx, msgs), nil
	}
	if d.jobs == nil {
		return nil, dispatch.ErrNoQueue()
	}

	job, err := jobx.NewJob(dispatch.JobDeliver, d.opts.Queue, dispatch.Batch{Reason: reason, Messages: msgs})
	if err != nil {
		return nil, err
	}
	id, err := d.jobs.Enqueue(ctx, job)
	if err != nil {
		return nil, err
	}
	return &camp.BroadcastResult{Success: true, Total: len(msgs), JobID: id}, nil
}

// deliver sends msgs through a bounded worker pool and tallies the outcome
func (d *Dispatcher) deliver(ctx context.Context, msgs []dispatch.Message) *camp.BroadcastResult {
	results := asyncx.Pool(ctx, d.opts.Workers, msgs, func(ctx context.Context, m dispatch.Message) (notifx.SendResult, error) {
		if d.opts.SendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.opts.SendTimeout)
			defer cancel()
		}
		if m.Channel == notifx.ChannelEmail {
			return d.sender.SendEmail(ctx, notifx.EmailMessage{
				From:     d.opts.FromAddress,
				To:       []string{m.To},
				Subject:  m.Subject,
				TextBody: m.Body,
			}), nil
		}
		return d.sender.SendWhatsApp(ctx, notifx.WhatsAppMessage{To: m.To, Body: m.Body}), nil
	})

	out := &camp.BroadcastResult{Total: len(msgs), Results: make([]notifx.SendResult, len(msgs))}
	for i, r := range results {
		sr := r.Value
		if r.Err != nil {
			sr = notifx.SendResult{Channel: msgs[i].Channel, To: msgs[i].To, Error: r.Err.Error()}
		}
		if sr.Success {
			out.Sent++
		} else {
			out.Failed++
			logx.WithFields(logx.Fields{
				"channel": sr.Channel,
				"name":    msgs[i].Name,
				"error":   sr.Error,
			}).Warn("message not delivered")
		}
		out.Results[i] = sr
	}
	out.Success = out.Sent > 0
	return out
}

func (d *Dispatcher) collegeNames(ctx context.Context, c camp.CampNotification) ([]string, error) {
	ids := c.AllottedColleges()
	if len(ids) == 0 {
		return nil, nil
	}
	cols, err := d.colleges.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		names = append(names, col.Name)
	}
	return names, nil
}

// overlay prefers managed contact details. A failing lookup keeps the sheet data.
func (d *Dispatcher) overlay(ctx context.Context, anos []directory.Contact) []directory.Contact {
	if d.contacts == nil || len(anos) == 0 {
		return anos
	}
	emails := make([]string, 0, len(anos))
	for _, a := range anos {
		if a.Email != "" {
			emails = append(emails, strings.ToLower(a.Email))
		}
	}
	managed, err := d.contacts.ByEmail(ctx, emails)
	if err != nil {
		logx.WithError(err).Warn("managed contact lookup failed, using sheet details")
		return anos
	}
	return dispatch.Overlay(anos, managed)
}

func longDate(c *camp.CampNotification) string {
	day, err := c.ReportingDay()
	if err != nil {
		return c.ReportingDate
	}
	return day.Format(dispatch.LongDate)
}
