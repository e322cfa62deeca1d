// Package directorysheets reads the contact directory from Google Sheets
// using an API key.
package directorysheets

import (
	"context"
	"errors"
	"net/http"

	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ValuesAPI reads a range of cells
type ValuesAPI interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

type serviceValues struct {
	service *sheets.Service
}

func (s serviceValues) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

type Source struct {
	values ValuesAPI
	cfg    config.SheetsConfig
}

var _ directory.Source = (*Source)(nil)

// New creates a Sheets-backed source. It fails when the key or ANO sheet id is unset.
func New(ctx context.Context, cfg config.SheetsConfig) (*Source, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, directory.ErrNotConfigured(missing)
	}
	service, err := sheets.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, directory.ErrFetchFailed(err)
	}
	return NewWithAPI(serviceValues{service: service}, cfg), nil
}

func NewWithAPI(values ValuesAPI, cfg config.SheetsConfig) *Source {
	return &Source{values: values, cfg: cfg}
}

func (s *Source) Contacts(ctx context.Context, kind directory.Kind) ([]directory.Contact, error) {
	id, rng := s.cfg.AnoSheetID, s.cfg.AnoRange
	if kind == directory.KindCadet {
		id, rng = s.cfg.CadetSheet()
	}

	rows, err := s.values.GetValues(ctx, id, rng)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusForbidden || gerr.Code == http.StatusNotFound) {
			return nil, directory.ErrAccessDenied(err).WithDetail("spreadsheet_id", id)
		}
		return nil, directory.ErrFetchFailed(err).WithDetail("spreadsheet_id", id)
	}

	contacts := directory.ParseRows(rows)
	logx.WithFields(logx.Fields{
		"kind":     kind,
		"rows":     len(rows),
		"contacts": len(contacts),
	}).Debug("Read contact directory")
	return contacts, nil
}
