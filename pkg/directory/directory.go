// Package directory reads ANO and cadet contacts from the spreadsheet
// directory and reconciles them with the colleges stored in the database.
package directory

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

type Kind string

const (
	KindANO   Kind = "ano"
	KindCadet Kind = "cadet"
)

// Contact is one spreadsheet row: name, rank, email, WhatsApp number, college
type Contact struct {
	Name           string `json:"name"`
	Rank           string `json:"rank"`
	Email          string `json:"email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	College        string `json:"college"`
}

const columns = 5

// ParseRows turns raw sheet values into contacts. The first row is the header.
// Rows with fewer than five columns or any blank column are skipped.
func ParseRows(rows [][]any) []Contact {
	if len(rows) <= 1 {
		return []Contact{}
	}

	out := make([]Contact, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < columns {
			continue
		}
		var cells [columns]string
		complete := true
		for i := range columns {
			cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
			if cells[i] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		out = append(out, Contact{
			Name:           cells[0],
			Rank:           cells[1],
			Email:          strings.ToLower(cells[2]),
			WhatsAppNumber: cells[3],
			College:        cells[4],
		})
	}
	return out
}

func normalizeCollege(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameCollege compares college names ignoring case and surrounding space
func SameCollege(a, b string) bool {
	return normalizeCollege(a) == normalizeCollege(b)
}

// RosterMatch is the looser match used for cadet rosters: either name may
// contain the other.
func RosterMatch(sheetCollege, college string) bool {
	a, b := normalizeCollege(sheetCollege), normalizeCollege(college)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// FilterByColleges keeps the contacts whose college equals one of names
func FilterByColleges(contacts []Contact, names []string) []Contact {
	targets := make(map[string]bool, len(names))
	for _, n := range names {
		targets[normalizeCollege(n)] = true
	}
	out := []Contact{}
	for _, c := range contacts {
		if targets[normalizeCollege(c.College)] {
			out = append(out, c)
		}
	}
	return out
}

type ConnectionResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Contacts []Contact `json:"contacts,omitempty"`
}

// Assignment is one ANO assigned to a college in the database
type Assignment struct {
	CollegeID   string
	CollegeName string
	ANOName     string
	ANOEmail    string
}

type Match struct {
	SheetCollege string `json:"sheet_college"`
	College      string `json:"college"`
	ANOName      string `json:"ano_name"`
	SheetEmail   string `json:"sheet_email"`
}

type CollegeGap struct {
	CollegeName string `json:"college_name"`
	ANOCount    int    `json:"ano_count"`
}

type ReconcileReport struct {
	Matched           []Match      `json:"matched"`
	UnmatchedSheet    []Contact    `json:"unmatched_sheet"`
	UnmatchedColleges []CollegeGap `json:"unmatched_colleges"`
}

// Reconcile compares sheet rows with database assignments. Every sheet row
// whose college has an assignment is a match; colleges with no sheet row are
// reported with their ANO count.
func Reconcile(sheet []Contact, assignments []Assignment) ReconcileReport {
	report := ReconcileReport{
		Matched:           []Match{},
		UnmatchedSheet:    []Contact{},
		UnmatchedColleges: []CollegeGap{},
	}

	byCollege := make(map[string]Assignment, len(assignments))
	for _, a := range assignments {
		key := normalizeCollege(a.CollegeName)
		if _, ok := byCollege[key]; !ok {
			byCollege[key] = a
		}
	}

	inSheet := make(map[string]bool, len(sheet))
	for _, c := range sheet {
		key := normalizeCollege(c.College)
		inSheet[key] = true
		if a, ok := byCollege[key]; ok {
			report.Matched = append(report.Matched, Match{
				SheetCollege: c.College,
				College:      a.CollegeName,
				ANOName:      a.ANOName,
				SheetEmail:   c.Email,
			})
			continue
		}
		report.UnmatchedSheet = append(report.UnmatchedSheet, c)
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range assignments {
		if counts[a.CollegeName] == 0 {
			order = append(order, a.CollegeName)
		}
		counts[a.CollegeName]++
	}
	for _, name := range order {
		if !inSheet[normalizeCollege(name)] {
			report.UnmatchedColleges = append(report.UnmatchedColleges, CollegeGap{CollegeName: name, ANOCount: counts[name]})
		}
	}
	return report
}

var ErrRegistry = errx.NewRegistry("DIRECTORY")

var (
	CodeNotConfigured = ErrRegistry.Register("NOT_CONFIGURED", errx.TypeValidation, http.StatusServiceUnavailable, "Spreadsheet directory is not configured")
	CodeFetchFailed   = ErrRegistry.Register("FETCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read the spreadsheet directory")
	CodeAccessDenied  = ErrRegistry.Register("ACCESS_DENIED", errx.TypeExternal, http.StatusBadGateway, "Spreadsheet access denied; check the API key and sharing settings")
)

func ErrNotConfigured(missing []string) *errx.Error {
	return ErrRegistry.New(CodeNotConfigured).WithDetail("missing", missing)
}

func ErrFetchFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeFetchFailed, cause)
}

func ErrAccessDenied(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeAccessDenied, cause)
}
