package directory_test

import (
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/stretchr/testify/assert"
)

func TestParseRows(t *testing.T) {
	rows := [][]any{
		{"Name", "Rank", "Email", "WhatsApp", "College"},
		{" Anita Rao ", "Lt", " Anita.Rao@College.IN ", "+91 98765 43210", " Fergusson College "},
		{"Short", "Row"},
		{"Blank", "", "b@c.in", "+91", "SP College"},
		{"Vikram", "Capt", "vikram@college.in", 919812345678, "SP College", "extra"},
	}

	got := directory.ParseRows(rows)
	assert.Equal(t, []directory.Contact{
		{Name: "Anita Rao", Rank: "Lt", Email: "anita.rao@college.in", WhatsAppNumber: "+91 98765 43210", College: "Fergusson College"},
		{Name: "Vikram", Rank: "Capt", Email: "vikram@college.in", WhatsAppNumber: "919812345678", College: "SP College"},
	}, got)

	assert.Empty(t, directory.ParseRows(nil))
	assert.Empty(t, directory.ParseRows(rows[:1]))
}

func TestCollegeMatching(t *testing.T) {
	contacts := []directory.Contact{
		{Name: "A", College: "Fergusson College"},
		{Name: "B", College: "sp college "},
		{Name: "C", College: "Wadia College"},
	}

	got := directory.FilterByColleges(contacts, []string{" FERGUSSON college", "SP College"})
	assert.Len(t, got, 2)

	assert.True(t, directory.RosterMatch("Fergusson College, Pune", "fergusson college"))
	assert.True(t, directory.RosterMatch("Fergusson", "Fergusson College"))
	assert.False(t, directory.RosterMatch("", "Fergusson College"))
	assert.False(t, directory.SameCollege("Fergusson", "Fergusson College"))
}

func TestReconcile(t *testing.T) {
	sheet := []directory.Contact{
		{Name: "Rao", Email: "rao@college.in", College: "fergusson college"},
		{Name: "Singh", Email: "singh@college.in", College: "Unknown College"},
	}
	assignments := []directory.Assignment{
		{CollegeName: "Fergusson College", ANOName: "Lt. Rao"},
		{CollegeName: "SP College", ANOName: "Capt. Deshmukh"},
		{CollegeName: "SP College", ANOName: "Lt. Kulkarni"},
	}

	report := directory.Reconcile(sheet, assignments)

	assert.Equal(t, []directory.Match{{
		SheetCollege: "fergusson college",
		College:      "Fergusson College",
		ANOName:      "Lt. Rao",
		SheetEmail:   "rao@college.in",
	}}, report.Matched)
	assert.Equal(t, "Unknown College", report.UnmatchedSheet[0].College)
	assert.Equal(t, []directory.CollegeGap{{CollegeName: "SP College", ANOCount: 2}}, report.UnmatchedColleges)
}
