package camp_test

import (
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to camp.Status
		ok       bool
	}{
		{camp.StatusDraft, camp.StatusPublished, true},
		{camp.StatusDraft, camp.StatusClosed, true},
		{camp.StatusPublished, camp.StatusClosed, true},
		{camp.StatusPublished, camp.StatusPublished, true},
		{camp.StatusClosed, camp.StatusClosed, true},
		{camp.StatusPublished, camp.StatusDraft, false},
		{camp.StatusClosed, camp.StatusPublished, false},
		{camp.StatusClosed, camp.StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCheckVacancies(t *testing.T) {
	req := camp.CampRequest{Vacancies: map[kernel.CollegeID]int{"c1": 4, "c2": 0}}
	require.NoError(t, req.CheckVacancies())
	assert.Equal(t, map[kernel.CollegeID]int{"c1": 4}, req.Vacancies)

	req = camp.CampRequest{Vacancies: map[kernel.CollegeID]int{"c1": 0}}
	assert.True(t, errx.HasCode(req.CheckVacancies(), camp.CodeNoVacancy))

	req = camp.CampRequest{Vacancies: map[kernel.CollegeID]int{"c1": 3, "c2": -1}}
	assert.True(t, errx.HasCode(req.CheckVacancies(), camp.CodeInvalidVacancy))
}

func TestLetterCheck(t *testing.T) {
	ok := camp.Letter{Name: "a.pdf", ContentType: "application/pdf", Data: make([]byte, 10)}
	assert.NoError(t, ok.Check())

	docx := camp.Letter{Name: "a.docx", ContentType: "application/msword"}
	assert.True(t, errx.HasCode(docx.Check(), camp.CodeLetterType))

	big := camp.Letter{Name: "a.png", ContentType: "image/png", Data: make([]byte, camp.MaxLetterSize+1)}
	assert.True(t, errx.HasCode(big.Check(), camp.CodeLetterTooLarge))
}

func TestMatchesAndTotals(t *testing.T) {
	c := camp.CampNotification{
		Title:       "Annual Training Camp",
		Venue:       "Khadakwasla",
		Description: "Firing practice",
		Vacancies:   map[kernel.CollegeID]int{"c1": 3, "c2": 2},
	}
	assert.True(t, c.Matches("KHADAK"))
	assert.True(t, c.Matches("firing"))
	assert.False(t, c.Matches("trek"))
	assert.Equal(t, 5, c.TotalVacancies())
	assert.ElementsMatch(t, []kernel.CollegeID{"c1", "c2"}, c.AllottedColleges())
}
