package directorysheets

import (
	"context"
	"net/http"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeValues struct {
	calls []string
	rows  [][]any
	err   error
}

func (f *fakeValues) GetValues(_ context.Context, id, rng string) ([][]any, error) {
	f.calls = append(f.calls, id+"|"+rng)
	return f.rows, f.err
}

var header = []any{"Name", "Rank", "Email", "WhatsApp", "College"}

func TestContactsReadsConfiguredSheets(t *testing.T) {
	fake := &fakeValues{rows: [][]any{header, {"Rao", "Lt", "RAO@x.in", "+91 1", "Fergusson"}}}
	cfg := config.SheetsConfig{APIKey: "k", AnoSheetID: "ano", AnoRange: "Sheet1!A:E", CadetRange: "Cadets!A:E"}
	src := NewWithAPI(fake, cfg)

	got, err := src.Contacts(context.Background(), directory.KindANO)
	require.NoError(t, err)
	assert.Equal(t, "rao@x.in", got[0].Email)

	_, err = src.Contacts(context.Background(), directory.KindCadet)
	require.NoError(t, err)

	assert.Equal(t, []string{"ano|Sheet1!A:E", "ano|Sheet1!A:E"}, fake.calls, "cadet sheet falls back to the ano sheet")
}

func TestContactsClassifiesErrors(t *testing.T) {
	cfg := config.SheetsConfig{APIKey: "k", AnoSheetID: "ano", AnoRange: "Sheet1!A:E"}

	src := NewWithAPI(&fakeValues{err: &googleapi.Error{Code: http.StatusForbidden}}, cfg)
	_, err := src.Contacts(context.Background(), directory.KindANO)
	assert.True(t, errx.HasCode(err, directory.CodeAccessDenied))

	src = NewWithAPI(&fakeValues{err: &googleapi.Error{Code: http.StatusInternalServerError}}, cfg)
	_, err = src.Contacts(context.Background(), directory.KindANO)
	assert.True(t, errx.HasCode(err, directory.CodeFetchFailed))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), config.SheetsConfig{})
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, directory.CodeNotConfigured))
}
