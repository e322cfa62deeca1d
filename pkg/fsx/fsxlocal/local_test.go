package fsxlocal_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx/fsxlocal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadDelete(t *testing.T) {
	ctx := context.Background()
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	p := fs.Join("cadet-documents", "sub-1", "123-form.pdf")
	require.NoError(t, fs.WriteFile(ctx, p, []byte("%PDF-1.4")))

	data, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	info, err := fs.Stat(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", info.ContentType)
	assert.EqualValues(t, 8, info.Size)

	ok, err := fs.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, fs.DeleteFile(ctx, p))
	require.NoError(t, fs.DeleteFile(ctx, p), "deleting twice is fine")

	ok, err = fs.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamAndMissing(t *testing.T) {
	ctx := context.Background()
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.WriteFileStream(ctx, "a/b.txt", strings.NewReader("hello")))
	r, err := fs.ReadFileStream(ctx, "a/b.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "hello", string(body))

	_, err = fs.ReadFile(ctx, "nope.txt")
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestPathsStayUnderBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	fs, err := fsxlocal.NewLocalFileSystem(base)
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile(ctx, "../../escape.txt", []byte("x")))
	ok, err := fs.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}
